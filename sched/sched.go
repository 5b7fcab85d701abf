// Package sched is a cooperative, single-core executor for a fixed task set.
//
// Tasks are resumable state machines. Step runs a task up to its next
// suspension point and returns how long it wants to wait; nothing else
// interrupts it. The task list is fixed by Builder.Build and cannot grow
// afterwards.
package sched

import (
	"context"
	"errors"
	"math"
	"time"

	"ledfw-go/arena"
)

var (
	ErrSealed    = errors.New("sched: task set is sealed")
	ErrNilTask   = errors.New("sched: nil task")
	ErrNoTasks   = errors.New("sched: no tasks registered")
	ErrDuplicate = errors.New("sched: duplicate task name")
)

// Task is one cooperative task. Step must return promptly: a Step that never
// returns stalls every other task, and a panic halts the executor.
type Task interface {
	Name() string
	// Step resumes the task at now and returns the wait before its next
	// resumption. A wait <= 0 yields to the other tasks once.
	Step(now time.Duration) time.Duration
}

// Func adapts a function to Task.
type Func struct {
	ID string
	Fn func(now time.Duration) time.Duration
}

func (f Func) Name() string                         { return f.ID }
func (f Func) Step(now time.Duration) time.Duration { return f.Fn(now) }

// slot is per-task bookkeeping. It lives in the arena, so it must stay
// pointer-free.
type slot struct {
	wake int64 // ns since boot
	runs uint32
	_    uint32
}

// Builder collects the task set before the executor starts.
type Builder struct {
	heap   *arena.Arena
	clock  Clock
	tasks  []Task
	sealed bool
}

// NewBuilder returns a builder whose executor allocates from heap and keeps
// time with clock.
func NewBuilder(heap *arena.Arena, clock Clock) *Builder {
	return &Builder{heap: heap, clock: clock}
}

// Add registers t. Poll order is registration order.
func (b *Builder) Add(t Task) error {
	if b.sealed {
		return ErrSealed
	}
	if t == nil {
		return ErrNilTask
	}
	for _, x := range b.tasks {
		if x.Name() == t.Name() {
			return ErrDuplicate
		}
	}
	b.tasks = append(b.tasks, t)
	return nil
}

// Build seals the builder and returns the executor. The heap must already be
// initialised; Build panics otherwise.
func (b *Builder) Build() (*Executor, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	if len(b.tasks) == 0 {
		return nil, ErrNoTasks
	}
	b.sealed = true
	tasks := make([]Task, len(b.tasks))
	copy(tasks, b.tasks)
	return &Executor{
		tasks: tasks,
		slots: arena.Make[slot](b.heap, len(tasks)),
		clock: b.clock,
	}, nil
}

// Executor runs the sealed task set. It has no way to add tasks.
type Executor struct {
	tasks []Task
	slots []slot
	clock Clock
}

// Len returns the number of tasks.
func (e *Executor) Len() int { return len(e.tasks) }

// Name returns the name of task i.
func (e *Executor) Name(i int) string { return e.tasks[i].Name() }

// Runs returns how many times task i has been resumed.
func (e *Executor) Runs(i int) uint32 { return e.slots[i].runs }

// Run drives the tasks until ctx is done. On the device ctx is never
// cancelled, so Run does not return.
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if next, ok := e.poll(); !ok {
			e.clock.Sleep(next - e.clock.Now())
		}
	}
}

// RunUntil drives the tasks until the clock reaches limit.
func (e *Executor) RunUntil(limit time.Duration) {
	for e.clock.Now() < limit {
		next, ok := e.poll()
		if ok {
			continue
		}
		if next > limit {
			next = limit
		}
		e.clock.Sleep(next - e.clock.Now())
	}
}

// poll resumes every ready task once, in registration order. It reports
// whether any ran; if none did, next is the earliest wake time.
func (e *Executor) poll() (next time.Duration, ran bool) {
	next = time.Duration(1<<63 - 1)
	for i, t := range e.tasks {
		s := &e.slots[i]
		now := e.clock.Now()
		if int64(now) < s.wake {
			if w := time.Duration(s.wake); w < next {
				next = w
			}
			continue
		}
		wait := t.Step(now)
		s.runs++
		if wait < 0 {
			wait = 0
		}
		s.wake = wakeAt(e.clock.Now(), wait)
		ran = true
	}
	return next, ran
}

// wakeAt is now+wait, saturated so a huge wait parks the task instead of
// wrapping into the past.
func wakeAt(now, wait time.Duration) int64 {
	if wait > math.MaxInt64-now {
		return math.MaxInt64
	}
	return int64(now + wait)
}
