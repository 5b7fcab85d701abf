// Package provision reads the persisted configuration once at boot and then
// carries on as the heartbeat.
package provision

import (
	"time"

	"ledfw-go/bus"
	"ledfw-go/errcode"
	"ledfw-go/sched"
	"ledfw-go/storage"
	"ledfw-go/types"
)

const taskName = "provision"

// Load reads and decodes the record at RecordOffset. It always returns a
// usable config: on any failure that is types.DefaultConfig, and err says why.
func Load(r storage.Reader) (types.Config, error) {
	var buf [RecordSize]byte
	if err := r.Read(RecordOffset, buf[:]); err != nil {
		return types.DefaultConfig(), errcode.Wrap(errcode.StorageRead, "provision.read", err)
	}
	cfg, err := Decode(buf[:])
	if err != nil {
		return types.DefaultConfig(), err
	}
	return cfg, nil
}

// Task performs the one-shot read on its first step, publishes the result
// retained under config/, then hands every later step to next.
type Task struct {
	flash storage.Reader
	conn  *bus.Connection
	next  sched.Task

	done bool
	cfg  types.Config
	err  error
}

// New returns the provisioning task. next is typically the heartbeat.
func New(flash storage.Reader, conn *bus.Connection, next sched.Task) *Task {
	return &Task{flash: flash, conn: conn, next: next}
}

func (t *Task) Name() string { return taskName }

// Loaded reports the outcome of the read; done is false until it happened.
func (t *Task) Loaded() (cfg types.Config, done bool, err error) { return t.cfg, t.done, t.err }

func (t *Task) Step(now time.Duration) time.Duration {
	if t.done {
		return t.next.Step(now)
	}
	t.done = true
	t.cfg, t.err = Load(t.flash)
	if t.err != nil {
		println("[prov] using defaults:", t.err.Error())
	} else {
		println("[prov] config loaded from flash")
	}
	if t.conn != nil {
		t.conn.PublishRetained(types.TopicConfigAnimator, t.cfg.Animator)
		t.conn.PublishRetained(types.TopicConfigHeartbeat, t.cfg.Heartbeat)
	}
	return t.next.Step(now)
}
