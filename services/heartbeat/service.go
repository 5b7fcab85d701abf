// Package heartbeat emits a periodic status line.
package heartbeat

import (
	"io"
	"time"

	"ledfw-go/arena"
	"ledfw-go/bus"
	"ledfw-go/types"
	"ledfw-go/x/conv"
)

const taskName = "heartbeat"

// Task suspends for its interval, then writes one line to the sink.
type Task struct {
	conn   *bus.Connection
	cfgSub *bus.Subscription
	sink   io.Writer
	heap   *arena.Arena

	interval time.Duration
	started  bool
	beats    uint32

	line [160]byte
}

// New returns a heartbeat writing to sink. conn and heap may be nil.
func New(conn *bus.Connection, sink io.Writer, heap *arena.Arena, interval time.Duration) *Task {
	if interval <= 0 {
		interval = types.DefaultHeartbeat
	}
	t := &Task{conn: conn, sink: sink, heap: heap, interval: interval}
	if conn != nil {
		t.cfgSub = conn.Subscribe(types.TopicConfigHeartbeat)
	}
	return t
}

func (t *Task) Name() string { return taskName }

// Beats counts emitted lines.
func (t *Task) Beats() uint32 { return t.beats }

// Interval is the current period.
func (t *Task) Interval() time.Duration { return t.interval }

func (t *Task) Step(now time.Duration) time.Duration {
	t.pollConfig()
	if !t.started {
		t.started = true
		return t.interval
	}
	t.beats++
	if t.sink != nil {
		_, _ = t.sink.Write(t.format(now))
	}
	return t.interval
}

func (t *Task) pollConfig() {
	if t.cfgSub == nil {
		return
	}
	m, ok := t.cfgSub.Poll()
	if !ok {
		return
	}
	if c, ok := m.Payload.(types.HeartbeatConfig); ok && c.Interval > 0 {
		t.interval = c.Interval
	}
}

// format renders e.g.
// "[hb] up=5000ms beats=5 heap=16/32768 hue=250 frames=250 skipped=0 rgb=#1A0000 net=down\n".
func (t *Task) format(now time.Duration) []byte {
	var num [20]byte
	b := t.line[:0]
	b = append(b, "[hb] up="...)
	b = append(b, conv.Itoa(num[:], now.Milliseconds())...)
	b = append(b, "ms beats="...)
	b = append(b, conv.Utoa(num[:], uint64(t.beats))...)
	if t.heap != nil {
		b = append(b, " heap="...)
		b = append(b, conv.Utoa(num[:], uint64(t.heap.Used()))...)
		b = append(b, '/')
		b = append(b, conv.Utoa(num[:], uint64(t.heap.Cap()))...)
	}
	if t.conn != nil {
		if m, ok := t.conn.Retained(types.TopicStatusAnimator); ok {
			if st, ok := m.Payload.(types.AnimatorStatus); ok {
				b = append(b, " hue="...)
				b = append(b, conv.Utoa(num[:], uint64(st.Hue))...)
				b = append(b, " frames="...)
				b = append(b, conv.Utoa(num[:], uint64(st.Frames))...)
				b = append(b, " skipped="...)
				b = append(b, conv.Utoa(num[:], uint64(st.Skipped))...)
				b = append(b, " rgb=#"...)
				b = append(b, conv.Hex(num[:], st.Color, 6)...)
			}
		}
		if m, ok := t.conn.Retained(types.TopicStatusNet); ok {
			if st, ok := m.Payload.(types.NetStatus); ok {
				b = append(b, " net="...)
				b = append(b, string(st.Link)...)
			}
		}
	}
	return append(b, '\n')
}
