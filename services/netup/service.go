// Package netup brings the network controller up once at boot. The network
// stack itself lives outside the firmware; this task only drives bring-up
// and reports the link on status/net.
package netup

import (
	"time"

	"ledfw-go/bus"
	"ledfw-go/errcode"
	"ledfw-go/types"
)

const taskName = "netup"

// Controller is the board's network controller.
type Controller interface {
	// Up initialises the controller in mode ("sta", "ap").
	Up(mode string) error
}

// Policy bounds bring-up attempts.
type Policy struct {
	Mode        string
	MaxAttempts uint32
	Backoff     time.Duration // first retry delay, doubled per attempt
	Idle        time.Duration // wait once up, or once attempts are exhausted
}

var DefaultPolicy = Policy{
	Mode:        "sta",
	MaxAttempts: 5,
	Backoff:     500 * time.Millisecond,
	Idle:        60 * time.Second,
}

type Task struct {
	ctl    Controller
	conn   *bus.Connection
	policy Policy

	attempts uint32
	link     types.Link
}

func New(ctl Controller, conn *bus.Connection, p Policy) *Task {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = 1
	}
	return &Task{ctl: ctl, conn: conn, policy: p, link: types.LinkDown}
}

func (t *Task) Name() string { return taskName }

// Link is the last reported link state.
func (t *Task) Link() types.Link { return t.link }

// Attempts counts calls to Controller.Up.
func (t *Task) Attempts() uint32 { return t.attempts }

func (t *Task) Step(time.Duration) time.Duration {
	if t.link == types.LinkUp || t.attempts >= t.policy.MaxAttempts {
		return t.policy.Idle
	}

	t.attempts++
	err := t.ctl.Up(t.policy.Mode)
	if err == nil {
		t.link = types.LinkUp
		println("[net] up, mode", t.policy.Mode)
		t.publish("")
		return t.policy.Idle
	}

	code := errcode.Of(err)
	if t.attempts >= t.policy.MaxAttempts {
		println("[net] giving up:", err.Error())
		t.link = types.LinkDown
		t.publish(string(code))
		return t.policy.Idle
	}
	t.link = types.LinkDegraded
	t.publish(string(code))
	return t.policy.Backoff << (t.attempts - 1)
}

func (t *Task) publish(errStr string) {
	if t.conn == nil {
		return
	}
	t.conn.PublishRetained(types.TopicStatusNet, types.NetStatus{
		Link:     t.link,
		Mode:     t.policy.Mode,
		Attempts: t.attempts,
		Error:    errStr,
	})
}

// Null is a Controller for boards without a radio; Up always fails.
type Null struct{}

func (Null) Up(string) error { return errcode.Wrap(errcode.NetDown, "netup.up", errcode.Unsupported) }
