// Package animator cycles one LED through the hue wheel.
package animator

import (
	"time"

	"ledfw-go/bus"
	"ledfw-go/errcode"
	"ledfw-go/types"
	"ledfw-go/ws281x"
	"ledfw-go/x/conv"
	"ledfw-go/x/mathx"
)

const (
	taskName = "animator"

	// statusEvery is how many frames pass between status publications.
	statusEvery = 16

	minInterval = time.Millisecond
	maxInterval = 10 * time.Second
)

// Retry bounds the resend attempts after a failed transmission. Each attempt
// waits Base<<n, capped at the tick interval.
type Retry struct {
	Max  int
	Base time.Duration
}

// DefaultRetry is three attempts starting at 1 ms.
var DefaultRetry = Retry{Max: 3, Base: time.Millisecond}

func (r Retry) backoff(attempt int, limit time.Duration) time.Duration {
	d := r.Base << (attempt - 1)
	if d <= 0 || d > limit {
		return limit
	}
	return d
}

// Task is the animator. It owns the LED driver; nothing else may use it.
type Task struct {
	drv    *ws281x.Driver
	conn   *bus.Connection
	cfgSub *bus.Subscription

	cfg   types.AnimatorConfig
	retry Retry

	hue     uint8
	attempt int
	last    ws281x.RGB

	frames  uint32
	skipped uint32
	retries uint32
	lastErr errcode.Code
}

// New returns an animator starting at hue 0. conn may be nil, in which case
// the task neither takes config updates nor publishes status.
func New(drv *ws281x.Driver, conn *bus.Connection, cfg types.AnimatorConfig, retry Retry) *Task {
	t := &Task{drv: drv, conn: conn, retry: retry}
	t.setConfig(cfg)
	if conn != nil {
		t.cfgSub = conn.Subscribe(types.TopicConfigAnimator)
	}
	return t
}

func (t *Task) Name() string { return taskName }

// Hue is the hue of the next frame.
func (t *Task) Hue() uint8 { return t.hue }

// Frames counts frames sent successfully.
func (t *Task) Frames() uint32 { return t.frames }

// Skipped counts frames dropped after exhausting retries.
func (t *Task) Skipped() uint32 { return t.skipped }

// Config returns the active configuration.
func (t *Task) Config() types.AnimatorConfig { return t.cfg }

// Color is the corrected colour for the current hue.
func (t *Task) Color() ws281x.RGB {
	return Correct(HSV(t.hue, t.cfg.Saturation, t.cfg.Value), t.cfg.Brightness)
}

// Step sends one frame and suspends for the tick interval. A failed send
// suspends for a short backoff and tries the same hue again; once the
// retries are spent the frame is skipped.
func (t *Task) Step(now time.Duration) time.Duration {
	if t.attempt == 0 {
		t.pollConfig()
	}

	c := t.Color()
	if err := t.drv.SendOne(c); err != nil {
		t.lastErr = errcode.Of(err)
		if t.attempt < t.retry.Max {
			t.attempt++
			t.retries++
			return t.retry.backoff(t.attempt, t.cfg.Interval)
		}
		t.skipped++
		t.logSkip(err)
		t.advance()
		t.publishStatus()
		return t.cfg.Interval
	}

	t.frames++
	t.last = c
	t.advance()
	if t.frames%statusEvery == 0 {
		t.publishStatus()
	}
	return t.cfg.Interval
}

func (t *Task) advance() {
	t.attempt = 0
	t.hue++ // wraps at 256
}

func (t *Task) pollConfig() {
	if t.cfgSub == nil {
		return
	}
	m, ok := t.cfgSub.Poll()
	if !ok {
		return
	}
	if c, ok := m.Payload.(types.AnimatorConfig); ok {
		t.setConfig(c)
	}
}

func (t *Task) setConfig(c types.AnimatorConfig) {
	c.Brightness = mathx.Min(c.Brightness, types.MaxBrightness)
	c.Interval = mathx.Clamp(c.Interval, minInterval, maxInterval)
	t.cfg = c
}

func (t *Task) publishStatus() {
	if t.conn == nil {
		return
	}
	st := types.AnimatorStatus{
		Hue:     t.hue,
		Frames:  t.frames,
		Skipped: t.skipped,
		Retries: t.retries,
		Color:   t.last.Uint(),
	}
	if t.lastErr != "" {
		st.LastErr = string(t.lastErr)
	}
	t.conn.PublishRetained(types.TopicStatusAnimator, st)
}

func (t *Task) logSkip(err error) {
	var buf [4]byte
	println("[anim] frame skipped at hue", string(conv.Utoa(buf[:], uint64(t.hue))), "err:", err.Error())
}
