package animator

import (
	"testing"
	"time"

	"ledfw-go/arena"
	"ledfw-go/bus"
	"ledfw-go/errcode"
	"ledfw-go/pulse"
	"ledfw-go/sched"
	"ledfw-go/types"
	"ledfw-go/ws281x"
)

var table80 = pulse.MustTable(80_000_000, pulse.WS2812BZero, pulse.WS2812BOne)

// scriptChannel fails the calls listed in fail (1-based); failAll fails all.
type scriptChannel struct {
	calls   int
	fail    map[int]bool
	failAll bool
}

func (c *scriptChannel) Transmit(pulse.Mode, []pulse.Symbol) error {
	c.calls++
	if c.failAll || c.fail[c.calls] {
		return errcode.Busy
	}
	return nil
}

func newTask(ch pulse.Channel, conn *bus.Connection) *Task {
	return New(ws281x.NewDriver(ch, table80), conn, types.DefaultConfig().Animator, DefaultRetry)
}

func TestHSV_Primaries(t *testing.T) {
	cases := []struct {
		h    uint8
		want ws281x.RGB
	}{
		{0, ws281x.RGB{R: 255}},
		{85, ws281x.RGB{G: 255}},
		{170, ws281x.RGB{B: 255}},
		{255, ws281x.RGB{R: 255}},
	}
	for _, c := range cases {
		if got := HSV(c.h, 255, 255); got != c.want {
			t.Fatalf("HSV(%d) = %+v, want %+v", c.h, got, c.want)
		}
	}
	if got := HSV(100, 0, 200); got != (ws281x.RGB{R: 200, G: 200, B: 200}) {
		t.Fatalf("zero saturation = %+v, want grey", got)
	}
	if got := HSV(42, 255, 0); got != (ws281x.RGB{}) {
		t.Fatalf("zero value = %+v, want black", got)
	}
}

func TestCorrect_GammaAndBrightness(t *testing.T) {
	if gammaTable[0] != 0 || gammaTable[255] != 255 {
		t.Fatalf("gamma endpoints = %d, %d", gammaTable[0], gammaTable[255])
	}
	for i := 1; i < 256; i++ {
		if gammaTable[i] < gammaTable[i-1] {
			t.Fatalf("gamma not monotonic at %d", i)
		}
	}
	if gammaTable[128] > 40 {
		t.Fatalf("gamma(128) = %d; curve too shallow", gammaTable[128])
	}
	if got := Correct(ws281x.RGB{R: 255}, 10); got != (ws281x.RGB{R: 10}) {
		t.Fatalf("Correct(red, 10) = %+v", got)
	}
}

func TestAnimator_FullCycle(t *testing.T) {
	ch := &scriptChannel{}
	a := newTask(ch, nil)

	var now time.Duration
	steps := 0
	for {
		now += a.Step(now)
		steps++
		if a.Hue() == 0 || steps > 1000 {
			break
		}
	}
	if steps != 256 {
		t.Fatalf("steps = %d, want 256", steps)
	}
	if now != 5120*time.Millisecond {
		t.Fatalf("elapsed = %v, want 5.12s", now)
	}
	if a.Frames() != 256 || ch.calls != 256 {
		t.Fatalf("frames = %d, calls = %d", a.Frames(), ch.calls)
	}
}

func TestAnimator_FullCycleUnderExecutor(t *testing.T) {
	heap := &arena.Arena{}
	heap.Init(256)
	clk := &sched.SimClock{}
	a := newTask(&scriptChannel{}, nil)

	b := sched.NewBuilder(heap, clk)
	if err := b.Add(a); err != nil {
		t.Fatal(err)
	}
	ex, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ex.RunUntil(5120 * time.Millisecond)

	if a.Frames() != 256 || a.Hue() != 0 {
		t.Fatalf("frames = %d hue = %d, want 256 and 0", a.Frames(), a.Hue())
	}
}

func TestAnimator_RetriesThenSucceeds(t *testing.T) {
	ch := &scriptChannel{fail: map[int]bool{1: true, 2: true}}
	a := newTask(ch, nil)

	if w := a.Step(0); w != time.Millisecond {
		t.Fatalf("first backoff = %v", w)
	}
	if w := a.Step(time.Millisecond); w != 2*time.Millisecond {
		t.Fatalf("second backoff = %v", w)
	}
	if a.Hue() != 0 {
		t.Fatal("hue advanced during retry")
	}
	if w := a.Step(3 * time.Millisecond); w != types.DefaultInterval {
		t.Fatalf("wait after success = %v", w)
	}
	if a.Hue() != 1 || a.Frames() != 1 || a.Skipped() != 0 {
		t.Fatalf("hue=%d frames=%d skipped=%d", a.Hue(), a.Frames(), a.Skipped())
	}
}

func TestAnimator_SkipsAfterRetries(t *testing.T) {
	ch := &scriptChannel{failAll: true}
	b := bus.NewBus(4)
	conn := b.NewConnection()
	a := newTask(ch, conn)

	waits := []time.Duration{}
	var now time.Duration
	for i := 0; i < 4; i++ {
		w := a.Step(now)
		waits = append(waits, w)
		now += w
	}
	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, types.DefaultInterval}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("waits = %v, want %v", waits, want)
		}
	}
	if ch.calls != 4 {
		t.Fatalf("calls = %d, want 4", ch.calls)
	}
	if a.Skipped() != 1 || a.Hue() != 1 || a.Frames() != 0 {
		t.Fatalf("skipped=%d hue=%d frames=%d", a.Skipped(), a.Hue(), a.Frames())
	}
	m, ok := conn.Retained(types.TopicStatusAnimator)
	if !ok {
		t.Fatal("no status after skip")
	}
	st := m.Payload.(types.AnimatorStatus)
	if st.Skipped != 1 || st.Retries != 3 || st.LastErr != "busy" {
		t.Fatalf("status = %+v", st)
	}
}

func TestRetry_BackoffCappedAtInterval(t *testing.T) {
	r := Retry{Max: 5, Base: 15 * time.Millisecond}
	if got := r.backoff(1, 20*time.Millisecond); got != 15*time.Millisecond {
		t.Fatalf("attempt 1 = %v", got)
	}
	if got := r.backoff(2, 20*time.Millisecond); got != 20*time.Millisecond {
		t.Fatalf("attempt 2 = %v, want cap", got)
	}
}

func TestAnimator_TakesConfigFromBus(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection()
	conn.PublishRetained(types.TopicConfigAnimator, types.AnimatorConfig{
		Brightness: 200,
		Saturation: 0,
		Value:      255,
		Interval:   50 * time.Millisecond,
	})
	a := newTask(&scriptChannel{}, conn)

	if w := a.Step(0); w != 50*time.Millisecond {
		t.Fatalf("wait = %v, want 50ms", w)
	}
	cfg := a.Config()
	if cfg.Brightness != types.MaxBrightness {
		t.Fatalf("brightness = %d, want capped at %d", cfg.Brightness, types.MaxBrightness)
	}
	if got := a.Color(); got != (ws281x.RGB{R: 64, G: 64, B: 64}) {
		t.Fatalf("colour = %+v", got)
	}
}

func TestAnimator_PublishesStatus(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection()
	a := newTask(&scriptChannel{}, conn)

	var now time.Duration
	for i := 0; i < statusEvery; i++ {
		now += a.Step(now)
	}
	m, ok := conn.Retained(types.TopicStatusAnimator)
	if !ok {
		t.Fatal("no status published")
	}
	st := m.Payload.(types.AnimatorStatus)
	if st.Frames != statusEvery || st.Hue != statusEvery {
		t.Fatalf("status = %+v", st)
	}
	cfg := a.Config()
	if want := Correct(HSV(statusEvery-1, cfg.Saturation, cfg.Value), cfg.Brightness).Uint(); st.Color != want {
		t.Fatalf("status colour = %06x, want %06x", st.Color, want)
	}
}

func TestAnimator_FrameOnWire(t *testing.T) {
	ch := &recordChannel{}
	a := newTask(ch, nil)
	a.Step(0)

	want := ws281x.Encode(ws281x.RGB{R: types.DefaultBrightness}, table80)
	if len(ch.last) != 25 {
		t.Fatalf("frame len = %d", len(ch.last))
	}
	for i := range want {
		if ch.last[i] != want[i] {
			t.Fatalf("symbol %d = %+v, want %+v", i, ch.last[i], want[i])
		}
	}
}

type recordChannel struct{ last []pulse.Symbol }

func (c *recordChannel) Transmit(_ pulse.Mode, seq []pulse.Symbol) error {
	c.last = append(c.last[:0], seq...)
	return nil
}

func TestAnimator_ConfigIsClamped(t *testing.T) {
	a := New(ws281x.NewDriver(&scriptChannel{}, table80), nil,
		types.AnimatorConfig{Brightness: 200, Interval: 0}, DefaultRetry)
	if c := a.Config(); c.Brightness != types.MaxBrightness || c.Interval != time.Millisecond {
		t.Fatalf("low clamp: %+v", c)
	}
	a.setConfig(types.AnimatorConfig{Interval: time.Hour})
	if c := a.Config(); c.Interval != maxInterval {
		t.Fatalf("high clamp: %+v", c)
	}
}
