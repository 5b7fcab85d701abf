package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ledfw-go/arena"
	"ledfw-go/platform"
	"ledfw-go/sched"
	"ledfw-go/services/animator"
	"ledfw-go/services/provision"
	"ledfw-go/storage"
	"ledfw-go/types"
)

func simBoard(t *testing.T, flash *storage.Mem) (*platform.Board, *bytes.Buffer, *sched.SimClock) {
	t.Helper()
	clk := &sched.SimClock{}
	b, err := platform.SetupHost(platform.HostOptions{Flash: flash, Clock: clk})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	var out bytes.Buffer
	b.Console = &out
	return b, &out, clk
}

func newHeap() *arena.Arena {
	h := &arena.Arena{}
	h.Init(1024)
	return h
}

func TestBuild_ErasedFlashRunsDefaults(t *testing.T) {
	b, out, _ := simBoard(t, nil)
	heap := newHeap()
	s, err := Build(b, heap)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Exec.Len() != 3 {
		t.Fatalf("tasks = %d, want 3", s.Exec.Len())
	}
	if heap.Used() == 0 {
		t.Fatal("executor slots not taken from the arena")
	}

	s.Exec.RunUntil(2 * time.Second)

	if f := s.Animator.Frames(); f < 99 || f > 101 {
		t.Fatalf("frames after 2s = %d, want ~100", f)
	}
	cfg, done, err := s.Provision.Loaded()
	if !done || err == nil {
		t.Fatalf("provision done=%v err=%v, want done with erased error", done, err)
	}
	if cfg != types.DefaultConfig() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if s.Heartbeat.Beats() == 0 || !strings.Contains(out.String(), "[hb] up=") {
		t.Fatalf("no heartbeat on console: %q", out.String())
	}
	ch := b.Channel.(*platform.SimChannel)
	if ch.Count != s.Driver.Stats().Sent {
		t.Fatalf("channel count %d != driver sent %d", ch.Count, s.Driver.Stats().Sent)
	}
}

func TestBuild_FlashRecordReachesAnimator(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.Animator.Brightness = 32
	cfg.Animator.Interval = 40 * time.Millisecond
	rec := provision.Encode(cfg)
	flash := storage.NewErased(platform.FlashSize)
	flash.Write(provision.RecordOffset, rec[:])

	b, _, _ := simBoard(t, flash)
	s, err := Build(b, newHeap())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s.Exec.RunUntil(time.Second)

	got := s.Animator.Config()
	if got.Brightness != 32 || got.Interval != 40*time.Millisecond {
		t.Fatalf("animator cfg = %+v", got)
	}
}

func TestBuild_FirstFrameIsHueZero(t *testing.T) {
	b, _, _ := simBoard(t, nil)
	s, err := Build(b, newHeap())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s.Exec.RunUntil(time.Millisecond)

	ch := b.Channel.(*platform.SimChannel)
	if len(ch.History) == 0 {
		t.Fatal("nothing transmitted")
	}
	def := types.DefaultConfig().Animator
	want := animator.Correct(animator.HSV(0, def.Saturation, def.Value), def.Brightness)
	if ch.History[0] != want {
		t.Fatalf("first frame = %+v, want %+v", ch.History[0], want)
	}
}
