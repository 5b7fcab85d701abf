//go:build !rp2040 && !rp2350

package main

import (
	"testing"
	"time"

	"ledfw-go/errcode"
	"ledfw-go/services/provision"
	"ledfw-go/types"
)

func TestFlashImage_IntervalAloneIsProvisioned(t *testing.T) {
	cfg, err := provision.Load(flashImage(true, types.DefaultBrightness, 50*time.Millisecond))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Animator.Interval != 50*time.Millisecond || cfg.Animator.Brightness != types.DefaultBrightness {
		t.Fatalf("cfg = %+v", cfg.Animator)
	}
}

func TestFlashImage_ClampsBrightness(t *testing.T) {
	cfg, err := provision.Load(flashImage(true, 1000, types.DefaultInterval))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Animator.Brightness != types.MaxBrightness {
		t.Fatalf("brightness = %d, want %d", cfg.Animator.Brightness, types.MaxBrightness)
	}
}

func TestFlashImage_UnprovisionedIsErased(t *testing.T) {
	_, err := provision.Load(flashImage(false, 20, time.Second))
	if errcode.Of(err) != errcode.StorageErased {
		t.Fatalf("err = %v, want storage_erased", err)
	}
}
