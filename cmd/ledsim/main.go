//go:build !rp2040 && !rp2350

// ledsim runs the firmware task set on the host against a simulated LED
// channel. By default time is virtual and the run ends after --for; with
// --realtime it runs on the wall clock until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"ledfw-go/app"
	"ledfw-go/arena"
	"ledfw-go/platform"
	"ledfw-go/sched"
	"ledfw-go/services/provision"
	"ledfw-go/storage"
	"ledfw-go/types"
)

var (
	runFor     = 3 * time.Second
	realtime   = false
	brightness = uint(types.DefaultBrightness)
	interval   = types.DefaultInterval
	failEvery  = uint(0)
	printN     = 8
	verbose    = false
)

func init() {
	pflag.DurationVar(&runFor, "for", runFor, "simulated run time")
	pflag.BoolVar(&realtime, "realtime", realtime, "run on the wall clock until interrupted")
	pflag.UintVar(&brightness, "brightness", brightness, "provisioned brightness")
	pflag.DurationVar(&interval, "interval", interval, "provisioned tick interval")
	pflag.UintVar(&failEvery, "fail-every", failEvery, "fail every Nth transmission with busy")
	pflag.IntVarP(&printN, "frames", "n", printN, "frames to print")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
}

func main() {
	log.SetFlags(0)
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Flash stays erased unless a provisioned setting was given.
	provisioned := pflag.CommandLine.Changed("brightness") || pflag.CommandLine.Changed("interval")
	flash := flashImage(provisioned, brightness, interval)
	if provisioned {
		logger.Debug("provisioned flash record", "brightness", brightness, "interval", interval)
	}

	heap := &arena.Arena{}
	heap.Init(arena.HeapSize)

	opts := platform.HostOptions{Flash: flash, FailEvery: uint32(failEvery)}
	if !realtime {
		opts.Clock = &sched.SimClock{}
	}
	board, err := platform.SetupHost(opts)
	if err != nil {
		return fmt.Errorf("failed to set up host board: %v", err)
	}
	sys, err := app.Build(board, heap)
	if err != nil {
		return fmt.Errorf("failed to build task set: %v", err)
	}
	logger.Info("running", "tasks", sys.Exec.Len(), "realtime", realtime, "heap_used", heap.Used())

	if realtime {
		sys.Exec.Run(ctx)
	} else {
		sys.Exec.RunUntil(runFor)
	}

	ch := board.Channel.(*platform.SimChannel)
	for i, c := range ch.History {
		if i >= printN {
			break
		}
		fmt.Printf("frame %3d  #%06x\n", i, c.Uint())
	}

	st := sys.Driver.Stats()
	logger.Info("done",
		"hue", sys.Animator.Hue(),
		"frames", sys.Animator.Frames(),
		"skipped", sys.Animator.Skipped(),
		"sent", st.Sent,
		"failed", st.Failed,
		"heap", fmt.Sprintf("%d/%d", heap.Used(), heap.Cap()))
	for i := 0; i < sys.Exec.Len(); i++ {
		logger.Debug("task", "name", sys.Exec.Name(i), "runs", sys.Exec.Runs(i))
	}
	return nil
}

// flashImage returns simulated flash, holding a record built from brightness
// and interval when provisioned is set and erased otherwise.
func flashImage(provisioned bool, brightness uint, interval time.Duration) *storage.Mem {
	flash := storage.NewErased(platform.FlashSize)
	if !provisioned {
		return flash
	}
	cfg := types.DefaultConfig()
	cfg.Animator.Brightness = uint8(min(brightness, types.MaxBrightness))
	cfg.Animator.Interval = interval
	rec := provision.Encode(cfg)
	flash.Write(provision.RecordOffset, rec[:])
	return flash
}
