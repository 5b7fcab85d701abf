package main

import (
	"context"
	"time"

	"ledfw-go/app"
	"ledfw-go/arena"
	"ledfw-go/platform"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	arena.Heap.Init(arena.HeapSize)

	board, err := platform.Setup()
	if err != nil {
		halt("platform", err)
	}
	sys, err := app.Build(board, arena.Heap)
	if err != nil {
		halt("build", err)
	}

	println("[main]", board.Name, "tasks", sys.Exec.Len(), "heap", arena.Heap.Used())
	sys.Exec.Run(context.Background())
}

func halt(stage string, err error) {
	println("[main]", stage, "failed:", err.Error())
	for {
		time.Sleep(time.Hour)
	}
}
