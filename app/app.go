// Package app wires the board, the bus and the task set into an executor.
// The firmware and the host simulator share it.
package app

import (
	"ledfw-go/arena"
	"ledfw-go/bus"
	"ledfw-go/platform"
	"ledfw-go/pulse"
	"ledfw-go/sched"
	"ledfw-go/services/animator"
	"ledfw-go/services/heartbeat"
	"ledfw-go/services/netup"
	"ledfw-go/services/provision"
	"ledfw-go/types"
	"ledfw-go/ws281x"
)

const busQueueLen = 4

// System is the running task set. Fields are exposed for the simulator and
// tests; nothing mutates them after Build.
type System struct {
	Bus       *bus.Bus
	Driver    *ws281x.Driver
	Animator  *animator.Task
	Heartbeat *heartbeat.Task
	Provision *provision.Task
	Net       *netup.Task
	Exec      *sched.Executor
}

// Build registers animator, provision (which becomes the heartbeat) and
// network bring-up, in that order, and seals the executor. heap must be
// initialised.
func Build(b *platform.Board, heap *arena.Arena) (*System, error) {
	table, err := pulse.WS2812BTable(b.ChannelCfg.TickHz())
	if err != nil {
		return nil, err
	}
	defaults := types.DefaultConfig()

	s := &System{Bus: bus.NewBus(busQueueLen)}
	s.Driver = ws281x.NewDriver(b.Channel, table)
	s.Animator = animator.New(s.Driver, s.Bus.NewConnection(), defaults.Animator, animator.DefaultRetry)
	s.Heartbeat = heartbeat.New(s.Bus.NewConnection(), b.Console, heap, defaults.Heartbeat.Interval)
	s.Provision = provision.New(b.Flash, s.Bus.NewConnection(), s.Heartbeat)
	s.Net = netup.New(b.Net, s.Bus.NewConnection(), netup.DefaultPolicy)

	sb := sched.NewBuilder(heap, b.Clock)
	for _, t := range []sched.Task{s.Animator, s.Provision, s.Net} {
		if err := sb.Add(t); err != nil {
			return nil, err
		}
	}
	if s.Exec, err = sb.Build(); err != nil {
		return nil, err
	}
	return s, nil
}
