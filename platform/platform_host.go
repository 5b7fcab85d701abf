//go:build !rp2040 && !rp2350

package platform

import (
	"os"

	"ledfw-go/errcode"
	"ledfw-go/pulse"
	"ledfw-go/sched"
	"ledfw-go/services/netup"
	"ledfw-go/storage"
	"ledfw-go/ws281x"
)

const hostSourceHz = 80_000_000

// FlashSize is the size of the simulated flash.
const FlashSize = 64 * 1024

// HostOptions tweak the simulated board.
type HostOptions struct {
	Flash *storage.Mem
	Clock sched.Clock
	// FailEvery makes every Nth transmission fail with busy; 0 disables.
	FailEvery uint32
}

// Setup brings up the host board with real time and erased flash.
func Setup() (*Board, error) {
	return SetupHost(HostOptions{})
}

// SetupHost brings up a simulated board.
func SetupHost(o HostOptions) (*Board, error) {
	cfg := defaultChannelConfig(hostSourceHz)
	table, err := pulse.WS2812BTable(cfg.TickHz())
	if err != nil {
		return nil, err
	}
	ch := &SimChannel{table: table, FailEvery: o.FailEvery}
	ch.Configure(cfg)

	if o.Flash == nil {
		o.Flash = storage.NewErased(FlashSize)
	}
	if o.Clock == nil {
		o.Clock = sched.NewSystemClock()
	}
	return &Board{
		Name:       "host",
		Channel:    ch,
		ChannelCfg: cfg,
		Flash:      o.Flash,
		Net:        netup.Null{},
		Console:    os.Stdout,
		Clock:      o.Clock,
	}, nil
}

// HistoryCap bounds SimChannel.History.
const HistoryCap = 64

// SimChannel stands in for the pulse peripheral. It checks each frame,
// decodes it back to colours and keeps the first HistoryCap of them.
type SimChannel struct {
	table     pulse.Table
	cfg       pulse.ChannelConfig
	FailEvery uint32

	Count   uint32
	Last    ws281x.RGB
	History []ws281x.RGB

	buf [3 * ws281x.MaxChain]byte
}

// Configure applies the one-time channel setup.
func (c *SimChannel) Configure(cfg pulse.ChannelConfig) { c.cfg = cfg }

// Config returns the applied setup.
func (c *SimChannel) Config() pulse.ChannelConfig { return c.cfg }

func (c *SimChannel) Transmit(mode pulse.Mode, seq []pulse.Symbol) error {
	if c.cfg.SourceHz == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "sim.transmit", Msg: "channel not configured"}
	}
	if mode != pulse.OneShot {
		return errcode.Unsupported
	}
	c.Count++
	if c.FailEvery != 0 && c.Count%c.FailEvery == 0 {
		return errcode.Busy
	}
	wire, err := ws281x.DecodeWire(c.buf[:0], seq, c.table)
	if err != nil {
		return err
	}
	if len(wire) > cap(c.buf) {
		return errcode.Overrun
	}
	for i := 0; i+2 < len(wire); i += 3 {
		c.Last = ws281x.RGB{G: wire[i], R: wire[i+1], B: wire[i+2]}
		if len(c.History) < HistoryCap {
			c.History = append(c.History, c.Last)
		}
	}
	return nil
}
