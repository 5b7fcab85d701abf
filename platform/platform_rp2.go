//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"ledfw-go/errcode"
	"ledfw-go/pulse"
	"ledfw-go/sched"
	"ledfw-go/services/netup"
	"ledfw-go/ws281x"
)

const consoleBaud = 115200

// Setup configures the console UART, the LED pin and the flash reader.
// Clocks are assumed stable and the watchdog idle.
func Setup() (*Board, error) {
	console := uartx.UART0
	_ = console.Configure(uartx.UARTConfig{
		BaudRate: consoleBaud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})

	cfg := defaultChannelConfig(machine.CPUFrequency())
	table, err := pulse.WS2812BTable(cfg.TickHz())
	if err != nil {
		return nil, err
	}

	pin := machine.Pin(cfg.Pin)
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Set(cfg.IdleLevel)

	return &Board{
		Name:       "rp2",
		Channel:    &ws2812Channel{dev: ws2812.New(pin), table: table},
		ChannelCfg: cfg,
		Flash:      flashReader{},
		Net:        netup.Null{},
		Console:    console,
		Clock:      sched.NewSystemClock(),
	}, nil
}

// ws2812Channel plays pulse sequences through the TinyGo ws2812 driver,
// which bit-bangs the pin with its own cycle-counted timing. RP2 parts have
// no RMT block, so the symbols are decoded back to wire bytes first.
type ws2812Channel struct {
	dev   ws2812.Device
	table pulse.Table
	buf   [3 * ws281x.MaxChain]byte
}

func (c *ws2812Channel) Transmit(mode pulse.Mode, seq []pulse.Symbol) error {
	if mode != pulse.OneShot {
		return errcode.Unsupported
	}
	wire, err := ws281x.DecodeWire(c.buf[:0], seq, c.table)
	if err != nil {
		return err
	}
	if len(wire) > cap(c.buf) {
		return errcode.Overrun
	}
	if _, err := c.dev.Write(wire); err != nil {
		return errcode.Wrap(errcode.Error, "ws2812.write", err)
	}
	return nil
}

// flashReader reads the data region of the on-chip flash.
type flashReader struct{}

func (flashReader) Read(offset uint32, buf []byte) error {
	if _, err := machine.Flash.ReadAt(buf, int64(offset)); err != nil {
		return errcode.Wrap(errcode.StorageRead, "flash.read", err)
	}
	return nil
}
