// Package platform brings the board up and hands out its peripherals. The
// implementation is picked by build tags: RP2040/RP2350 boards, or the host
// simulation used for tests and development.
package platform

import (
	"io"

	"ledfw-go/pulse"
	"ledfw-go/sched"
	"ledfw-go/services/netup"
	"ledfw-go/storage"
)

// Board is everything main needs after bring-up. Each field is handed to
// exactly one task.
type Board struct {
	Name    string
	Channel pulse.Channel
	// ChannelCfg is how Channel was configured; its TickHz drives the
	// timing table.
	ChannelCfg pulse.ChannelConfig
	Flash      storage.Reader
	Net        netup.Controller
	Console    io.Writer
	Clock      sched.Clock
}

// LEDPin is the data pin of the LED chain.
const LEDPin = 8

// defaultChannelConfig: idle low, no carrier, undivided 80 MHz source.
func defaultChannelConfig(sourceHz uint32) pulse.ChannelConfig {
	return pulse.ChannelConfig{
		Pin:       LEDPin,
		IdleLevel: false,
		Carrier:   false,
		Divider:   1,
		SourceHz:  sourceHz,
	}
}
