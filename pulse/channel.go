package pulse

// Mode selects how a channel plays a sequence.
type Mode uint8

const (
	OneShot Mode = iota
	Loop
)

func (m Mode) String() string {
	switch m {
	case OneShot:
		return "one_shot"
	case Loop:
		return "loop"
	default:
		return "unknown"
	}
}

// Channel is a pulse-output channel that has already been configured (idle
// level, carrier off, clock divider, pin). Transmit plays seq, which ends at
// the first End symbol, and returns once the hardware has accepted it.
// Errors carry an errcode.Code (busy, overrun, ...).
type Channel interface {
	Transmit(mode Mode, seq []Symbol) error
}

// ChannelConfig is the one-time setup a channel gets before it is handed to
// its owner.
type ChannelConfig struct {
	Pin       int
	IdleLevel bool
	Carrier   bool
	// Divider scales the source clock; the tick rate is SourceHz/Divider.
	Divider  uint8
	SourceHz uint32
}

// TickHz is the channel tick rate.
func (c ChannelConfig) TickHz() uint32 {
	if c.Divider == 0 {
		return c.SourceHz
	}
	return c.SourceHz / uint32(c.Divider)
}
