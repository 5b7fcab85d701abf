// Package pulse models NRZ pulse symbols for one-wire LED protocols and the
// pulse-output channel that emits them.
package pulse

// MaxLength is the largest tick count a single symbol half can hold.
// RMT-style peripherals store each half in 15 bits.
const MaxLength = 1<<15 - 1

// Symbol is one NRZ timing unit: hold Level1 for Length1 ticks, then Level2
// for Length2 ticks. Lengths are in ticks of the channel clock.
type Symbol struct {
	Level1  bool
	Length1 uint16
	Level2  bool
	Length2 uint16
}

// End terminates a transmission. A zero-length half tells the channel to stop
// and return to its idle level, which the LEDs see as the reset gap.
var End = Symbol{Level1: true}

// IsEnd reports whether s marks end-of-transmission.
func (s Symbol) IsEnd() bool { return s.Length1 == 0 || s.Length2 == 0 }

// Period returns the total symbol length in ticks.
func (s Symbol) Period() uint32 { return uint32(s.Length1) + uint32(s.Length2) }
