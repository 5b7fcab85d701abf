package pulse

import (
	"errors"

	"ledfw-go/x/mathx"
)

// PeriodTolerance is the allowed difference between the bit-0 and bit-1
// periods, in nanoseconds.
const PeriodTolerance = 150

const nsPerSecond = 1_000_000_000

var (
	ErrZeroClock      = errors.New("pulse: zero clock rate")
	ErrLengthOverflow = errors.New("pulse: symbol length overflows 15 bits")
	ErrZeroLength     = errors.New("pulse: symbol has a zero-length half")
	ErrNoMargin       = errors.New("pulse: bit-1 high time must exceed bit-0 high time")
	ErrPeriodMismatch = errors.New("pulse: bit periods differ beyond tolerance")
)

// Timing is an absolute high/low reference for one protocol bit.
type Timing struct {
	HighNs uint32
	LowNs  uint32
}

// WS2812B reference timings. Both bits share a 1250 ns period.
var (
	WS2812BZero = Timing{HighNs: 350, LowNs: 900}
	WS2812BOne  = Timing{HighNs: 600, LowNs: 650}
)

// Ticks converts ns to channel ticks: round(ns * clockHz / 1e9).
// The result never decreases as clockHz grows.
func Ticks(ns, clockHz uint32) uint32 {
	return uint32(mathx.RoundDiv(uint64(ns)*uint64(clockHz), nsPerSecond))
}

// Nanos converts ticks back to nanoseconds at clockHz, rounded.
func Nanos(ticks, clockHz uint32) uint32 {
	if clockHz == 0 {
		return 0
	}
	return uint32(mathx.RoundDiv(uint64(ticks)*nsPerSecond, uint64(clockHz)))
}

// Table holds the two symbols of a protocol, indexed by bit value, derived for
// one channel clock rate.
type Table struct {
	ClockHz uint32
	bits    [2]Symbol
}

// NewTable derives a Table for clockHz from the bit-0 and bit-1 timings and
// validates it.
func NewTable(clockHz uint32, zero, one Timing) (Table, error) {
	if clockHz == 0 {
		return Table{}, ErrZeroClock
	}
	t := Table{ClockHz: clockHz}
	for i, tm := range [2]Timing{zero, one} {
		hi, lo := Ticks(tm.HighNs, clockHz), Ticks(tm.LowNs, clockHz)
		if hi > MaxLength || lo > MaxLength {
			return Table{}, ErrLengthOverflow
		}
		t.bits[i] = Symbol{Level1: true, Length1: uint16(hi), Level2: false, Length2: uint16(lo)}
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// MustTable is NewTable for known-good compile-time parameters.
func MustTable(clockHz uint32, zero, one Timing) Table {
	t, err := NewTable(clockHz, zero, one)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// WS2812BTable derives the WS2812B table for clockHz.
func WS2812BTable(clockHz uint32) (Table, error) {
	return NewTable(clockHz, WS2812BZero, WS2812BOne)
}

// Symbol returns the symbol for bit (0 or 1; any non-zero value is 1).
func (t Table) Symbol(bit uint32) Symbol {
	if bit != 0 {
		return t.bits[1]
	}
	return t.bits[0]
}

// Validate checks the discrimination margin and period match.
func (t Table) Validate() error {
	if t.ClockHz == 0 {
		return ErrZeroClock
	}
	z, o := t.bits[0], t.bits[1]
	if z.IsEnd() || o.IsEnd() {
		return ErrZeroLength
	}
	if o.Length1 <= z.Length1 {
		return ErrNoMargin
	}
	pz := Nanos(z.Period(), t.ClockHz)
	po := Nanos(o.Period(), t.ClockHz)
	if mathx.Abs(int64(pz)-int64(po)) > PeriodTolerance {
		return ErrPeriodMismatch
	}
	return nil
}
