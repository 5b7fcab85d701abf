package ws281x

import "ledfw-go/pulse"

// BitsPerColor is the number of symbols one colour occupies on the wire.
const BitsPerColor = 24

// Sequence is the encoded form of one colour, first symbol first on the wire.
type Sequence [BitsPerColor]pulse.Symbol

// Encode renders c as 24 symbols taken from t, walking the GRB wire word from
// its most significant bit down.
func Encode(c RGB, t pulse.Table) Sequence {
	var seq Sequence
	encodeInto(seq[:], c, t)
	return seq
}

func encodeInto(dst []pulse.Symbol, c RGB, t pulse.Table) {
	zero, one := t.Symbol(0), t.Symbol(1)
	w := c.Wire()
	for i := 0; i < BitsPerColor; i++ {
		if w&(1<<(BitsPerColor-1-i)) != 0 {
			dst[i] = one
		} else {
			dst[i] = zero
		}
	}
}
