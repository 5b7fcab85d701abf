package ws281x

import (
	"ledfw-go/errcode"
	"ledfw-go/pulse"
)

const opDecode = "ws281x.decode"

// DecodeWire reads whole colours from seq, stopping at the first end marker,
// and appends their wire bytes (G, R, B per colour) to dst. A symbol counts
// as a 1 when its high time is past the midpoint of the table's two high
// times.
func DecodeWire(dst []byte, seq []pulse.Symbol, t pulse.Table) ([]byte, error) {
	n := len(seq)
	for i, s := range seq {
		if s.IsEnd() {
			n = i
			break
		}
	}
	if n%BitsPerColor != 0 {
		return dst, &errcode.E{C: errcode.InvalidParams, Op: opDecode, Msg: "partial colour"}
	}
	mid := (uint32(t.Symbol(0).Length1) + uint32(t.Symbol(1).Length1) + 1) / 2
	var cur byte
	for i := 0; i < n; i++ {
		cur <<= 1
		if uint32(seq[i].Length1) >= mid {
			cur |= 1
		}
		if i%8 == 7 {
			dst = append(dst, cur)
			cur = 0
		}
	}
	return dst, nil
}

// Decode is the inverse of Encode for a single colour.
func Decode(seq []pulse.Symbol, t pulse.Table) (RGB, error) {
	var buf [3]byte
	b, err := DecodeWire(buf[:0], seq, t)
	if err != nil {
		return RGB{}, err
	}
	if len(b) != 3 {
		return RGB{}, &errcode.E{C: errcode.InvalidParams, Op: opDecode, Msg: "want one colour"}
	}
	return RGB{G: b[0], R: b[1], B: b[2]}, nil
}
