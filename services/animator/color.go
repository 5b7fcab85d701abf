package animator

import (
	"math"

	"ledfw-go/ws281x"
	"ledfw-go/x/mathx"
)

// Gamma is the exponent of the perceptual correction curve.
const Gamma = 2.8

var gammaTable [256]uint8

func init() {
	for i := range gammaTable {
		gammaTable[i] = uint8(math.Pow(float64(i)/255, Gamma)*255 + 0.5)
	}
}

// HSV converts an 8-bit hue/saturation/value triple to RGB. Hue is split into
// six sectors of ~42.5 steps; 0 is red, 85 green, 170 blue.
func HSV(h, s, v uint8) ws281x.RGB {
	vv, ss := uint16(v), uint16(s)
	f := (uint16(h) * 2 % 85) * 3 // position within the sector, 0..252

	p := uint8(vv * (255 - ss) / 255)
	q := uint8(vv * (255 - ss*f/255) / 255)
	t := uint8(vv * (255 - ss*(255-f)/255) / 255)

	switch {
	case h < 43:
		return ws281x.RGB{R: v, G: t, B: p}
	case h < 85:
		return ws281x.RGB{R: q, G: v, B: p}
	case h < 128:
		return ws281x.RGB{R: p, G: v, B: t}
	case h < 170:
		return ws281x.RGB{R: p, G: q, B: v}
	case h < 213:
		return ws281x.RGB{R: t, G: p, B: v}
	case h < 255:
		return ws281x.RGB{R: v, G: p, B: q}
	default:
		return ws281x.RGB{R: v, G: t, B: p}
	}
}

// Correct applies gamma correction and then scales by brightness (0..255).
func Correct(c ws281x.RGB, brightness uint8) ws281x.RGB {
	return ws281x.RGB{
		R: mathx.ScaleU8(gammaTable[c.R], brightness),
		G: mathx.ScaleU8(gammaTable[c.G], brightness),
		B: mathx.ScaleU8(gammaTable[c.B], brightness),
	}
}
