// Package ws281x encodes colours into WS281x pulse sequences and drives them
// out of a pulse.Channel.
//
// Wire mapping: channels go out in G, R, B order, each byte MSB first.
// Symbol i of a Sequence carries bit 23-i of the wire word G<<16 | R<<8 | B,
// so symbols 0..7 are green, 8..15 red and 16..23 blue.
package ws281x

import "image/color"

// RGB is an 8-bit-per-channel colour.
type RGB struct {
	R, G, B uint8
}

// FromUint unpacks 0xRRGGBB.
func FromUint(u uint32) RGB {
	return RGB{R: uint8(u >> 16), G: uint8(u >> 8), B: uint8(u)}
}

// FromColor converts any color.Color, dropping alpha.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Uint packs the colour as 0xRRGGBB.
func (c RGB) Uint() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Wire returns the 24-bit word in transmission order (GRB).
func (c RGB) Wire() uint32 {
	return uint32(c.G)<<16 | uint32(c.R)<<8 | uint32(c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xFFFF
}
