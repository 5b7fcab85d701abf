package mathx

// CeilDiv returns ceil(a/b) for positive integers. b==0 yields 0.
func CeilDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
// Used for tick derivation, where a is ns*Hz and b is 1e9.
func RoundDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// ScaleU8 returns v*(s+1)/256, i.e. v scaled by s/255 rounded towards zero,
// with ScaleU8(v, 255) == v.
func ScaleU8(v, s uint8) uint8 {
	return uint8((uint16(v) * (uint16(s) + 1)) >> 8)
}
