package conv

const hexDigits = "0123456789ABCDEF"

// Hex writes the low digits nibbles of n as zero-padded uppercase hex, no
// prefix, right-aligned in buf. digits is clamped to 1..8 and to len(buf).
func Hex(buf []byte, n uint32, digits int) []byte {
	if digits < 1 {
		digits = 1
	}
	if digits > 8 {
		digits = 8
	}
	if digits > len(buf) {
		return buf[:0]
	}
	i := len(buf)
	for j := 0; j < digits; j++ {
		i--
		buf[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}

// U32Hex is Hex with all eight digits.
func U32Hex(buf []byte, n uint32) []byte { return Hex(buf, n, 8) }
