package conn

// 3-wire SPI panels have no data/command line. Every byte travels as a 9-bit word instead, with the
// D/C flag in front of the eight data bits. Hosts that can only clock whole bytes send the words as
// one continuous MSB first bit stream: eight words fit in nine bytes.

// DataFlag marks a 9-bit word as a data (parameter) byte; words without it are commands.
const DataFlag = 0x100

// Word9 returns the 9-bit word for b.
func Word9(b byte, data bool) uint16 {
	if data {
		return DataFlag | uint16(b)
	}
	return uint16(b)
}

// Pack9Len is the number of bytes needed to carry n 9-bit words.
func Pack9Len(n int) int {
	return (n*9 + 7) / 8
}

// Pack9 packs the 9-bit words MSB first into dst and returns the number of bytes used. Bits past the
// last word are zero; the controller discards an incomplete word when chip select is released.
//
// dst must hold at least Pack9Len(len(words)) bytes.
func Pack9(dst []byte, words []uint16) int {
	var (
		acc  uint32
		bits uint
		n    int
	)
	for _, w := range words {
		acc = acc<<9 | uint32(w&0x1FF)
		bits += 9
		for bits >= 8 {
			bits -= 8
			dst[n] = byte(acc >> bits)
			n++
		}
		acc &= 1<<bits - 1
	}
	if bits > 0 {
		dst[n] = byte(acc << (8 - bits))
		n++
	}
	return n
}
