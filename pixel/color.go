package pixel

import "image/color"

// Models for the standard color types.
var (
	CRGB16Model color.Model = color.ModelFunc(crgb16Model)
	CBGR16Model color.Model = color.ModelFunc(cbgr16Model)
)

// RGB565 channel masks.
const (
	redMask   = 0xF800
	greenMask = 0x07E0
	blueMask  = 0x001F
)

// CRGB16 represents a 16-bit 5-6-5 RGB color.
type CRGB16 struct {
	// CRed, 5, CGreen, 6, CBlue, 5
	V uint16
}

func (c CRGB16) RGBA() (r, g, b, a uint32) {
	return rgba565(c.V>>11, (c.V&greenMask)>>5, c.V&blueMask)
}

func crgb16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CRGB16:
		return c
	case CBGR16:
		return CRGB16{SwapRB(c.V)}
	default:
		r, g, b, _ := c.RGBA()
		return CRGB16{pack565(r, g, b)}
	}
}

// CBGR16 represents a 16-bit 5-6-5 BGR color.
type CBGR16 struct {
	// CBlue, 5, CGreen, 6, CRed, 5
	V uint16
}

func (c CBGR16) RGBA() (r, g, b, a uint32) {
	return rgba565(c.V&blueMask, (c.V&greenMask)>>5, c.V>>11)
}

func cbgr16Model(c color.Color) color.Color {
	switch c := c.(type) {
	case CBGR16:
		return c
	case CRGB16:
		return CBGR16{SwapRB(c.V)}
	default:
		r, g, b, _ := c.RGBA()
		return CBGR16{pack565(b, g, r)}
	}
}

// SwapRB exchanges the red and blue channels of a 5-6-5 value, turning RGB565 into BGR565 and back.
func SwapRB(v uint16) uint16 {
	r := (v & redMask) >> 11
	g := v & greenMask
	b := v & blueMask
	return b<<11 | g | r
}

// pack565 packs the top bits of three 16-bit channels, most significant channel first.
func pack565(hi, mid, lo uint32) uint16 {
	return uint16((hi & 0xF800) | (mid&0xFC00)>>5 | (lo&0xF800)>>11)
}

func rgba565(r5, g6, b5 uint16) (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := r5 << 3
	grn := g6 << 2
	blu := b5 << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}
