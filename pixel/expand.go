package pixel

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Expander widens a 5-6-5 pixel into three bytes, one per channel, for controllers that take 18-bit
// 6-6-6 pixels over an 8-bit bus. Only the top six bits of each byte reach the panel.
type Expander interface {
	// Expand writes the red, green and blue bytes of v to dst[0:3].
	Expand(dst []byte, v uint16)
}

// ShiftExpander pads every channel with zero bits on the right. Full scale red becomes 0xF8.
type ShiftExpander struct{}

func (ShiftExpander) Expand(dst []byte, v uint16) {
	r, g, b := split565(v)
	dst[0] = r << 3
	dst[1] = g << 2
	dst[2] = b << 3
}

func (ShiftExpander) String() string { return "shift" }

// ReplicateExpander fills the low bits of every channel with copies of its own high bits, so that
// full scale maps to 0xFF and black stays 0x00.
type ReplicateExpander struct{}

func (ReplicateExpander) Expand(dst []byte, v uint16) {
	r, g, b := split565(v)
	dst[0] = r<<3 | r>>2
	dst[1] = g<<2 | g>>4
	dst[2] = b<<3 | b>>2
}

func (ReplicateExpander) String() string { return "replicate" }

// ExpanderByName returns the expander registered under name ("shift" or "replicate"). An empty name
// returns nil, meaning pixels are sent in their native encoding.
func ExpanderByName(name string) (Expander, error) {
	switch strings.ToLower(name) {
	case "", "none", "native":
		return nil, nil
	case "shift":
		return ShiftExpander{}, nil
	case "replicate":
		return ReplicateExpander{}, nil
	default:
		return nil, fmt.Errorf("pixel: unknown expander %q", name)
	}
}

// ExpandAll expands as many whole 2-byte pixels from src as fit in dst and returns the number of
// pixels converted.
func ExpandAll(e Expander, dst, src []byte, order binary.ByteOrder) int {
	n := len(src) / 2
	if m := len(dst) / 3; m < n {
		n = m
	}
	for i := 0; i < n; i++ {
		e.Expand(dst[i*3:], order.Uint16(src[i*2:]))
	}
	return n
}

func split565(v uint16) (r, g, b byte) {
	return byte(v >> 11), byte(v>>5) & 0x3F, byte(v) & 0x1F
}
