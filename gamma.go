package tft

import (
	"fmt"
	"strconv"
	"strings"
)

// Gamma is a gamma curve table, one row of register values per curve. For most controllers the
// first curve is the positive and the second the negative polarity correction.
type Gamma [][]byte

// Clone returns a deep copy of g.
func (g Gamma) Clone() Gamma {
	if g == nil {
		return nil
	}
	out := make(Gamma, len(g))
	for i, curve := range g {
		out[i] = append([]byte(nil), curve...)
	}
	return out
}

// String formats g the way ParseGamma reads it.
func (g Gamma) String() string {
	var b strings.Builder
	for i, curve := range g {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, v := range curve {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%02X", v)
		}
	}
	return b.String()
}

func (g Gamma) check(curves, values int) error {
	if len(g) != curves {
		return fmt.Errorf("%w: %d curves, expected %d", ErrGammaShape, len(g), curves)
	}
	for i, curve := range g {
		if len(curve) != values {
			return fmt.Errorf("%w: curve %d has %d values, expected %d", ErrGammaShape, i, len(curve), values)
		}
	}
	return nil
}

// ParseGamma parses a gamma table with the given shape. Values are hexadecimal, separated by
// spaces or commas; curves are separated by newlines. A shape mismatch is an error.
func ParseGamma(s string, curves, values int) (Gamma, error) {
	var g Gamma
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t' || r == '\r'
		})
		if len(fields) == 0 {
			continue
		}
		curve := make([]byte, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(field), "0x"), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("tft: invalid gamma value %q: %w", field, err)
			}
			curve = append(curve, byte(v))
		}
		g = append(g, curve)
	}
	if err := g.check(curves, values); err != nil {
		return nil, err
	}
	return g, nil
}
