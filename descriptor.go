package tft

import "fmt"

// Descriptor describes the fixed properties of a display controller and panel.
type Descriptor struct {
	// Name of the controller.
	Name string

	// Width and Height are the native (unrotated) panel dimensions in pixels.
	Width, Height int

	// RegWidth is the register bus width in bits.
	RegWidth int

	// TxBufLen is the transmit buffer capacity in bytes; no single pixel write exceeds it.
	TxBufLen int

	// GammaCurves and GammaValues give the shape of the gamma table.
	GammaCurves, GammaValues int

	// Gamma is the default gamma table.
	Gamma Gamma
}

// Validate checks the descriptor for values no driver can work with.
func (d Descriptor) Validate() error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return fmt.Errorf("tft: %s: invalid size %dx%d", d.Name, d.Width, d.Height)
	case d.RegWidth != 8:
		return fmt.Errorf("tft: %s: unsupported register width %d", d.Name, d.RegWidth)
	case d.TxBufLen < 3:
		return fmt.Errorf("tft: %s: transmit buffer of %d bytes can not hold a pixel", d.Name, d.TxBufLen)
	}
	return d.Gamma.check(d.GammaCurves, d.GammaValues)
}

// Size returns the panel dimensions for rotation r.
func (d Descriptor) Size(r Rotation) (width, height int) {
	if r.Transposed() {
		return d.Height, d.Width
	}
	return d.Width, d.Height
}
