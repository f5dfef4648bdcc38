package tft

import (
	"fmt"
	"image"
	"strings"
)

// Controller implements the register protocol of one display controller model. Implementations
// are stateless; the bus and all mutable state belong to the caller, which must not use one Conn
// from more than one goroutine at a time.
type Controller interface {
	// Descriptor returns the controller's fixed configuration.
	Descriptor() Descriptor

	// Init runs the power-on sequence, leaving the panel on and ready for pixel data.
	Init(c Conn) error

	// SetAddressWindow selects the rectangle the next memory write fills. The caller must follow
	// up with pixel data. Windows outside the panel at rotation r are rejected with ErrBounds
	// before anything is written.
	SetAddressWindow(c Conn, w Window, r Rotation) error

	// SetOrientation programs scan direction and color order.
	SetOrientation(c Conn, o Orientation) error

	// SetGamma uploads the gamma curves.
	SetGamma(c Conn, g Gamma) error
}

// PowerController is implemented by controllers that can switch the panel output, sleep mode and
// color inversion after initialization.
type PowerController interface {
	Show(c Conn, on bool) error
	Sleep(c Conn, sleep bool) error
	Invert(c Conn, invert bool) error
}

// PixelFormatter is implemented by controllers that accept more than one interface pixel format.
type PixelFormatter interface {
	// SetPixelFormat selects 16 or 18 bits per pixel.
	SetPixelFormat(c Conn, bits int) error
}

// ControllerByName returns the controller with the given model name.
func ControllerByName(name string) (Controller, error) {
	switch strings.ToLower(name) {
	case "ili9341":
		return ILI9341(), nil
	default:
		return nil, fmt.Errorf("tft: unsupported controller %q", name)
	}
}

// Window is an inclusive rectangle of panel pixels.
type Window struct {
	X0, Y0, X1, Y1 int
}

// WindowFromRect converts a half-open image rectangle to a Window.
func WindowFromRect(r image.Rectangle) Window {
	return Window{X0: r.Min.X, Y0: r.Min.Y, X1: r.Max.X - 1, Y1: r.Max.Y - 1}
}

// Rect is the half-open image rectangle covered by w.
func (w Window) Rect() image.Rectangle {
	return image.Rect(w.X0, w.Y0, w.X1+1, w.Y1+1)
}

// Pixels is the number of pixels in the window.
func (w Window) Pixels() int {
	return (w.X1 - w.X0 + 1) * (w.Y1 - w.Y0 + 1)
}

// In reports whether w is a non-empty window inside a width×height panel.
func (w Window) In(width, height int) bool {
	return 0 <= w.X0 && w.X0 <= w.X1 && w.X1 < width &&
		0 <= w.Y0 && w.Y0 <= w.Y1 && w.Y1 < height
}

func (w Window) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", w.X0, w.Y0, w.X1, w.Y1)
}

// Orientation is the panel's rotation and subpixel color order.
type Orientation struct {
	Rotation Rotation
	BGR      bool
}

func (o Orientation) String() string {
	if o.BGR {
		return o.Rotation.String() + " BGR"
	}
	return o.Rotation.String() + " RGB"
}

// AddressMode is the Memory Access Control (MADCTL) register value.
type AddressMode byte

// Memory Access Control (MADCTL) bit fields.
const (
	_                      AddressMode = 1 << iota // D0: reserved
	_                                              // D1: reserved
	HorizontalRefreshOrder                         // D2: MH
	BGROrder                                       // D3: BGR
	VerticalRefreshOrder                           // D4: ML
	RowColumnExchange                              // D5: MV
	ColumnAddressOrder                             // D6: MX
	RowAddressOrder                                // D7: MY
)

// AddressModeFor returns the MADCTL value that puts the panel in orientation o.
func AddressModeFor(o Orientation) (AddressMode, error) {
	var mode AddressMode
	switch o.Rotation {
	case NoRotation:
		mode = ColumnAddressOrder
	case Rotate90:
		mode = RowAddressOrder | ColumnAddressOrder | RowColumnExchange
	case Rotate180:
		mode = RowAddressOrder
	case Rotate270:
		mode = RowColumnExchange | VerticalRefreshOrder
	default:
		return 0, fmt.Errorf("%w: %s", ErrRotation, o.Rotation)
	}
	if o.BGR {
		mode |= BGROrder
	}
	return mode, nil
}

func (m AddressMode) String() string {
	var names []string
	for _, bit := range []struct {
		mask AddressMode
		name string
	}{
		{RowAddressOrder, "MY"},
		{ColumnAddressOrder, "MX"},
		{RowColumnExchange, "MV"},
		{VerticalRefreshOrder, "ML"},
		{BGROrder, "BGR"},
		{HorizontalRefreshOrder, "MH"},
	} {
		if m&bit.mask != 0 {
			names = append(names, bit.name)
		}
	}
	if len(names) == 0 {
		return "0x00"
	}
	return fmt.Sprintf("%#02x(%s)", byte(m), strings.Join(names, "|"))
}
