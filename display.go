// Package tft contains drivers for serial-bus TFT LCD controllers.
//
// A driver is assembled from a [Conn] (the bus to the panel), a [Controller] (the register level
// protocol of one controller model) and a [Config]. [New] brings the panel from power-on to an
// active display and returns a [Dev] that owns both; every operation on the panel goes through that
// Dev, which serializes access to the bus.
package tft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/pixel"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

func logf(format string, args ...any) {
	if debug {
		log.Printf(format, args...)
	}
}

// Errors
var (
	ErrBounds         = errors.New("tft: address window out of display bounds")
	ErrRotation       = errors.New("tft: unsupported rotation")
	ErrGammaShape     = errors.New("tft: gamma table shape mismatch")
	ErrNotInitialized = errors.New("tft: display is not initialized")
	ErrPixelRun       = errors.New("tft: invalid pixel run")
	ErrClosed         = errors.New("tft: display is closed")
	ErrPixelFormat    = errors.New("tft: unsupported pixel format")
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

// RotationFromDegrees maps 0, 90, 180 and 270 to a Rotation. Other angles are rejected.
func RotationFromDegrees(degrees int) (Rotation, error) {
	switch degrees {
	case 0:
		return NoRotation, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	default:
		return 0, fmt.Errorf("%w: %d°", ErrRotation, degrees)
	}
}

// Degrees is the rotation angle.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Valid reports whether r is one of the four supported rotations.
func (r Rotation) Valid() bool {
	return r <= Rotate270
}

// Transposed reports whether rows and columns are exchanged.
func (r Rotation) Transposed() bool {
	return r == Rotate90 || r == Rotate270
}

func (r Rotation) String() string {
	switch r {
	case NoRotation:
		return "0°"
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
}

// Display is a pixel display.
type Display interface {
	// Close the display driver.
	Close() error

	// Clear the display buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// Show toggles the display on or off.
	Show(bool) error

	// SetRotation adjusts the pixel rotation.
	SetRotation(Rotation) error

	// Refresh redraws the display.
	Refresh() error
}

// Config is the display configuration.
type Config struct {
	// Rotation of the display.
	Rotation Rotation

	// BGR selects blue-green-red subpixel order on the panel.
	BGR bool

	// Gamma overrides the controller's default gamma curves.
	Gamma Gamma

	// TxBufLen overrides the transmit buffer size in bytes.
	TxBufLen int

	// Expander converts RGB565 pixels to three bytes per pixel before they are sent. Nil sends
	// pixels in their native 16-bit encoding.
	Expander pixel.Expander

	// Backlight pin, driven high once the panel is on.
	Backlight gpio.PinOut
}
