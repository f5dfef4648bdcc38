package tft

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/tft/pixel"
)

// Dev is a display: a controller on a bus, plus an RGB565 frame buffer in host memory that is
// drawn into and then flushed to the panel.
//
// Every method that talks to the controller holds the device lock for the whole operation, so
// register writes of different operations never interleave on the bus. Drawing into the frame
// buffer (Set, Fill, Clear) is not locked; callers that draw and refresh from different goroutines
// must coordinate themselves.
type Dev struct {
	mu          sync.Mutex
	c           Conn
	ctrl        Controller
	desc        Descriptor
	orientation Orientation
	gamma       Gamma
	expander    pixel.Expander
	streamer    *Streamer
	buffer      *pixel.CRGB16Image
	backlight   gpio.PinOut
	initialized bool
	closed      bool
}

// New attaches to the controller ctrl on c and initializes the panel. The Dev owns c from here on;
// closing the Dev closes c.
func New(c Conn, ctrl Controller, config *Config) (*Dev, error) {
	if config == nil {
		config = new(Config)
	}

	desc := ctrl.Descriptor()
	if config.TxBufLen > 0 {
		desc.TxBufLen = config.TxBufLen
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if !config.Rotation.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrRotation, config.Rotation)
	}

	gamma := desc.Gamma
	if config.Gamma != nil {
		if err := config.Gamma.check(desc.GammaCurves, desc.GammaValues); err != nil {
			return nil, err
		}
		gamma = config.Gamma.Clone()
	}

	if config.Expander != nil {
		if _, ok := ctrl.(PixelFormatter); !ok {
			return nil, fmt.Errorf("tft: %s does not support expanded pixel formats", desc.Name)
		}
	}

	d := &Dev{
		c:    c,
		ctrl: ctrl,
		desc: desc,
		orientation: Orientation{
			Rotation: config.Rotation,
			BGR:      config.BGR,
		},
		gamma:     gamma,
		expander:  config.Expander,
		streamer:  NewStreamer(desc.TxBufLen, config.Expander, nil),
		backlight: config.Backlight,
	}
	if d.backlight == gpio.INVALID {
		d.backlight = nil
	}
	d.resize()

	if err := d.InitDisplay(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("%s %dx%d on %s", d.desc.Name, bounds.Dx(), bounds.Dy(), d.c)
}

// resize reallocates the frame buffer if the orientation changed its dimensions.
func (d *Dev) resize() {
	w, h := d.desc.Size(d.orientation.Rotation)
	if d.buffer != nil && d.buffer.Rect.Dx() == w && d.buffer.Rect.Dy() == h {
		return
	}
	d.buffer = pixel.NewCRGB16Image(w, h)
}

func (d *Dev) ready() error {
	switch {
	case d.closed:
		return ErrClosed
	case !d.initialized:
		return ErrNotInitialized
	}
	return nil
}

// InitDisplay runs the controller's power-on sequence, then programs orientation, gamma curves and
// pixel format, and finally clears the panel. It can be called again to recover a panel that lost
// its state; if it fails, the device stays uninitialized until a later call succeeds.
func (d *Dev) InitDisplay() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.initialized = false

	if err := d.ctrl.Init(d.c); err != nil {
		return err
	}
	if err := d.ctrl.SetOrientation(d.c, d.orientation); err != nil {
		return err
	}
	if err := d.ctrl.SetGamma(d.c, d.gamma); err != nil {
		return err
	}
	if d.expander != nil {
		if err := d.ctrl.(PixelFormatter).SetPixelFormat(d.c, 18); err != nil {
			return err
		}
	}
	d.initialized = true
	logf("tft: %s initialized, orientation %s, %d bytes per pixel", d.desc.Name, d.orientation, d.streamer.BytesPerPixel())

	d.buffer.Clear()
	if err := d.updateRows(0, d.buffer.Rect.Dy()-1); err != nil {
		d.initialized = false
		return err
	}

	if d.backlight != nil {
		if err := d.backlight.Out(gpio.High); err != nil {
			d.initialized = false
			return err
		}
	}
	return nil
}

// SetAddressWindow selects the panel rectangle the next StreamPixels call fills. Windows outside
// the panel, in its current orientation, are rejected with ErrBounds without touching the bus.
func (d *Dev) SetAddressWindow(w Window) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setAddressWindow(w)
}

func (d *Dev) setAddressWindow(w Window) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.ctrl.SetAddressWindow(d.c, w, d.orientation.Rotation)
}

// StreamPixels sends length bytes of RGB565 pixel data, starting at offset in buf, to the
// current address window.
func (d *Dev) StreamPixels(buf []byte, offset, length int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return err
	}
	return d.streamer.Stream(d.c, buf, offset, length)
}

// Orientation is the current panel orientation.
func (d *Dev) Orientation() Orientation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orientation
}

// SetOrientation changes rotation and color order. When the rotation swaps width and height the
// frame buffer is reallocated, blank.
func (d *Dev) SetOrientation(o Orientation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOrientation(o)
}

func (d *Dev) setOrientation(o Orientation) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.ctrl.SetOrientation(d.c, o); err != nil {
		return err
	}
	d.orientation = o
	d.resize()
	return nil
}

// SetRotation changes the rotation, keeping the color order.
func (d *Dev) SetRotation(rotation Rotation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOrientation(Orientation{
		Rotation: rotation,
		BGR:      d.orientation.BGR,
	})
}

// Gamma returns a copy of the gamma table last uploaded.
func (d *Dev) Gamma() Gamma {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gamma.Clone()
}

// SetGamma uploads new gamma curves. The table must match the descriptor's shape.
func (d *Dev) SetGamma(g Gamma) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return err
	}
	if err := d.ctrl.SetGamma(d.c, g); err != nil {
		return err
	}
	d.gamma = g.Clone()
	return nil
}

// UpdateRows flushes the frame buffer rows start through end (inclusive) to the panel.
func (d *Dev) UpdateRows(start, end int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateRows(start, end)
}

func (d *Dev) updateRows(start, end int) error {
	b := d.buffer
	if err := d.setAddressWindow(Window{X0: 0, Y0: start, X1: b.Rect.Dx() - 1, Y1: end}); err != nil {
		return err
	}
	offset := b.RowOffset(start)
	return d.streamer.Stream(d.c, b.Pix, offset, b.RowOffset(end+1)-offset)
}

// Refresh redraws the whole display from the frame buffer.
func (d *Dev) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateRows(0, d.buffer.Rect.Dy()-1)
}

// Draw implements display.Drawer: src is drawn into the frame buffer at r and the affected rows
// are flushed.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return err
	}
	r = r.Intersect(d.buffer.Rect)
	if r.Empty() {
		return nil
	}
	draw.Draw(d.buffer, r, src, sp, draw.Src)
	return d.updateRows(r.Min.Y, r.Max.Y-1)
}

// Halt implements conn.Resource by switching the panel output off.
func (d *Dev) Halt() error {
	return d.Show(false)
}

func (d *Dev) power(f func(PowerController) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ready(); err != nil {
		return err
	}
	pc, ok := d.ctrl.(PowerController)
	if !ok {
		return fmt.Errorf("tft: %s has no power control", d.desc.Name)
	}
	return f(pc)
}

// Show toggles the display on or off.
func (d *Dev) Show(show bool) error {
	return d.power(func(pc PowerController) error { return pc.Show(d.c, show) })
}

// Sleep puts the controller in or out of sleep mode.
func (d *Dev) Sleep(sleep bool) error {
	return d.power(func(pc PowerController) error { return pc.Sleep(d.c, sleep) })
}

// Invert toggles color inversion. Panels that need inversion for correct colors get it during
// initialization.
func (d *Dev) Invert(invert bool) error {
	return d.power(func(pc PowerController) error { return pc.Invert(d.c, invert) })
}

// Close switches the display off and closes the connection.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var err error
	if pc, ok := d.ctrl.(PowerController); ok && d.initialized {
		err = pc.Show(d.c, false)
	}
	if d.backlight != nil {
		if berr := d.backlight.Out(gpio.Low); err == nil {
			err = berr
		}
	}
	if cerr := d.c.Close(); err == nil {
		err = cerr
	}
	d.initialized = false
	return err
}

// Descriptor returns the controller descriptor in use, including any transmit buffer override.
func (d *Dev) Descriptor() Descriptor {
	desc := d.desc
	desc.Gamma = desc.Gamma.Clone()
	return desc
}

// Image is the frame buffer.
func (d *Dev) Image() *pixel.CRGB16Image {
	return d.buffer
}

func (d *Dev) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

func (d *Dev) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

func (d *Dev) At(x, y int) color.Color {
	return d.buffer.At(x, y)
}

func (d *Dev) Set(x, y int, c color.Color) {
	d.buffer.Set(x, y, c)
}

func (d *Dev) Clear() {
	d.buffer.Clear()
}

func (d *Dev) Fill(c color.Color) {
	d.buffer.Fill(c)
}

// Interface checks.
var (
	_ Display        = (*Dev)(nil)
	_ draw.Image     = (*Dev)(nil)
	_ display.Drawer = (*Dev)(nil)
)
