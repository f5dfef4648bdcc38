package tft

import (
	"fmt"
	"time"
)

const (
	ili9341Width    = 240
	ili9341Height   = 320
	ili9341TxBufLen = 4 * 4096
)

// Registers (MIPI DCS and ILI9341 extended command set).
const (
	ili9341SWRESET = 0x01 // Software Reset
	ili9341SLPIN   = 0x10 // Enter Sleep Mode
	ili9341SLPOUT  = 0x11 // Sleep Out
	ili9341INVOFF  = 0x20 // Display Inversion Off
	ili9341INVON   = 0x21 // Display Inversion On
	ili9341GAMSET  = 0x26 // Gamma Set
	ili9341DISPOFF = 0x28 // Display Off
	ili9341DISPON  = 0x29 // Display On
	ili9341CASET   = 0x2A // Column Address Set
	ili9341PASET   = 0x2B // Page Address Set
	ili9341RAMWR   = 0x2C // Memory Write
	ili9341MADCTL  = 0x36 // Memory Access Control
	ili9341PIXSET  = 0x3A // Pixel Format Set
	ili9341FRMCTR1 = 0xB1 // Frame Rate Control (Normal Mode)
	ili9341DISCTRL = 0xB6 // Display Function Control
	ili9341ETMOD   = 0xB7 // Entry Mode Set
	ili9341PWCTR1  = 0xC0 // Power Control 1
	ili9341PWCTR2  = 0xC1 // Power Control 2
	ili9341VMCTR1  = 0xC5 // VCOM Control 1
	ili9341VMCTR2  = 0xC7 // VCOM Control 2
	ili9341PWCTRA  = 0xCB // Power Control A
	ili9341PWCTRB  = 0xCF // Power Control B
	ili9341GMCTRP1 = 0xE0 // Positive Gamma Correction, negative follows at 0xE1
	ili9341DTCA    = 0xE8 // Driver Timing Control A
	ili9341DTCB    = 0xEA // Driver Timing Control B
	ili9341PWONSEQ = 0xED // Power On Sequence Control
	ili9341PUMPRC  = 0xF7 // Pump Ratio Control
)

// Interface pixel formats (PIXSET).
const (
	ili9341Pixel16 = 0x55 // 16 bits/pixel, RGB 5-6-5
	ili9341Pixel18 = 0x66 // 18 bits/pixel, RGB 6-6-6 in three bytes
)

// ili9341Gamma is the default gamma table, positive curve first.
var ili9341Gamma = Gamma{
	{0x1F, 0x1A, 0x18, 0x0A, 0x0F, 0x06, 0x45, 0x87, 0x32, 0x0A, 0x07, 0x02, 0x07, 0x05, 0x00},
	{0x00, 0x25, 0x27, 0x05, 0x10, 0x09, 0x3A, 0x78, 0x4D, 0x05, 0x18, 0x0D, 0x38, 0x3A, 0x1F},
}

// Step is one register write of an initialization sequence, followed by an optional delay.
type Step struct {
	Command byte
	Data    []byte
	Delay   time.Duration
}

// ili9341Init is the power-on sequence for MI0283QT-9A style modules. The delays are minimums the
// controller needs after soft reset, sleep out and inversion on.
var ili9341Init = []Step{
	{Command: ili9341SWRESET, Delay: 5 * time.Millisecond},
	{Command: ili9341DISPOFF},
	{Command: ili9341PWCTRB, Data: []byte{0x00, 0x83, 0x30}},
	{Command: ili9341PWONSEQ, Data: []byte{0x64, 0x03, 0x12, 0x81}},
	{Command: ili9341DTCA, Data: []byte{0x85, 0x01, 0x79}},
	{Command: ili9341PWCTRA, Data: []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	{Command: ili9341PUMPRC, Data: []byte{0x20}},
	{Command: ili9341DTCB, Data: []byte{0x00, 0x00}},
	{Command: ili9341PWCTR1, Data: []byte{0x26}},
	{Command: ili9341PWCTR2, Data: []byte{0x11}},
	{Command: ili9341VMCTR1, Data: []byte{0x35, 0x3E}},
	{Command: ili9341VMCTR2, Data: []byte{0xBE}},
	{Command: ili9341PIXSET, Data: []byte{ili9341Pixel16}},
	{Command: ili9341FRMCTR1, Data: []byte{0x00, 0x1B}},
	{Command: ili9341GAMSET, Data: []byte{0x01}}, // Gamma curve 1
	{Command: ili9341ETMOD, Data: []byte{0x07}},
	{Command: ili9341DISCTRL, Data: []byte{0x0A, 0x82, 0x27, 0x00}},
	{Command: ili9341SLPOUT, Delay: 100 * time.Millisecond},
	{Command: ili9341DISPON},
	// The panel's native colors are inverted.
	{Command: ili9341INVON, Delay: 20 * time.Millisecond},
}

type ili9341 struct{}

// ILI9341 returns the controller for ILI9341 240x320 TFT LCDs.
func ILI9341() Controller {
	return ili9341{}
}

func (ili9341) String() string {
	return "ILI9341"
}

func (ili9341) Descriptor() Descriptor {
	return Descriptor{
		Name:        "ILI9341",
		Width:       ili9341Width,
		Height:      ili9341Height,
		RegWidth:    8,
		TxBufLen:    ili9341TxBufLen,
		GammaCurves: 2,
		GammaValues: 15,
		Gamma:       ili9341Gamma.Clone(),
	}
}

func (ili9341) Init(c Conn) error {
	if err := c.Reset(); err != nil {
		return fmt.Errorf("ili9341: reset: %w", err)
	}
	return runSteps(c, ili9341Init)
}

func runSteps(c Conn, steps []Step) error {
	for _, step := range steps {
		if err := c.Command(step.Command, step.Data...); err != nil {
			return fmt.Errorf("ili9341: command %#02x: %w", step.Command, err)
		}
		if step.Delay > 0 {
			c.Delay(step.Delay)
		}
	}
	return nil
}

func (d ili9341) SetAddressWindow(c Conn, w Window, r Rotation) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %s", ErrRotation, r)
	}
	width, height := d.Descriptor().Size(r)
	if !w.In(width, height) {
		return fmt.Errorf("%w: %s on %dx%d", ErrBounds, w, width, height)
	}
	x0, y0, x1, y1 := w.X0, w.Y0, w.X1, w.Y1
	return runSteps(c, []Step{
		{Command: ili9341CASET, Data: []byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}}, // Column address
		{Command: ili9341PASET, Data: []byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}}, // Page address
		{Command: ili9341RAMWR}, // Write to RAM
	})
}

func (ili9341) SetOrientation(c Conn, o Orientation) error {
	madctl, err := AddressModeFor(o)
	if err != nil {
		return err
	}
	logf("ili9341: madctl %s -> %s", o, madctl)
	return runSteps(c, []Step{{Command: ili9341MADCTL, Data: []byte{byte(madctl)}}})
}

func (d ili9341) SetGamma(c Conn, g Gamma) error {
	desc := d.Descriptor()
	if err := g.check(desc.GammaCurves, desc.GammaValues); err != nil {
		return err
	}
	for i, curve := range g {
		if err := c.Command(ili9341GMCTRP1+byte(i), curve...); err != nil {
			return fmt.Errorf("ili9341: gamma curve %d: %w", i, err)
		}
	}
	return nil
}

func (ili9341) SetPixelFormat(c Conn, bits int) error {
	var format byte
	switch bits {
	case 16:
		format = ili9341Pixel16
	case 18:
		format = ili9341Pixel18
	default:
		return fmt.Errorf("%w: %d bits per pixel", ErrPixelFormat, bits)
	}
	return runSteps(c, []Step{{Command: ili9341PIXSET, Data: []byte{format}}})
}

func (ili9341) Show(c Conn, on bool) error {
	command := byte(ili9341DISPOFF)
	if on {
		command = ili9341DISPON
	}
	return runSteps(c, []Step{{Command: command}})
}

func (ili9341) Sleep(c Conn, sleep bool) error {
	if sleep {
		return runSteps(c, []Step{{Command: ili9341SLPIN, Delay: 5 * time.Millisecond}})
	}
	return runSteps(c, []Step{{Command: ili9341SLPOUT, Delay: 120 * time.Millisecond}})
}

func (ili9341) Invert(c Conn, invert bool) error {
	command := byte(ili9341INVOFF)
	if invert {
		command = ili9341INVON
	}
	return runSteps(c, []Step{{Command: command}})
}

// Interface checks.
var (
	_ Controller      = ili9341{}
	_ PowerController = ili9341{}
	_ PixelFormatter  = ili9341{}
)
