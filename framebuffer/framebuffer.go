// Package framebuffer provides read access to the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system. Only 16 bits per pixel
// framebuffers (RGB565 or BGR565) are supported, which is what a kernel console or X server
// mirrored to a small TFT panel typically runs in. The framebuffer can be opened with the [Open]
// call; its visible area is exposed as an image that aliases the device memory.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/tft/pixel"
)

// Errors.
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrFormat       = errors.New("framebuffer: unsupported pixel format")
)

// BitField describes the position of one color channel in a pixel.
type BitField struct {
	Offset uint32
	Length uint32
}

// Info describes the visible screen of a framebuffer.
type Info struct {
	// ID is the driver identification string.
	ID string

	// Width and Height are the visible resolution in pixels.
	Width, Height int

	// XOffset and YOffset position the visible area in the virtual screen.
	XOffset, YOffset int

	// BitsPerPixel is the pixel depth.
	BitsPerPixel int

	// LineLength is the length of one line in bytes.
	LineLength int

	// Red, Green and Blue channel layout.
	Red, Green, Blue BitField
}

func (info Info) String() string {
	return fmt.Sprintf("%s %dx%d %dbpp", info.ID, info.Width, info.Height, info.BitsPerPixel)
}

// BGR reports if blue is stored in the high bits of a pixel. It returns ErrFormat for anything
// other than a 16 bits per pixel 5-6-5 layout.
func (info Info) BGR() (bool, error) {
	if info.BitsPerPixel != 16 || info.Green.Offset != 5 || info.Green.Length != 6 ||
		info.Red.Length != 5 || info.Blue.Length != 5 {
		return false, fmt.Errorf("%w: %d bpp, red %d@%d, green %d@%d, blue %d@%d", ErrFormat,
			info.BitsPerPixel,
			info.Red.Length, info.Red.Offset,
			info.Green.Length, info.Green.Offset,
			info.Blue.Length, info.Blue.Offset)
	}
	switch {
	case info.Red.Offset == 11 && info.Blue.Offset == 0:
		return false, nil
	case info.Blue.Offset == 11 && info.Red.Offset == 0:
		return true, nil
	default:
		return false, fmt.Errorf("%w: red at bit %d, blue at bit %d", ErrFormat, info.Red.Offset, info.Blue.Offset)
	}
}

// view returns the visible area of mem as an image. Pixel (x, y) lives at 16-bit word
// (x+XOffset) + (y+YOffset)*LineLength/2, stored in host byte order.
func view(info Info, mem []byte, order binary.ByteOrder) (pixel.Image, error) {
	bgr, err := info.BGR()
	if err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 || info.LineLength < info.Width*2 {
		return nil, fmt.Errorf("framebuffer: invalid geometry %dx%d, %d bytes per line", info.Width, info.Height, info.LineLength)
	}

	start := info.YOffset*info.LineLength + info.XOffset*2
	end := start + (info.Height-1)*info.LineLength + info.Width*2
	if start < 0 || end > len(mem) {
		return nil, fmt.Errorf("framebuffer: visible area %d-%d outside of %d bytes of memory", start, end, len(mem))
	}

	buffer := pixel.Buffer{
		Rect:   image.Rect(0, 0, info.Width, info.Height),
		Pix:    mem[start:end:end],
		Stride: info.LineLength,
	}
	if bgr {
		return &pixel.CBGR16Image{Buffer: buffer, Order: order}, nil
	}
	return &pixel.CRGB16Image{Buffer: buffer, Order: order}, nil
}

// Buffer returns the pixel buffer backing an image returned by [Framebuffer.Image].
func Buffer(im pixel.Image) *pixel.Buffer {
	switch im := im.(type) {
	case *pixel.CRGB16Image:
		return &im.Buffer
	case *pixel.CBGR16Image:
		return &im.Buffer
	default:
		return nil
	}
}

// Tracker detects which rows of a buffer changed between calls.
type Tracker struct {
	last []byte
}

// Update compares b with the copy taken on the previous call and returns the first and last
// changed row. The first call reports every row as changed.
func (t *Tracker) Update(b *pixel.Buffer) (first, last int, changed bool) {
	var (
		rows  = b.Rect.Dy()
		width = b.Rect.Dx() * 2
	)
	if len(t.last) != rows*width {
		t.last = make([]byte, rows*width)
		for y := 0; y < rows; y++ {
			copy(t.last[y*width:], b.Pix[y*b.Stride:y*b.Stride+width])
		}
		return 0, rows - 1, rows > 0
	}

	first = -1
	for y := 0; y < rows; y++ {
		var (
			row  = b.Pix[y*b.Stride : y*b.Stride+width]
			prev = t.last[y*width : (y+1)*width]
		)
		if string(row) == string(prev) {
			continue
		}
		copy(prev, row)
		if first < 0 {
			first = y
		}
		last = y
	}
	if first < 0 {
		return 0, 0, false
	}
	return first, last, true
}
