package pixel

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is a container that is used by the image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// PixOffset is the offset of the first byte of pixel (x, y).
func (p *Buffer) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// RowOffset is the offset of the first byte of row y.
func (p *Buffer) RowOffset(y int) int {
	return (y - p.Rect.Min.Y) * p.Stride
}

func makeBuffer(w, h, stride, size int) Buffer {
	return Buffer{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]byte, size),
		Stride: stride,
	}
}

func (p *Buffer) at16(order binary.ByteOrder, x, y int) (uint16, bool) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return 0, false
	}
	return order.Uint16(p.Pix[p.PixOffset(x, y):]), true
}

func (p *Buffer) set16(order binary.ByteOrder, x, y int, v uint16) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	order.PutUint16(p.Pix[p.PixOffset(x, y):], v)
}

func (p *Buffer) fill16(order binary.ByteOrder, v uint16) {
	bytes := make([]byte, 2)
	order.PutUint16(bytes, v)
	for i, l := 0, len(p.Pix); i+1 < l; i += 2 {
		copy(p.Pix[i:], bytes)
	}
}

// CRGB16Image is a 16-bits per pixel 5-6-5-bit RGB image.
type CRGB16Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCRGB16Image(w, h int) *CRGB16Image {
	return &CRGB16Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *CRGB16Image) ColorModel() color.Model {
	return CRGB16Model
}

func (p *CRGB16Image) At(x, y int) color.Color {
	v, ok := p.at16(p.Order, x, y)
	if !ok {
		return color.Transparent
	}
	return CRGB16{v}
}

func (p *CRGB16Image) Set(x, y int, c color.Color) {
	p.set16(p.Order, x, y, crgb16Model(c).(CRGB16).V)
}

func (p *CRGB16Image) Fill(c color.Color) {
	p.fill16(p.Order, crgb16Model(c).(CRGB16).V)
}

// CBGR16Image is a 16-bits per pixel 5-6-5-bit BGR image.
type CBGR16Image struct {
	Buffer
	Order binary.ByteOrder
}

func NewCBGR16Image(w, h int) *CBGR16Image {
	return &CBGR16Image{
		Buffer: makeBuffer(w, h, w*2, w*2*h),
		Order:  binary.BigEndian,
	}
}

func (p *CBGR16Image) ColorModel() color.Model {
	return CBGR16Model
}

func (p *CBGR16Image) At(x, y int) color.Color {
	v, ok := p.at16(p.Order, x, y)
	if !ok {
		return color.Transparent
	}
	return CBGR16{v}
}

func (p *CBGR16Image) Set(x, y int, c color.Color) {
	p.set16(p.Order, x, y, cbgr16Model(c).(CBGR16).V)
}

func (p *CBGR16Image) Fill(c color.Color) {
	p.fill16(p.Order, cbgr16Model(c).(CBGR16).V)
}

// Interface checks.
var (
	_ Image = (*CBGR16Image)(nil)
	_ Image = (*CRGB16Image)(nil)
)
