package draw

import (
	"image"
	"image/color"

	"github.com/BeatGlow/tft/pixel"
)

// Bar colors in RGB565.
var Bars = []pixel.CRGB16{
	{V: 0xF800}, // red
	{V: 0x07E0}, // green
	{V: 0x001F}, // blue
	{V: 0xF81F}, // magenta
}

// ColorBars fills rect with one vertical strip per entry of Bars, left to right. With bgr set the
// red and blue channels of every bar are swapped first, which shows what the panel displays when
// its color order setting does not match the pixel data.
func ColorBars(dst Image, rect image.Rectangle, bgr bool) {
	var (
		n = len(Bars)
		w = rect.Dx() / n
	)
	for i, bar := range Bars {
		if bgr {
			bar.V = pixel.SwapRB(bar.V)
		}
		strip := rect
		strip.Min.X = rect.Min.X + i*w
		if i < n-1 {
			strip.Max.X = strip.Min.X + w
		}
		Box(dst, strip, bar)
	}
}

// Gradient fills rect with a diagonal color gradient, shifted by offset. Drawing it with an
// increasing offset animates the pattern.
func Gradient(dst Image, rect image.Rectangle, offset int) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Set(x, y, color.RGBA{
				R: uint8(x + y + offset),
				G: uint8(x - y + offset),
				B: uint8(x + y - offset),
				A: 0xff,
			})
		}
	}
}
