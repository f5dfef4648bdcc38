package draw

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	regularOnce sync.Once
	regular     *truetype.Font
	regularErr  error
)

// Face returns the Go Regular font at size points, rendered at 72 DPI so one point is one pixel.
func Face(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, regularErr
	}
	return truetype.NewFace(regular, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Label draws text with its top left corner at pt and returns the bounds it covers.
func Label(dst Image, face font.Face, pt image.Point, text string, c color.Color) image.Rectangle {
	var (
		metrics = face.Metrics()
		d       = &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: face,
			Dot:  fixed.P(pt.X, pt.Y+metrics.Ascent.Ceil()),
		}
		width = d.MeasureString(text)
	)
	d.DrawString(text)
	return image.Rect(pt.X, pt.Y, pt.X+width.Ceil(), pt.Y+metrics.Height.Ceil())
}
