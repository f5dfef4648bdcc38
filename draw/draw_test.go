package draw

import (
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/tft/pixel"
)

func count(im *pixel.CRGB16Image) (n int) {
	for i := 0; i < len(im.Pix); i += 2 {
		if im.Pix[i] != 0 || im.Pix[i+1] != 0 {
			n++
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 2), image.Pt(9, 2), 10},
		{"vertical", image.Pt(4, 9), image.Pt(4, 0), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"steep", image.Pt(1, 0), image.Pt(3, 9), 10},
		{"shallow", image.Pt(9, 1), image.Pt(0, 4), 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			im := pixel.NewCRGB16Image(10, 10)
			Line(im, test.a, test.b, color.White)
			if n := count(im); n != test.want {
				t.Errorf("expected %d pixels, got %d", test.want, n)
			}
			for _, p := range []image.Point{test.a, test.b} {
				if im.At(p.X, p.Y) != (pixel.CRGB16{V: 0xFFFF}) {
					t.Errorf("expected end point %s to be set", p)
				}
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	im := pixel.NewCRGB16Image(10, 8)
	Rectangle(im, im.Bounds(), color.White)
	if n := count(im); n != 2*10+2*6 {
		t.Errorf("expected %d border pixels, got %d", 2*10+2*6, n)
	}
	for _, p := range []image.Point{{0, 0}, {9, 0}, {0, 7}, {9, 7}} {
		if im.At(p.X, p.Y) == (pixel.CRGB16{}) {
			t.Errorf("expected corner %s to be set", p)
		}
	}
	if im.At(1, 1) != (pixel.CRGB16{}) {
		t.Error("expected the inside to be untouched")
	}
}

func TestBox(t *testing.T) {
	im := pixel.NewCRGB16Image(10, 10)
	Box(im, image.Rect(2, 2, 5, 6), color.White)
	if n := count(im); n != 3*4 {
		t.Errorf("expected %d pixels, got %d", 3*4, n)
	}
}

func TestColorBars(t *testing.T) {
	tests := []struct {
		bgr  bool
		want []uint16
	}{
		{false, []uint16{0xF800, 0x07E0, 0x001F, 0xF81F}},
		{true, []uint16{0x001F, 0x07E0, 0xF800, 0xF81F}},
	}
	for _, test := range tests {
		im := pixel.NewCRGB16Image(242, 4)
		ColorBars(im, im.Bounds(), test.bgr)
		for i, want := range test.want {
			if got := im.At(i*60+30, 2); got != (pixel.CRGB16{V: want}) {
				t.Errorf("bgr=%t bar %d: expected %#04x, got %v", test.bgr, i, want, got)
			}
		}
		if got := im.At(241, 3); got != (pixel.CRGB16{V: test.want[3]}) {
			t.Errorf("bgr=%t: expected the last bar to fill the remainder, got %v", test.bgr, got)
		}
	}
}

func TestGradient(t *testing.T) {
	im := pixel.NewCRGB16Image(8, 8)
	Gradient(im, image.Rect(1, 1, 7, 7), 0)
	if im.At(0, 0) != (pixel.CRGB16{}) {
		t.Error("expected pixels outside of the rectangle to be untouched")
	}
	a := im.At(6, 1)
	Gradient(im, image.Rect(1, 1, 7, 7), 64)
	if im.At(6, 1) == a {
		t.Error("expected the offset to shift the gradient")
	}
}

func TestLabel(t *testing.T) {
	face, err := Face(16)
	if err != nil {
		t.Fatal(err)
	}
	im := pixel.NewCRGB16Image(120, 40)
	r := Label(im, face, image.Pt(4, 4), "ILI9341", color.White)
	if r.Dx() <= 0 || r.Dy() < 16 {
		t.Fatalf("unexpected label bounds %s", r)
	}
	if count(im) == 0 {
		t.Error("expected text to be drawn")
	}
	// Allow for anti-aliasing at the glyph edges.
	outer := r.Inset(-2)
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if (image.Point{X: x, Y: y}).In(outer) {
				continue
			}
			if im.At(x, y) != (pixel.CRGB16{}) {
				t.Fatalf("pixel (%d,%d) drawn outside of label bounds %s", x, y, r)
			}
		}
	}
}
