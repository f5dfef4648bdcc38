package tft

import (
	"errors"
	"testing"
	"time"
)

func TestILI9341Init(t *testing.T) {
	want := []write{
		{kind: "reset"},
		cmd(0x01), delay(5 * time.Millisecond),
		cmd(0x28),
		cmd(0xCF, 0x00, 0x83, 0x30),
		cmd(0xED, 0x64, 0x03, 0x12, 0x81),
		cmd(0xE8, 0x85, 0x01, 0x79),
		cmd(0xCB, 0x39, 0x2C, 0x00, 0x34, 0x02),
		cmd(0xF7, 0x20),
		cmd(0xEA, 0x00, 0x00),
		cmd(0xC0, 0x26),
		cmd(0xC1, 0x11),
		cmd(0xC5, 0x35, 0x3E),
		cmd(0xC7, 0xBE),
		cmd(0x3A, 0x55),
		cmd(0xB1, 0x00, 0x1B),
		cmd(0x26, 0x01),
		cmd(0xB7, 0x07),
		cmd(0xB6, 0x0A, 0x82, 0x27, 0x00),
		cmd(0x11), delay(100 * time.Millisecond),
		cmd(0x29),
		cmd(0x21), delay(20 * time.Millisecond),
	}

	r := new(recorder)
	if err := ILI9341().Init(r); err != nil {
		t.Fatal(err)
	}
	if len(r.ops) != len(want) {
		t.Fatalf("expected %d operations, got %d: %v", len(want), len(r.ops), r.ops)
	}
	for i, op := range r.ops {
		if !op.equal(want[i]) {
			t.Errorf("operation %d: expected %s, got %s", i, want[i], op)
		}
	}
	if n := len(r.commands()); n != 20 {
		t.Errorf("expected 20 register writes, got %d", n)
	}
}

func TestILI9341InitFailure(t *testing.T) {
	for _, failAt := range []int{1, 2, 9, 18, 20} {
		r := &recorder{failAt: failAt}
		err := ILI9341().Init(r)
		if !errors.Is(err, errTransport) {
			t.Fatalf("write %d: expected transport error, got %v", failAt, err)
		}
		if r.writes != failAt {
			t.Errorf("write %d: expected the sequence to stop after %d attempts, got %d", failAt, failAt, r.writes)
		}
		if n := len(r.commands()); n != failAt-1 {
			t.Errorf("write %d: expected %d successful writes, got %d", failAt, failAt-1, n)
		}
		if last := r.ops[len(r.ops)-1]; failAt == 1 && last.kind != "reset" {
			t.Errorf("expected nothing after the reset, got %s", last)
		}
	}
}

func TestILI9341SetOrientation(t *testing.T) {
	tests := []struct {
		rotation Rotation
		bgr      bool
		want     byte
	}{
		{NoRotation, false, 0x40},
		{NoRotation, true, 0x48},
		{Rotate90, false, 0xE0},
		{Rotate90, true, 0xE8},
		{Rotate180, false, 0x80},
		{Rotate180, true, 0x88},
		{Rotate270, false, 0x30},
		{Rotate270, true, 0x38},
	}
	for _, test := range tests {
		o := Orientation{Rotation: test.rotation, BGR: test.bgr}
		t.Run(o.String(), func(it *testing.T) {
			r := new(recorder)
			if err := ILI9341().SetOrientation(r, o); err != nil {
				it.Fatal(err)
			}
			if len(r.ops) != 1 || !r.ops[0].equal(cmd(0x36, test.want)) {
				it.Errorf("expected single MADCTL write %#02x, got %v", test.want, r.ops)
			}
		})
	}

	r := new(recorder)
	if err := ILI9341().SetOrientation(r, Orientation{Rotation: 4}); !errors.Is(err, ErrRotation) {
		t.Errorf("expected ErrRotation, got %v", err)
	}
	if len(r.ops) != 0 {
		t.Errorf("expected no writes for an invalid rotation, got %v", r.ops)
	}
}

func TestILI9341SetAddressWindow(t *testing.T) {
	tests := []struct {
		window Window
		col    []byte
		page   []byte
	}{
		{Window{0, 0, 239, 319}, []byte{0x00, 0x00, 0x00, 0xEF}, []byte{0x00, 0x00, 0x01, 0x3F}},
		{Window{10, 20, 10, 20}, []byte{0x00, 0x0A, 0x00, 0x0A}, []byte{0x00, 0x14, 0x00, 0x14}},
		{Window{0x12, 0x100, 0xEF, 0x13F}, []byte{0x00, 0x12, 0x00, 0xEF}, []byte{0x01, 0x00, 0x01, 0x3F}},
	}
	for _, test := range tests {
		t.Run(test.window.String(), func(it *testing.T) {
			r := new(recorder)
			if err := ILI9341().SetAddressWindow(r, test.window, NoRotation); err != nil {
				it.Fatal(err)
			}
			want := []write{cmd(0x2A, test.col...), cmd(0x2B, test.page...), cmd(0x2C)}
			if len(r.ops) != len(want) {
				it.Fatalf("expected %d writes, got %v", len(want), r.ops)
			}
			for i, op := range r.ops {
				if !op.equal(want[i]) {
					it.Errorf("write %d: expected %s, got %s", i, want[i], op)
				}
			}
		})
	}
}

func TestILI9341SetAddressWindowBounds(t *testing.T) {
	tests := []struct {
		window   Window
		rotation Rotation
		err      error
	}{
		{Window{-1, 0, 300, 400}, NoRotation, ErrBounds},
		{Window{0, 0, 240, 319}, NoRotation, ErrBounds},
		{Window{0, 0, 239, 320}, NoRotation, ErrBounds},
		{Window{10, 0, 9, 0}, NoRotation, ErrBounds},
		{Window{0, 0, 319, 239}, NoRotation, ErrBounds},
		{Window{0, 0, 239, 319}, Rotate90, ErrBounds},
		{Window{0, 0, 319, 239}, Rotate270, nil},
		{Window{0, 0, 0, 0}, 4, ErrRotation},
	}
	for _, test := range tests {
		t.Run(test.window.String()+" "+test.rotation.String(), func(it *testing.T) {
			r := new(recorder)
			err := ILI9341().SetAddressWindow(r, test.window, test.rotation)
			if test.err == nil {
				if err != nil {
					it.Fatal(err)
				}
				if len(r.ops) != 3 {
					it.Errorf("expected 3 writes, got %v", r.ops)
				}
				return
			}
			if !errors.Is(err, test.err) {
				it.Fatalf("expected %v, got %v", test.err, err)
			}
			if len(r.ops) != 0 {
				it.Errorf("expected no writes, got %v", r.ops)
			}
		})
	}
}

func TestILI9341SetPixelFormat(t *testing.T) {
	tests := []struct {
		bits int
		want byte
	}{
		{16, 0x55},
		{18, 0x66},
	}
	for _, test := range tests {
		r := new(recorder)
		if err := ILI9341().(PixelFormatter).SetPixelFormat(r, test.bits); err != nil {
			t.Fatalf("%d bits: %v", test.bits, err)
		}
		if len(r.ops) != 1 || !r.ops[0].equal(cmd(0x3A, test.want)) {
			t.Errorf("%d bits: expected PIXSET %#02x, got %v", test.bits, test.want, r.ops)
		}
	}

	for _, bits := range []int{0, 12, 17, 24} {
		r := new(recorder)
		if err := ILI9341().(PixelFormatter).SetPixelFormat(r, bits); !errors.Is(err, ErrPixelFormat) {
			t.Errorf("%d bits: expected ErrPixelFormat, got %v", bits, err)
		}
		if len(r.ops) != 0 {
			t.Errorf("%d bits: expected no writes, got %v", bits, r.ops)
		}
	}
}

func TestILI9341SetGamma(t *testing.T) {
	r := new(recorder)
	c := ILI9341()
	g := c.Descriptor().Gamma
	if err := c.SetGamma(r, g); err != nil {
		t.Fatal(err)
	}
	want := []write{
		cmd(0xE0, 0x1F, 0x1A, 0x18, 0x0A, 0x0F, 0x06, 0x45, 0x87, 0x32, 0x0A, 0x07, 0x02, 0x07, 0x05, 0x00),
		cmd(0xE1, 0x00, 0x25, 0x27, 0x05, 0x10, 0x09, 0x3A, 0x78, 0x4D, 0x05, 0x18, 0x0D, 0x38, 0x3A, 0x1F),
	}
	if len(r.ops) != len(want) {
		t.Fatalf("expected %d writes, got %v", len(want), r.ops)
	}
	for i, op := range r.ops {
		if !op.equal(want[i]) {
			t.Errorf("write %d: expected %s, got %s", i, want[i], op)
		}
	}
}

func TestILI9341SetGammaShape(t *testing.T) {
	full := ILI9341().Descriptor().Gamma
	tests := map[string]Gamma{
		"nil":          nil,
		"one curve":    full[:1],
		"three curves": append(full.Clone(), full[0]),
		"short curve":  {full[0], full[1][:14]},
		"long curve":   {full[0], append(append([]byte{}, full[1]...), 0x00)},
	}
	for name, g := range tests {
		r := new(recorder)
		if err := ILI9341().SetGamma(r, g); !errors.Is(err, ErrGammaShape) {
			t.Errorf("%s: expected ErrGammaShape, got %v", name, err)
		}
		if len(r.ops) != 0 {
			t.Errorf("%s: expected no writes, got %v", name, r.ops)
		}
	}
}

func TestILI9341SetGammaFailure(t *testing.T) {
	r := &recorder{failAt: 1}
	if err := ILI9341().SetGamma(r, ILI9341().Descriptor().Gamma); !errors.Is(err, errTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if r.writes != 1 {
		t.Errorf("expected the upload to stop at the first curve, got %d attempts", r.writes)
	}
}

func TestILI9341Descriptor(t *testing.T) {
	desc := ILI9341().Descriptor()
	if err := desc.Validate(); err != nil {
		t.Fatal(err)
	}
	if desc.Width != 240 || desc.Height != 320 {
		t.Errorf("expected 240x320, got %dx%d", desc.Width, desc.Height)
	}
	desc.Gamma[0][0] = 0xAA
	if ILI9341().Descriptor().Gamma[0][0] != 0x1F {
		t.Error("expected every descriptor to carry its own copy of the default gamma table")
	}
}
