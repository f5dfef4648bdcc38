//go:build !linux

package framebuffer

import "github.com/BeatGlow/tft/pixel"

// Framebuffer is an opened framebuffer device.
type Framebuffer struct{}

// Open is not supported on this platform.
func Open(_ string) (*Framebuffer, error) {
	return nil, ErrNotSupported
}

func (fb *Framebuffer) Info() Info {
	return Info{}
}

func (fb *Framebuffer) Image() pixel.Image {
	return nil
}

func (fb *Framebuffer) Close() error {
	return ErrNotSupported
}
