package framebuffer

import (
	"bytes"
	"encoding/binary"
	"os"
	"syscall"

	"github.com/BeatGlow/tft/internal/ioctl"
	"github.com/BeatGlow/tft/pixel"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo ioctl.Command = 0x4600
	fbioGetFScreenInfo ioctl.Command = 0x4602
)

// Framebuffer is an opened Linux framebuffer device (fbdev).
type Framebuffer struct {
	f     *os.File
	mem   []byte
	info  Info
	image pixel.Image
}

// Open a Linux FrameBuffer device (fbdev) by name, typically /dev/fb[0..x], for reading.
func Open(name string) (*Framebuffer, error) {
	f, err := os.OpenFile(name, os.O_RDONLY, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	var (
		fixed   linuxFixScreenInfo
		screen  linuxVarScreenInfo
		fd      = f.Fd()
		onError = func(err error) (*Framebuffer, error) {
			_ = f.Close()
			return nil, err
		}
	)
	if err = ioctl.Do(fd, fbioGetFScreenInfo, &fixed); err != nil {
		return onError(err)
	}
	if err = ioctl.Do(fd, fbioGetVScreenInfo, &screen); err != nil {
		return onError(err)
	}

	fb := &Framebuffer{
		f:    f,
		info: linuxInfo(&fixed, &screen),
	}
	if _, err = fb.info.BGR(); err != nil {
		return onError(err)
	}

	if fb.mem, err = syscall.Mmap(int(fd), 0, int(fixed.SmemLen), syscall.PROT_READ, syscall.MAP_SHARED); err != nil {
		return onError(err)
	}
	if fb.image, err = view(fb.info, fb.mem, binary.NativeEndian); err != nil {
		_ = syscall.Munmap(fb.mem)
		return onError(err)
	}
	return fb, nil
}

// Info describes the visible screen.
func (fb *Framebuffer) Info() Info {
	return fb.info
}

// Image is the visible screen. It aliases the device memory, so it always shows the current
// contents; it must not be used after Close.
func (fb *Framebuffer) Image() pixel.Image {
	return fb.image
}

// Close the framebuffer device
func (fb *Framebuffer) Close() error {
	if err := syscall.Munmap(fb.mem); err != nil {
		return err
	}
	return fb.f.Close()
}

func linuxInfo(fixed *linuxFixScreenInfo, screen *linuxVarScreenInfo) Info {
	id := fixed.ID[:]
	if i := bytes.IndexByte(id, 0); i >= 0 {
		id = id[:i]
	}
	return Info{
		ID:           string(id),
		Width:        int(screen.Xres),
		Height:       int(screen.Yres),
		XOffset:      int(screen.Xoffset),
		YOffset:      int(screen.Yoffset),
		BitsPerPixel: int(screen.BitsPerPixel),
		LineLength:   int(fixed.LineLength),
		Red:          BitField{Offset: screen.Red.Offset, Length: screen.Red.Length},
		Green:        BitField{Offset: screen.Green.Offset, Length: screen.Green.Length},
		Blue:         BitField{Offset: screen.Blue.Offset, Length: screen.Blue.Length},
	}
}

type linuxFixScreenInfo struct {
	ID         [16]byte  // Identification string eg "TT Builtin"
	SmemStart  uintptr   // Start of frame buffer mem
	SmemLen    uint32    // Length of frame buffer mem
	Type       uint32    // FB_TYPE_
	TypeAux    uint32    // Interleave for interleaved Planes
	Visual     uint32    // FB_VISUAL_
	Xpanstep   uint16    // Zero if no hardware panning
	Ypanstep   uint16    // Zero if no hardware panning
	Ywrapstep  uint16    // Zero if no hardware ywrap
	LineLength uint32    // Length of a line in bytes
	MmioStart  uintptr   // Start of Memory Mapped I/O (physical address)
	MmioLen    uint32    // Length of Memory Mapped I/O
	Accel      uint32    // Type of acceleration available
	Capa       uint16    // FB_CAP_
	Reserved   [2]uint16 // Reserved for future compatibility
}

type linuxBitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// linuxVarScreenInfo contains device independent changeable information about a frame buffer
// device and a specific video mode.
type linuxVarScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha linuxBitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
