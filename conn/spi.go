// Package conn implements the low level bus plumbing for serial display controllers: a raw spidev
// connection that satisfies periph's [conn.Conn], and the 9-bit word framing used by 3-wire SPI
// panels.
package conn

import (
	"fmt"
	"os"

	"periph.io/x/conn/v3"

	"github.com/BeatGlow/tft/internal/ioctl"
)

// Definitions from <spi/spidev.h>
const (
	spiCPHA = 0x01
	spiCPOL = 0x02
)

type SPIMode uint8

const (
	SPIMode0 SPIMode = (0 | 0)             //nolint:staticcheck
	SPIMode1 SPIMode = (0 | spiCPHA)       //nolint:staticcheck
	SPIMode2 SPIMode = (spiCPOL | 0)       //nolint:staticcheck
	SPIMode3 SPIMode = (spiCPOL | spiCPHA) //nolint:staticcheck
)

const (
	spiIOCMode        = 0x6b01
	spiIOCBitsPerWord = 0x6b03
	spiIOCMaxSpeedHz  = 0x6b04
)

// DefaultMaxTxSize is the spidev default buffer size (the bufsiz module parameter).
const DefaultMaxTxSize = 4096

// SPI implements the spidev interface.
type SPI struct {
	f           *os.File
	fd          uintptr
	name        string
	mode        SPIMode
	bitsPerWord uint8
	maxSpeedHz  uint32
	maxTxSize   int
}

// OpenSPIDev opens a spidev character device by path, typically /dev/spidev[bus].[device].
func OpenSPIDev(path string) (*SPI, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	c := &SPI{
		f:         f,
		fd:        f.Fd(),
		name:      path,
		maxTxSize: DefaultMaxTxSize,
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.mode, spiIOCMode), &c.mode); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.bitsPerWord, spiIOCBitsPerWord), &c.bitsPerWord); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err = ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &c.maxSpeedHz, spiIOCMaxSpeedHz), &c.maxSpeedHz); err != nil {
		_ = f.Close()
		return nil, err
	}

	return c, nil
}

func (c *SPI) Close() error {
	return c.f.Close()
}

func (c *SPI) String() string {
	return fmt.Sprintf("%s mode=%d bits per word=%d max speed=%dHz", c.name, c.mode, c.bitsPerWord, c.maxSpeedHz)
}

func (c *SPI) Mode() SPIMode {
	return c.mode
}

func (c *SPI) SetMode(mode SPIMode) error {
	mode &= 0x0f

	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &mode, spiIOCMode), &mode); err != nil {
		return err
	}

	var test SPIMode
	if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Read, &test, spiIOCMode), &test); err != nil {
		return err
	}

	if test != mode {
		return fmt.Errorf("conn: SPI attempted to set mode %#02x, but mode %#02x is in use", mode, test)
	}

	c.mode = mode
	return nil
}

func (c *SPI) BitsPerWord() uint8 {
	return c.bitsPerWord
}

func (c *SPI) SetBitsPerWord(bits uint8) error {
	if bits < 8 || bits > 32 {
		return fmt.Errorf("conn: SPI bits per word need to be 8 or more and 32 or less, got %d", bits)
	}

	if c.bitsPerWord != bits {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &bits, spiIOCBitsPerWord), &bits); err != nil {
			return err
		}
		c.bitsPerWord = bits
	}

	return nil
}

func (c *SPI) MaxSpeed() int {
	return int(c.maxSpeedHz)
}

func (c *SPI) SetMaxSpeed(v int) error {
	if v <= 0 {
		return nil
	}

	u := uint32(v)
	if c.maxSpeedHz != u {
		if err := ioctl.Do(c.fd, ioctl.Pointer(ioctl.Write, &u, spiIOCMaxSpeedHz), &u); err != nil {
			return err
		}
		c.maxSpeedHz = u
	}

	return nil
}

// SetMaxTxSize overrides the transfer size limit, for kernels loaded with a larger spidev bufsiz.
func (c *SPI) SetMaxTxSize(n int) {
	if n > 0 {
		c.maxTxSize = n
	}
}

// MaxTxSize implements conn.Limits.
func (c *SPI) MaxTxSize() int {
	return c.maxTxSize
}

// Tx implements conn.Conn. Display controllers are write-only here, so r must be empty.
func (c *SPI) Tx(w, r []byte) error {
	if len(r) != 0 {
		return fmt.Errorf("conn: %s is write only", c.name)
	}
	_, err := c.f.Write(w)
	return err
}

// Duplex implements conn.Conn.
func (c *SPI) Duplex() conn.Duplex {
	return conn.Half
}

func (c *SPI) Write(b []byte) (n int, err error) {
	return c.f.Write(b)
}

// Interface checks.
var (
	_ conn.Conn   = (*SPI)(nil)
	_ conn.Limits = (*SPI)(nil)
)
