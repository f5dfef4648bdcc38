package tft

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	periph "periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/BeatGlow/tft/conn"
)

// Conn errors.
var (
	ErrDCPin = errors.New("tft: data/command (DC) GPIO pin is invalid")
)

// Conn is the command channel to a display controller. All methods block until the bus transfer
// (or delay) completes. A Conn must not be used by more than one goroutine at a time.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset pulses the hardware reset line and returns once the controller accepts commands.
	Reset() error

	// Command sends a command byte with optional parameter bytes.
	Command(byte, ...byte) error

	// Data sends data bytes, continuing the last command.
	Data(...byte) error

	// Delay blocks for at least d.
	Delay(d time.Duration)
}

// Reset line timing.
const (
	resetPulse  = 20 * time.Microsecond
	resetSettle = 120 * time.Millisecond
)

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the periph SPI port name, or a spidev device path such as /dev/spidev0.0.
	// An empty name opens the first available port.
	Port string

	// Speed is the maximum bus clock.
	Speed physic.Frequency

	// Mode is the SPI mode.
	Mode spi.Mode

	// ThreeWire selects 9-bit framing for panels wired without a data/command line.
	ThreeWire bool

	// MaxTxSize limits the size of one bus transfer, 0 asks the port.
	MaxTxSize int

	// Reset pin.
	Reset gpio.PinOut

	// DC is the data/command pin, required unless ThreeWire is set.
	DC gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Speed: 32 * physic.MegaHertz,
	Mode:  spi.Mode0,
}

// OpenSPI opens the SPI port described by config and returns a Conn to the controller.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.Speed == 0 {
		config.Speed = DefaultSPIConfig.Speed
	}

	var (
		bus    periph.Conn
		closer io.Closer
	)
	if strings.HasPrefix(config.Port, "/dev/") {
		dev, err := conn.OpenSPIDev(config.Port)
		if err != nil {
			return nil, err
		}
		if err = dev.SetMode(conn.SPIMode(config.Mode & spi.Mode3)); err != nil {
			_ = dev.Close()
			return nil, err
		}
		if err = dev.SetMaxSpeed(int(config.Speed / physic.Hertz)); err != nil {
			_ = dev.Close()
			return nil, err
		}
		if config.MaxTxSize > 0 {
			dev.SetMaxTxSize(config.MaxTxSize)
		}
		bus, closer = dev, dev
	} else {
		port, err := spireg.Open(config.Port)
		if err != nil {
			return nil, err
		}
		c, err := port.Connect(config.Speed, config.Mode, 8)
		if err != nil {
			_ = port.Close()
			return nil, err
		}
		bus, closer = c, port
	}

	c, err := NewSPI(bus, closer, config)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return c, nil
}

// NewSPI returns a Conn driving the controller over an already connected bus. closer, if not nil,
// is closed with the Conn.
func NewSPI(bus periph.Conn, closer io.Closer, config *SPIConfig) (Conn, error) {
	if !config.ThreeWire && (config.DC == nil || config.DC == gpio.INVALID) {
		return nil, ErrDCPin
	}

	maxTxSize := config.MaxTxSize
	if maxTxSize == 0 {
		if limits, ok := bus.(periph.Limits); ok {
			maxTxSize = limits.MaxTxSize()
		}
	}
	if maxTxSize <= 0 {
		maxTxSize = conn.DefaultMaxTxSize
	}

	reset := config.Reset
	if reset == gpio.INVALID {
		reset = nil
	}

	c := &spiConn{
		bus:       bus,
		closer:    closer,
		reset:     reset,
		maxTxSize: maxTxSize,
		sleep:     time.Sleep,
	}
	if config.ThreeWire {
		if maxTxSize < 9 {
			return nil, fmt.Errorf("tft: transfer size %d too small for 9-bit framing", maxTxSize)
		}
		return &spi3Conn{spiConn: c}, nil
	}
	c.dc = config.DC
	return c, nil
}

// spiConn is a 4-wire SPI connection: the DC pin is low for command bytes and high for data.
type spiConn struct {
	bus       periph.Conn
	closer    io.Closer
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcKnown   bool
	maxTxSize int
	sleep     func(time.Duration)
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI %s", c.bus)
}

func (c *spiConn) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *spiConn) Reset() error {
	if c.reset == nil {
		logf("tft: no reset pin, skipping hardware reset")
		return nil
	}
	if err := c.reset.Out(gpio.Low); err != nil {
		return err
	}
	c.sleep(resetPulse)
	if err := c.reset.Out(gpio.High); err != nil {
		return err
	}
	c.sleep(resetSettle)
	return nil
}

func (c *spiConn) Delay(d time.Duration) {
	c.sleep(d)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if c.dcKnown && c.dcLevel == level {
		return nil
	}
	if err := c.dc.Out(level); err != nil {
		return err
	}
	c.dcLevel, c.dcKnown = level, true
	return nil
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateDC(gpio.Low); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmnd}, nil); err != nil {
		return
	}
	return c.Data(data...)
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.High); err != nil {
		return
	}
	return c.writeChunked(data)
}

func (c *spiConn) writeChunked(data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > c.maxTxSize {
			n = c.maxTxSize
		}
		if err := c.bus.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// spi3Conn is a 3-wire SPI connection. Every byte is sent as a 9-bit word carrying its own
// data/command flag, packed into a continuous 8-bit stream.
type spi3Conn struct {
	*spiConn
	words  []uint16
	packed []byte
}

func (c *spi3Conn) String() string {
	return fmt.Sprintf("3-wire SPI %s", c.bus)
}

func (c *spi3Conn) Command(cmnd byte, data ...byte) error {
	c.words = append(c.words[:0], conn.Word9(cmnd, false))
	for _, b := range data {
		c.words = append(c.words, conn.Word9(b, true))
	}
	return c.send(c.words)
}

func (c *spi3Conn) Data(data ...byte) error {
	if len(data) == 0 {
		return nil
	}
	c.words = c.words[:0]
	for _, b := range data {
		c.words = append(c.words, conn.Word9(b, true))
	}
	return c.send(c.words)
}

// send transmits words in transfers of whole 8 word groups, so no transfer ends inside a word
// except the last.
func (c *spi3Conn) send(words []uint16) error {
	perTx := c.maxTxSize / 9 * 8
	for len(words) > 0 {
		n := len(words)
		if n > perTx {
			n = perTx
		}
		if need := conn.Pack9Len(n); cap(c.packed) < need {
			c.packed = make([]byte, need)
		}
		size := conn.Pack9(c.packed[:cap(c.packed)], words[:n])
		if err := c.bus.Tx(c.packed[:size], nil); err != nil {
			return err
		}
		words = words[n:]
	}
	return nil
}

// Interface checks.
var (
	_ Conn = (*spiConn)(nil)
	_ Conn = (*spi3Conn)(nil)
)
