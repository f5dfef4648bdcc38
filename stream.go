package tft

import (
	"encoding/binary"
	"fmt"

	"github.com/BeatGlow/tft/pixel"
)

// Streamer forwards runs of RGB565 pixels to a Conn, in writes no larger than its transmit buffer.
//
// Without an Expander the pixel bytes go out unchanged. With one, every pixel is widened to three
// bytes; the run is converted one transmit buffer at a time and each buffer is written before the
// next is filled.
type Streamer struct {
	expander pixel.Expander
	order    binary.ByteOrder
	txBufLen int
	txbuf    []byte
}

// NewStreamer returns a Streamer with a txBufLen bytes transmit buffer. order is the byte order of
// the source pixels, big endian if nil.
func NewStreamer(txBufLen int, expander pixel.Expander, order binary.ByteOrder) *Streamer {
	if order == nil {
		order = binary.BigEndian
	}
	s := &Streamer{
		expander: expander,
		order:    order,
		txBufLen: txBufLen,
	}
	if expander != nil {
		s.txbuf = make([]byte, txBufLen/3*3)
	}
	return s
}

// BytesPerPixel is the number of bytes sent per pixel.
func (s *Streamer) BytesPerPixel() int {
	if s.expander != nil {
		return 3
	}
	return 2
}

// Stream sends length bytes of pixel data starting at offset in buf. A write failure ends the run;
// chunks already written stay written.
func (s *Streamer) Stream(c Conn, buf []byte, offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(buf) || length%2 != 0 {
		return fmt.Errorf("%w: offset %d, length %d in %d bytes", ErrPixelRun, offset, length, len(buf))
	}
	run := buf[offset : offset+length]
	if s.expander == nil {
		return s.native(c, run)
	}
	return s.expand(c, run)
}

func (s *Streamer) native(c Conn, run []byte) error {
	chunk := s.txBufLen &^ 1
	for len(run) > 0 {
		n := len(run)
		if n > chunk {
			n = chunk
		}
		if err := c.Data(run[:n]...); err != nil {
			return err
		}
		run = run[n:]
	}
	return nil
}

func (s *Streamer) expand(c Conn, run []byte) error {
	var chunks int
	for len(run) > 0 {
		n := pixel.ExpandAll(s.expander, s.txbuf, run, s.order)
		if err := c.Data(s.txbuf[:n*3]...); err != nil {
			return err
		}
		run = run[n*2:]
		chunks++
	}
	logf("tft: expanded pixel run in %d chunks", chunks)
	return nil
}
