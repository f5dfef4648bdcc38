package tft

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

var errTransport = errors.New("test: device not responding")

// write is one recorded Conn call.
type write struct {
	kind  string // reset, command, data or delay
	cmd   byte
	data  []byte
	delay time.Duration
}

func (w write) String() string {
	switch w.kind {
	case "command":
		return fmt.Sprintf("command %#02x % X", w.cmd, w.data)
	case "data":
		return fmt.Sprintf("data (%d bytes)", len(w.data))
	case "delay":
		return fmt.Sprintf("delay %s", w.delay)
	default:
		return w.kind
	}
}

// recorder is a Conn that records every call. When failAt is set, the failAt-th command or data
// write (1-based) fails, and so does every one after it.
type recorder struct {
	ops    []write
	writes int
	failAt int
	closed bool
}

func (r *recorder) String() string { return "recorder" }

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func (r *recorder) Reset() error {
	r.ops = append(r.ops, write{kind: "reset"})
	return nil
}

func (r *recorder) fail() bool {
	r.writes++
	return r.failAt > 0 && r.writes >= r.failAt
}

func (r *recorder) Command(cmd byte, data ...byte) error {
	if r.fail() {
		return errTransport
	}
	r.ops = append(r.ops, write{kind: "command", cmd: cmd, data: append([]byte{}, data...)})
	return nil
}

func (r *recorder) Data(data ...byte) error {
	if r.fail() {
		return errTransport
	}
	r.ops = append(r.ops, write{kind: "data", data: append([]byte{}, data...)})
	return nil
}

func (r *recorder) Delay(d time.Duration) {
	r.ops = append(r.ops, write{kind: "delay", delay: d})
}

func (r *recorder) clear() {
	r.ops = nil
}

// commands returns the recorded commands, skipping resets, data and delays.
func (r *recorder) commands() []write {
	var out []write
	for _, op := range r.ops {
		if op.kind == "command" {
			out = append(out, op)
		}
	}
	return out
}

// data returns the recorded data writes.
func (r *recorder) data() []write {
	var out []write
	for _, op := range r.ops {
		if op.kind == "data" {
			out = append(out, op)
		}
	}
	return out
}

func (w write) equal(o write) bool {
	return w.kind == o.kind && w.cmd == o.cmd && bytes.Equal(w.data, o.data) && w.delay == o.delay
}

func cmd(c byte, data ...byte) write {
	return write{kind: "command", cmd: c, data: append([]byte{}, data...)}
}

func delay(d time.Duration) write {
	return write{kind: "delay", delay: d}
}
