package ioctl

import "testing"

func TestEncode(t *testing.T) {
	var mode uint8
	tests := []struct {
		name string
		cmd  Command
		want Command
	}{
		// SPI_IOC_RD_MODE from <linux/spi/spidev.h>
		{"spi read mode", Pointer(Read, &mode, 0x6b01), 0x80016b01},
		// SPI_IOC_WR_MAX_SPEED_HZ
		{"spi write speed", Pointer(Write, new(uint32), 0x6b04), 0x40046b04},
		{"none", Encode(None, 0, 0x4600), 0x4600},
	}
	for _, test := range tests {
		if test.cmd != test.want {
			t.Errorf("%s: expected %#08x, got %#08x", test.name, uintptr(test.want), uintptr(test.cmd))
		}
	}
}

func TestCommandString(t *testing.T) {
	if got, want := Command(0x80016b01).String(), "ioctl read (1 bytes) 0x6b01"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
