// Command fbcp mirrors a Linux framebuffer to a TFT panel, sending only the rows that changed.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/tft"
	"github.com/BeatGlow/tft/draw"
	"github.com/BeatGlow/tft/framebuffer"
	"github.com/BeatGlow/tft/pixel"
)

func main() {
	fbFlag := flag.String("fb", "/dev/fb0", "Framebuffer device")
	controllerFlag := flag.String("controller", "ili9341", "Display controller")
	portFlag := flag.String("port", "", "SPI port name or spidev path (default: use first available)")
	speedFlag := flag.Int64("speed", 32, "SPI clock in MHz")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	blPinFlag := flag.String("bl", "GPIO19", "Backlight GPIO pin")
	rotateFlag := flag.Int("rotate", 90, "Display rotation in degrees (0, 90, 180 or 270)")
	bgrFlag := flag.Bool("bgr", true, "Panel uses BGR color order")
	intervalFlag := flag.Duration("interval", 25*time.Millisecond, "Copy interval")
	flag.Parse()

	rotation, err := tft.RotationFromDegrees(*rotateFlag)
	if err != nil {
		fatal(err)
	}
	ctrl, err := tft.ControllerByName(*controllerFlag)
	if err != nil {
		fatal(err)
	}

	fb, err := framebuffer.Open(*fbFlag)
	if err != nil {
		fatal(err)
	}
	defer fb.Close()
	fmt.Printf("using framebuffer: %s\n", fb.Info())

	if _, err = host.Init(); err != nil {
		_ = fb.Close()
		fatal(err)
	}

	config := tft.DefaultSPIConfig
	config.Port = *portFlag
	config.Speed = physic.Frequency(*speedFlag) * physic.MegaHertz
	config.Reset = gpioreg.ByName(*resetPinFlag)
	config.DC = gpioreg.ByName(*dcPinFlag)
	conn, err := tft.OpenSPI(&config)
	if err != nil {
		_ = fb.Close()
		fatal(err)
	}

	output, err := tft.New(conn, ctrl, &tft.Config{
		Rotation:  rotation,
		BGR:       *bgrFlag,
		Backlight: gpioreg.ByName(*blPinFlag),
	})
	if err != nil {
		_ = conn.Close()
		_ = fb.Close()
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using driver: %s\n", output)

	var (
		src    = fb.Image()
		dst    = output.Image()
		ticker = time.NewTicker(*intervalFlag)
		stop   = make(chan os.Signal, 1)
	)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if src.Bounds().Size() != dst.Bounds().Size() {
		fmt.Printf("framebuffer is %s, panel is %s: clipping\n", src.Bounds().Size(), dst.Bounds().Size())
	}

	fmt.Println("hit control-c to stop...")
	err = mirror(output, dst, src, ticker.C, stop)
	ticker.Stop()
	signal.Stop(stop)
	if err != nil {
		_ = output.Close()
		_ = fb.Close()
		fatal(err)
	}
}

type rowUpdater interface {
	UpdateRows(first, last int) error
}

// mirror copies changed rows of src into dst and flushes them with output on every tick. It
// returns when stop fires or when a flush fails.
func mirror(output rowUpdater, dst *pixel.CRGB16Image, src pixel.Image, tick <-chan time.Time, stop <-chan os.Signal) error {
	var tracker framebuffer.Tracker
	for {
		if first, last, changed := tracker.Update(framebuffer.Buffer(src)); changed {
			if last >= dst.Rect.Dy() {
				last = dst.Rect.Dy() - 1
			}
			if first <= last {
				copyRows(dst, src, first, last)
				if err := output.UpdateRows(first, last); err != nil {
					return err
				}
			}
		}

		select {
		case <-stop:
			return nil
		case <-tick:
		}
	}
}

// copyRows copies rows first through last of src into the panel frame buffer.
func copyRows(dst *pixel.CRGB16Image, src pixel.Image, first, last int) {
	r := image.Rect(0, first, dst.Rect.Dx(), last+1).Intersect(src.Bounds())
	im, ok := src.(*pixel.CRGB16Image)
	if !ok {
		draw.Draw(dst, r, src, r.Min, draw.Src)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := im.Order.Uint16(im.Pix[im.PixOffset(x, y):])
			binary.BigEndian.PutUint16(dst.Pix[dst.PixOffset(x, y):], v)
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
