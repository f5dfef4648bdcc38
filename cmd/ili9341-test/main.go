package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/tft"
	"github.com/BeatGlow/tft/draw"
	"github.com/BeatGlow/tft/pixel"
)

func main() {
	controllerFlag := flag.String("controller", "ili9341", "Display controller")
	portFlag := flag.String("port", "", "SPI port name or spidev path (default: use first available)")
	speedFlag := flag.Int64("speed", 32, "SPI clock in MHz")
	threeWireFlag := flag.Bool("3wire", false, "Use 9-bit 3-wire SPI (no DC pin)")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	blPinFlag := flag.String("bl", "GPIO19", "Backlight GPIO pin")
	rotateFlag := flag.Int("rotate", 0, "Display rotation in degrees (0, 90, 180 or 270)")
	bgrFlag := flag.Bool("bgr", true, "Panel uses BGR color order")
	expandFlag := flag.String("expand", "", "Expand pixels to 18 bits (shift or replicate)")
	gammaFlag := flag.String("gamma", "", "File with gamma curves")
	barsFlag := flag.Duration("bars", 2*time.Second, "Time to show each set of color bars")
	flag.Parse()

	rotation, err := tft.RotationFromDegrees(*rotateFlag)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using rotation: %s\n", rotation)

	ctrl, err := tft.ControllerByName(*controllerFlag)
	if err != nil {
		fatal(err)
	}

	expander, err := pixel.ExpanderByName(*expandFlag)
	if err != nil {
		fatal(err)
	}

	var gamma tft.Gamma
	if *gammaFlag != "" {
		b, err := os.ReadFile(*gammaFlag)
		if err != nil {
			fatal(err)
		}
		desc := ctrl.Descriptor()
		if gamma, err = tft.ParseGamma(string(b), desc.GammaCurves, desc.GammaValues); err != nil {
			fatal(err)
		}
	}

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	config := tft.DefaultSPIConfig
	config.Port = *portFlag
	config.Speed = physic.Frequency(*speedFlag) * physic.MegaHertz
	config.ThreeWire = *threeWireFlag
	config.Reset = gpioreg.ByName(*resetPinFlag)
	if !*threeWireFlag {
		config.DC = gpioreg.ByName(*dcPinFlag)
	}
	conn, err := tft.OpenSPI(&config)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", conn)

	output, err := tft.New(conn, ctrl, &tft.Config{
		Rotation:  rotation,
		BGR:       *bgrFlag,
		Gamma:     gamma,
		Expander:  expander,
		Backlight: gpioreg.ByName(*blPinFlag),
	})
	if err != nil {
		_ = conn.Close()
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using driver: %s\n", output)

	r := output.Bounds()
	for _, bgr := range []bool{false, true} {
		mode := "RGB"
		if bgr {
			mode = "BGR"
		}
		fmt.Printf("color bars (mode: %s): red, green, blue, magenta\n", mode)
		draw.ColorBars(output, r, bgr)
		if err = output.Refresh(); err != nil {
			_ = output.Close()
			fatal(err)
		}
		time.Sleep(*barsFlag)
	}

	face, err := draw.Face(16)
	if err != nil {
		_ = output.Close()
		fatal(err)
	}

	// Draw box around edge
	output.Clear()
	draw.Rectangle(output, r, color.White)

	var (
		inner  = r.Inset(1)
		title  = fmt.Sprintf("%s %dx%d", strings.ToUpper(*controllerFlag), r.Dx(), r.Dy())
		offset int
		ticker = time.NewTicker(50 * time.Millisecond)
		stop   = make(chan os.Signal, 1)
		frames int
		start  = time.Now()
	)
	defer ticker.Stop()
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	fmt.Println("hit control-c to stop...")
	for {
		draw.Gradient(output, inner, offset)
		box := draw.Label(output, face, image.Pt(8, 8), title, color.White)
		draw.Label(output, face, image.Pt(8, box.Max.Y+4), fmt.Sprintf("%.1f fps", fps(frames, start)), color.White)

		if err = output.Refresh(); err != nil {
			_ = output.Close()
			fatal(err)
		}
		frames++
		offset++

		select {
		case <-stop:
			fmt.Println("stopping")
			return
		case <-ticker.C:
		}
	}
}

func fps(frames int, start time.Time) float64 {
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		return float64(frames) / elapsed
	}
	return 0
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
