// Command gpudevinfo opens a GPU device and prints its capabilities.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gpudev"
	"github.com/gogpu/gpudev/driver"
	_ "github.com/gogpu/gpudev/driver/soft"
	_ "github.com/gogpu/gpudev/driver/wgpu"
)

func main() {
	var (
		driverName = flag.String("driver", "", "driver to open (default: best available)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	fmt.Println("Registered drivers:")
	for _, name := range driver.Available() {
		fmt.Printf("  %s\n", name)
	}

	opts := gpudev.Options{Driver: *driverName}
	if *verbose {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	dev, err := gpudev.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer dev.Close()

	limits := dev.Limits()
	fmt.Printf("\nOpened driver: %s\n", dev.DriverName())
	fmt.Printf("  max buffer size:       %d\n", limits.MaxBufferSize)
	fmt.Printf("  max 2D texture extent: %d\n", limits.MaxTextureDimension2D)
}
