// Vista CLI — command-line access to a RebarVista analysis device.
//
// Usage:
//
//	vista <command> [flags]
//
// Commands:
//
//	status    Probe device connectivity
//	latest    Show the latest capture results
//	capture   Trigger a capture and analysis run
//	config    Read or update device settings
//	export    Write the latest results to a file
//	version   Print version information
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rebarvista/vista/internal/config"
	"github.com/rebarvista/vista/internal/device"
	"github.com/rebarvista/vista/internal/export"
	"github.com/rebarvista/vista/internal/session"
	"github.com/rebarvista/vista/pkg/jsonutil"
	"github.com/rebarvista/vista/pkg/timeutil"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	switch os.Args[1] {
	case "status":
		cmdStatus(cfg)
	case "latest":
		cmdLatest(cfg)
	case "capture":
		cmdCapture(cfg)
	case "config":
		cmdConfig(cfg)
	case "export":
		cmdExport(cfg)
	case "version":
		fmt.Printf("Vista v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Vista — dashboard client for RebarVista analysis devices

Usage:
  vista <command> [flags]

Commands:
  status     Probe device connectivity
  latest     Show the latest capture results
  capture    Trigger a capture and analysis run
  config     Read or update device settings
  export     Write the latest results to a file
  version    Print version information

The device URL comes from VISTA_DEVICE_URL (or a .env file) and can be
overridden per command with --device.

Run 'vista <command> --help' for details on each command.`)
}

// newClient builds a device client, honoring a --device override.
func newClient(cfg *config.Config, deviceURL string) *device.Client {
	url := cfg.DeviceURL
	if deviceURL != "" {
		url = deviceURL
	}
	return device.NewClient(url, cfg.RequestTimeout)
}

func requestCtx(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.RequestTimeout)
}

// cmdStatus probes the device liveness endpoint.
func cmdStatus(cfg *config.Config) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	fs.Parse(os.Args[2:])

	client := newClient(cfg, *deviceURL)
	ctx, cancel := requestCtx(cfg)
	defer cancel()

	connected, err := client.ConnectionStatus(ctx)
	if err != nil {
		fmt.Printf("✗ Device at %s is unreachable.\n", client.BaseURL())
		fmt.Printf("  %v\n", err)
		os.Exit(1)
	}
	if !connected {
		fmt.Printf("✗ Device at %s reports disconnected.\n", client.BaseURL())
		os.Exit(1)
	}
	fmt.Printf("✓ Device at %s is connected.\n", client.BaseURL())
}

// cmdLatest fetches and prints the latest capture session.
func cmdLatest(cfg *config.Config) {
	fs := flag.NewFlagSet("latest", flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	format := fs.String("format", "table", "Output format: table, json")
	fs.Parse(os.Args[2:])

	client := newClient(cfg, *deviceURL)
	ctx, cancel := requestCtx(cfg)
	defer cancel()

	data, err := client.LatestData(ctx)
	if err != nil {
		log.Fatalf("Fetching latest data failed: %v", err)
	}

	switch *format {
	case "json":
		b, _ := json.Marshal(data)
		fmt.Println(jsonutil.Pretty(b))
	case "table":
		printSession(data)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", *format)
		os.Exit(1)
	}
}

// printSession renders a capture session the way the dashboard does.
func printSession(data *device.LatestData) {
	if len(data.Segments) == 0 {
		fmt.Println("No analysis results on the device yet.")
		return
	}

	st := session.NewState()
	st.ApplyLatest(st.BeginRefresh(), data)

	if ts := st.Timestamp(); ts != "" {
		fmt.Printf("Captured: %s\n\n", timeutil.FormatCaptureStamp(ts))
	}

	fmt.Printf("%-12s %12s %11s %12s %12s\n",
		"Segment No.", "Volume (cc)", "Width (cm)", "Length (cm)", "Height (cm)")
	for _, r := range st.Rows() {
		fmt.Printf("%-12s %12s %11s %12s %12s\n",
			r.Section, r.Volume, r.Width, r.Length, r.Height)
	}
	fmt.Printf("\n%s\n", st.TotalLabel())
}

// cmdCapture triggers a capture run; with --wait it watches for the
// asynchronously produced result.
func cmdCapture(cfg *config.Config) {
	fs := flag.NewFlagSet("capture", flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	wait := fs.Bool("wait", false, "Wait for the analysis result and print it")
	fs.Parse(os.Args[2:])

	client := newClient(cfg, *deviceURL)

	// Snapshot the current session so a result can be told apart from
	// whatever was already on the device.
	var before string
	{
		ctx, cancel := requestCtx(cfg)
		if data, err := client.LatestData(ctx); err == nil {
			before = data.Timestamp
		}
		cancel()
	}

	ctx, cancel := requestCtx(cfg)
	err := client.TriggerCapture(ctx)
	cancel()
	if err != nil {
		var devErr *device.DeviceError
		if errors.As(err, &devErr) {
			log.Fatalf("Capture failed: %s", devErr.Message)
		}
		log.Fatalf("Capture request failed: %v", err)
	}

	if !*wait {
		fmt.Println("Capture triggered.")
		return
	}

	fmt.Println("Capture triggered, waiting for the result...")
	time.Sleep(cfg.ResultDelay)

	deadline := time.Now().Add(cfg.WatchWindow)
	for {
		ctx, cancel := requestCtx(cfg)
		data, err := client.LatestData(ctx)
		cancel()
		if err == nil && data.Timestamp != "" && data.Timestamp != before {
			fmt.Println()
			printSession(data)
			return
		}
		if time.Now().After(deadline) {
			fmt.Println("Timed out waiting for a result. Check the device with 'vista latest'.")
			os.Exit(1)
		}
		time.Sleep(cfg.ResultDelay)
	}
}

// cmdConfig reads or updates the device settings.
func cmdConfig(cfg *config.Config) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: vista config <get|set> [flags]")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "get":
		cmdConfigGet(cfg)
	case "set":
		cmdConfigSet(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func cmdConfigGet(cfg *config.Config) {
	fs := flag.NewFlagSet("config get", flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	fs.Parse(os.Args[3:])

	client := newClient(cfg, *deviceURL)
	ctx, cancel := requestCtx(cfg)
	defer cancel()

	s, err := client.GetConfig(ctx)
	if err != nil {
		log.Fatalf("Reading device config failed: %v", err)
	}
	fmt.Println(jsonutil.Pretty([]byte(jsonutil.MustMarshal(s))))
}

func cmdConfigSet(cfg *config.Config) {
	fs := flag.NewFlagSet("config set", flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	threshold := fs.Float64("threshold", 0, "Detection threshold (0.1 to 0.9 in 0.05 steps)")
	camera := fs.Bool("camera", false, "Enable or disable the camera")
	fs.Parse(os.Args[3:])

	client := newClient(cfg, *deviceURL)

	// The device expects the full settings object, so start from the
	// current values and overlay only the flags that were given.
	ctx, cancel := requestCtx(cfg)
	current, err := client.GetConfig(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Reading device config failed: %v", err)
	}

	next := *current
	changed := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			next.DetectionThreshold = *threshold
			changed = true
		case "camera":
			next.CameraEnabled = *camera
			changed = true
		}
	})
	if !changed {
		fmt.Fprintln(os.Stderr, "Nothing to change; pass --threshold and/or --camera.")
		os.Exit(1)
	}

	ctx, cancel = requestCtx(cfg)
	defer cancel()
	if err := client.SetConfig(ctx, next); err != nil {
		var devErr *device.DeviceError
		if errors.As(err, &devErr) {
			log.Fatalf("Device rejected the update: %s", devErr.Message)
		}
		log.Fatalf("Updating device config failed: %v", err)
	}
	fmt.Printf("Settings updated: threshold %.2f, camera %v.\n",
		device.NormalizeThreshold(next.DetectionThreshold), next.CameraEnabled)
}

// cmdExport writes the latest session to a file.
func cmdExport(cfg *config.Config) {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: vista export <csv|image|report> [flags]")
		os.Exit(1)
	}
	kind := os.Args[2]

	fs := flag.NewFlagSet("export "+kind, flag.ExitOnError)
	deviceURL := fs.String("device", "", "Device base URL (default from environment)")
	outDir := fs.String("out", cfg.ExportDir, "Output directory")
	fs.Parse(os.Args[3:])

	client := newClient(cfg, *deviceURL)
	ctx, cancel := requestCtx(cfg)
	data, err := client.LatestData(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Fetching latest data failed: %v", err)
	}

	st := session.NewState()
	token := st.BeginRefresh()
	st.ApplyLatest(token, data)

	if data.HasImage {
		ctx, cancel := requestCtx(cfg)
		img, err := client.LatestImage(ctx)
		cancel()
		if err == nil {
			st.ApplyImage(token, img)
		} else if kind == "image" {
			log.Fatalf("Fetching image failed: %v", err)
		}
	}

	var path string
	switch kind {
	case "csv":
		path, err = export.WriteCSV(*outDir, time.Now(), st.Rows(), st.TotalText())
	case "image":
		path, err = export.WriteImage(*outDir, time.Now(), st.Rows(), st.Image())
	case "report":
		if len(st.Rows()) == 0 {
			log.Fatal(export.ErrNoSegments)
		}
		path, err = export.WriteReport(*outDir, export.Report{
			CaptureLabel: timeutil.FormatCaptureStamp(st.Timestamp()),
			GeneratedAt:  time.Now(),
			Rows:         st.Rows(),
			TotalLabel:   st.TotalLabel(),
			Image:        st.Image(),
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown export kind: %s\n", kind)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Printf("Exported %s\n", path)
}
