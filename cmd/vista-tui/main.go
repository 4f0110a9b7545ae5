// Vista TUI — the interactive terminal dashboard for RebarVista
// analysis devices.
//
// Usage:
//
//	vista-tui [flags]
//
// Flags:
//
//	--device   Device base URL (default from VISTA_DEVICE_URL)
//
// Set VISTA_DEBUG=1 to write debug logs to vista-debug.log.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebarvista/vista/internal/config"
	"github.com/rebarvista/vista/internal/device"
	"github.com/rebarvista/vista/internal/push"
	"github.com/rebarvista/vista/internal/tui"
)

func main() {
	cfg := config.Load()

	deviceURL := flag.String("device", "", "Device base URL (default from VISTA_DEVICE_URL)")
	flag.Parse()
	if *deviceURL != "" {
		cfg.DeviceURL = *deviceURL
		cfg.PushURL = ""
	}

	// The standard logger shares the terminal with the TUI, so it
	// either goes to a file or nowhere.
	if os.Getenv("VISTA_DEBUG") != "" {
		f, err := tea.LogToFile("vista-debug.log", "vista")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client := device.NewClient(cfg.DeviceURL, cfg.RequestTimeout)
	model := tui.NewModel(cfg, client)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Bridge push-channel events into the Bubble Tea loop. The
	// listener goroutine never touches model state directly; every
	// event goes through Program.Send and lands in Update.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runPushBridge(ctx, cfg, p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}

// runPushBridge keeps a push-channel listener alive, redialing after
// drops. The dashboard stays usable in between off its periodic poll.
func runPushBridge(ctx context.Context, cfg *config.Config, p *tea.Program) {
	url := cfg.ResolvedPushURL()
	if url == "" {
		return
	}

	listener := push.NewListener(url, func(ev push.Event) {
		p.Send(tui.PushMsg{Event: ev})
	})

	for {
		err := listener.Listen(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("[WARN] push channel down: %v", err)
		p.Send(tui.PushLostMsg{Err: err})

		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.PollInterval):
		}
	}
}
