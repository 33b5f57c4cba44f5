// chasecam: spectator camera director for a game host
// Serves the host websocket, the control API and a status feed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-chasecam/internal/config"
	"github.com/teslashibe/go-chasecam/internal/log"
	"github.com/teslashibe/go-chasecam/pkg/bridge"
	"github.com/teslashibe/go-chasecam/pkg/campath"
	"github.com/teslashibe/go-chasecam/pkg/director"
)

var (
	version  = "0.1.0"
	port     = flag.Int("port", 0, "HTTP server port (default $CHASECAM_PORT or 7460)")
	presets  = flag.String("presets", "", "presets YAML file (default $CHASECAM_CONFIG)")
	pathFile = flag.String("campath", "", "camera path YAML to load at startup")
	debug    = flag.Bool("debug", false, "log every HTTP request and debug output")
)

func main() {
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	if *port == 0 {
		*port = config.Port(config.DefaultPort)
	}
	if *presets == "" {
		*presets = config.PresetsPath()
	}

	store, err := config.NewStore(*presets)
	if err != nil {
		log.Error("load presets", "path", *presets, "error", err)
		os.Exit(1)
	}

	srv := bridge.New(store, bridge.Config{Version: version, Debug: *debug})

	// Edits to the presets file retune a live lock. Pursuit and transit
	// runs keep the values they started with.
	store.OnChange(func(p director.Presets) {
		srv.Director().WithCurrent(func(m director.Mode) {
			if l, ok := m.(*director.Lock); ok {
				l.Reconfigure(p.Lock)
			}
		})
	})

	if *pathFile != "" {
		p, err := campath.Load(*pathFile)
		if err != nil {
			log.Error("load camera path", "path", *pathFile, "error", err)
			os.Exit(1)
		}
		srv.SetPath(p)
		log.Info("camera path loaded", "path", *pathFile, "keys", p.Len())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Watch(ctx, store); err != nil {
		log.Warn("presets watcher disabled", "path", store.Path(), "error", err)
	}

	log.Info("chasecam starting",
		"version", version,
		"port", *port,
		"presets", store.Path(),
		"host_ws", fmt.Sprintf("ws://localhost:%d/ws/host", *port),
		"status_ws", fmt.Sprintf("ws://localhost:%d/ws/status", *port))

	if err := srv.Run(ctx, fmt.Sprintf(":%d", *port)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("chasecam stopped")
}
