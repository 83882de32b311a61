package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/pixel-motion-go/app"
	"github.com/soocke/pixel-motion-go/config"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and memory loggers")
	viewerFlag := flag.String("viewer", "", "front end: tk or ebiten (overrides config)")
	statusAddr := flag.String("status-addr", "", "serve the websocket status feed on this address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	// flag values apply to this run and are never saved
	cfg.ApplyOverrides(config.Overrides{Debug: *debugFlag, Viewer: *viewerFlag, StatusAddr: *statusAddr})
	_ = cfg.Validate()
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "error", err, "path", *cfgPath)
	}

	if err := app.Run("Pixel Motion", 960, 820, cfg, *cfgPath, logger); err != nil {
		logger.Error("app exited", "error", err)
		os.Exit(1)
	}
}
