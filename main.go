package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/fps-meter-go/app"
	"github.com/soocke/fps-meter-go/app/gui"
	"github.com/soocke/fps-meter-go/config"
	"github.com/soocke/fps-meter-go/ui/theme"
)

func main() {
	cfgPath := flag.String("config", "fps-meter.yaml", "configuration file (.yaml, .yml or .json)")
	headless := flag.Bool("headless", false, "measure without a window and log the statistics")
	duration := flag.Duration("duration", 0, "headless: stop after this long (0 runs until interrupted)")
	debugFlag := flag.Bool("debug", false, "verbose logging and periodic runtime statistics")
	export := flag.String("export", "", "write the frame history as PNG to this path on exit (headless) or from the Export button")
	src := flag.String("source", "", "frame source: animation, ticker or capture")
	writeCfg := flag.Bool("write-config", false, "write the effective configuration to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	// Set up logger
	level := slog.LevelInfo
	if *debugFlag || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Error("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	if *debugFlag {
		cfg.Debug = true
	}
	if *export != "" {
		cfg.ExportPath = *export
	}
	if *src != "" {
		cfg.Source = *src
	}
	if *headless && cfg.Source == config.SourceAnimation {
		cfg.Source = config.SourceTicker
	}
	if *writeCfg {
		if err := cfg.Save(*cfgPath); err != nil {
			logger.Error("config save failed", "path", *cfgPath, "error", err)
			os.Exit(1)
		}
		logger.Info("config written", "path", *cfgPath)
		return
	}

	c, err := app.BuildContainer(cfg, logger, theme.ChartStyle())
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		logger.Info("headless run", "source", cfg.Source, "batch", cfg.Batch, "duration", duration.String())
		err := app.RunHeadless(ctx, c, app.HeadlessOptions{Duration: *duration, Export: *export != ""})
		if err != nil {
			logger.Error("headless run failed", "error", err)
			stop()
			os.Exit(1)
		}
		return
	}

	start := time.Now()
	gui.New(ctx, "FPS Meter", c).Run()
	logger.Info("window closed", "uptime", time.Since(start).Round(time.Second).String())
}
