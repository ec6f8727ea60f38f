package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ChinaDailyFeed/internal/app"
	"ChinaDailyFeed/internal/config"
	"ChinaDailyFeed/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration (defaults to $CHINADAILY_FEED_CONFIG)")
	format := flag.String("format", "", "output format: json or yaml (overrides config)")
	bodies := flag.Bool("bodies", false, "fetch and stitch article bodies")
	schedule := flag.Bool("schedule", false, "keep running and rebuild on the configured cron expression")
	flag.Parse()

	cfg := config.Load()
	if *configPath != "" {
		cfg = config.LoadFile(*configPath)
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *bodies {
		cfg.Output.IncludeBodies = true
	}
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	run := application.Run
	if *schedule {
		run = application.RunScheduled
	}
	if err := run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
