package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ChinaDailyFeed/internal/config"
	"ChinaDailyFeed/internal/infrastructure/httpfetch"
	"ChinaDailyFeed/internal/infrastructure/output"
	"ChinaDailyFeed/internal/infrastructure/parser"
	"ChinaDailyFeed/internal/infrastructure/scheduler"
	"ChinaDailyFeed/internal/logging"
	"ChinaDailyFeed/internal/ports"
	"ChinaDailyFeed/internal/scanner"
	"ChinaDailyFeed/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance publishing to out.
func New(cfg config.Config, baseLogger *slog.Logger, out io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	fetcher := httpfetch.New(nil, httpfetch.Options{
		Timeout:  cfg.HTTP.Timeout,
		Headers:  cfg.HTTP.Headers,
		Encoding: cfg.Site.PageEncoding,
	})

	source := parser.NewChinaDailySource(cfg.Site.Feeds, baseLogger.With("component", "source.chinadaily"))
	walker := scanner.NewWalker(fetcher, source, cfg.HTTP.MaxPages, baseLogger.With("component", "walker"))
	articles := parser.NewStrategySource(source, walker, parser.Limits{
		MaxArticlesPerFeed: cfg.Site.MaxArticlesPerFeed,
		OldestArticle:      cfg.Site.OldestArticle,
	}, baseLogger.With("component", "strategy"))

	var bodies ports.BodyAssembler
	if cfg.Output.IncludeBodies {
		stitcher := scanner.NewStitcher(fetcher, source, cfg.HTTP.MaxPages, baseLogger.With("component", "stitcher"))
		bodies = parser.NewBodyAssembler(fetcher, source, stitcher, parser.BodyOptions{
			KeepOnlyTags: cfg.Site.KeepOnlyTags,
			Readability:  cfg.Site.FulltextByReadability,
			KeepPartial:  cfg.Output.KeepPartialBodies,
		}, baseLogger.With("component", "bodies"))
	}

	publisher, err := output.NewPublisher(out, cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Book:      cfg.Book,
		Source:    articles,
		Bodies:    bodies,
		Publisher: publisher,
		Logger:    baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run builds and publishes the feed once.
func (a *Application) Run(ctx context.Context) error {
	_, err := a.pipeline.Run(ctx)
	return err
}

// RunScheduled builds the feed immediately and then on the configured cron
// expression until ctx is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.Run(ctx); err != nil {
		a.logger.Error("initial run failed", "error", err)
	}

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location(),
		a.logger.With("component", "scheduler"))
	sched := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}
