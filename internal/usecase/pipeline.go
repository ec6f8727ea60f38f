package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Book      domain.BookInfo
	Source    ports.ArticleSource
	Bodies    ports.BodyAssembler
	Publisher ports.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline implements the feed-building workflow.
type Pipeline struct {
	book      domain.BookInfo
	source    ports.ArticleSource
	bodies    ports.BodyAssembler
	publisher ports.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewPipeline constructs the orchestration component. A nil Bodies leaves
// article content to the rendering pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		book:      deps.Book,
		source:    deps.Source,
		bodies:    deps.Bodies,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       now,
	}
}

// Run collects article references, optionally assembles their bodies and
// publishes the resulting feed. A single article failing never aborts the run.
func (p *Pipeline) Run(ctx context.Context) (domain.Feed, error) {
	log := p.logger
	if log != nil {
		log = log.With("run_id", uuid.NewString())
	}

	feed := domain.Feed{Book: p.book, GeneratedAt: p.now().UTC()}
	if p.source == nil {
		return feed, nil
	}

	refs, err := p.source.FetchFeeds(ctx)
	if err != nil {
		return feed, fmt.Errorf("fetch feeds: %w", err)
	}
	info(log, "feeds collected", "articles", len(refs))

	if p.bodies != nil {
		refs = p.assembleBodies(ctx, log, refs)
	}
	feed.Articles = refs

	if p.publisher == nil {
		return feed, nil
	}
	if err := p.publisher.Publish(ctx, feed); err != nil {
		return feed, fmt.Errorf("publish feed: %w", err)
	}
	info(log, "feed published", "articles", len(feed.Articles))
	return feed, nil
}

func (p *Pipeline) assembleBodies(ctx context.Context, log *slog.Logger, refs []domain.ArticleRef) []domain.ArticleRef {
	kept := make([]domain.ArticleRef, 0, len(refs))
	for _, ref := range refs {
		article, err := p.bodies.Assemble(ctx, ref)
		if err != nil && !article.Partial {
			if log != nil {
				log.Warn("drop article", "link", ref.Link, "error", err)
			}
			continue
		}
		if err != nil && log != nil {
			log.Warn("partial article body", "link", ref.Link, "error", err)
		}

		if article.Title != "" {
			ref.Title = article.Title
		}
		ref.Content = article.Content
		kept = append(kept, ref)
	}
	return kept
}

func info(log *slog.Logger, msg string, args ...any) {
	if log != nil {
		log.Info(msg, args...)
	}
}
