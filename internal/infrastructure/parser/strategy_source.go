package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
	"ChinaDailyFeed/internal/scanner"
)

// Limits bounds each topic traversal.
type Limits struct {
	MaxArticlesPerFeed int
	OldestArticle      int
}

// StrategySource implements ArticleSource by walking every topic of a FeedSource.
type StrategySource struct {
	source scanner.FeedSource
	walker *scanner.Walker
	limits Limits
	logger *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires a FeedSource with the walker that traverses its topics.
func NewStrategySource(source scanner.FeedSource, walker *scanner.Walker, limits Limits, log *slog.Logger) *StrategySource {
	return &StrategySource{
		source: source,
		walker: walker,
		limits: limits,
		logger: log,
	}
}

// FetchFeeds collects article references topic by topic. A topic that fails
// midway keeps its partial results and never stops the remaining topics.
func (s *StrategySource) FetchFeeds(ctx context.Context) ([]domain.ArticleRef, error) {
	if s.source == nil || s.walker == nil {
		return nil, fmt.Errorf("feed source is not configured")
	}

	feeds := s.source.ListFeeds()
	s.debug("fetch feeds", "source", s.source.Name(), "feeds", len(feeds))

	var aggregated []domain.ArticleRef
	for _, feed := range feeds {
		if err := ctx.Err(); err != nil {
			s.debug("fetch feeds interrupted", "error", err)
			break
		}

		refs := s.walker.CollectTopicArticles(ctx, feed.Topic, feed.URL,
			s.limits.MaxArticlesPerFeed, s.limits.OldestArticle)
		s.debug("topic produced articles", "topic", feed.Topic, "count", len(refs))
		aggregated = append(aggregated, refs...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
