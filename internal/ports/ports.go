package ports

import (
	"context"
	"time"

	"ChinaDailyFeed/internal/domain"
)

// Fetcher performs a GET with the headers and timeout it was configured with.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (domain.Response, error)
}

// ArticleSource collects article references for every configured topic.
type ArticleSource interface {
	FetchFeeds(ctx context.Context) ([]domain.ArticleRef, error)
}

// BodyAssembler fetches and preprocesses the full body of one article.
type BodyAssembler interface {
	Assemble(ctx context.Context, ref domain.ArticleRef) (domain.Article, error)
}

// Publisher hands the finished feed to the rendering pipeline.
type Publisher interface {
	Publish(ctx context.Context, feed domain.Feed) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
