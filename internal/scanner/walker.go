package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
)

// Walker follows a topic's listing pages and accumulates article references.
type Walker struct {
	fetcher  ports.Fetcher
	source   FeedSource
	logger   *slog.Logger
	maxPages int
	now      func() time.Time
}

// NewWalker wires the fetch collaborator and site rules; maxPages <= 0 uses DefaultMaxPages.
func NewWalker(fetcher ports.Fetcher, source FeedSource, maxPages int, logger *slog.Logger) *Walker {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Walker{
		fetcher:  fetcher,
		source:   source,
		logger:   logger,
		maxPages: maxPages,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CollectTopicArticles walks listing pages starting at startURL until limit
// entries have been seen or no "Next" page exists. Entries older than the
// oldest threshold are skipped but still count toward the limit. A failed
// fetch ends the walk and keeps whatever was gathered so far.
func (w *Walker) CollectTopicArticles(ctx context.Context, topic, startURL string, limit, oldest int) []domain.ArticleRef {
	var (
		refs    []domain.ArticleRef
		count   int
		pageURL = startURL
		visited = map[string]struct{}{}
	)

	for page := 0; pageURL != ""; page++ {
		if page >= w.maxPages {
			w.warn("listing page limit reached", "topic", topic, "url", pageURL, "pages", w.maxPages)
			break
		}
		if _, seen := visited[pageURL]; seen {
			w.warn("listing pagination loops", "topic", topic, "url", pageURL)
			break
		}
		visited[pageURL] = struct{}{}

		doc, base, err := w.fetchListing(ctx, pageURL)
		if err != nil {
			w.warn("fetch listing failed", "status", describe(err), "url", pageURL)
			break
		}
		visited[base] = struct{}{}

		listing := w.source.ExtractListing(doc)
		now := w.now()
		full := false
		for _, entry := range listing.Entries {
			link, err := ResolveLink(base, entry.Href)
			if err != nil {
				w.debug("skip entry", "topic", topic, "url", pageURL, "error", err)
				continue
			}

			count++
			if count > limit {
				full = true
				break
			}
			if TooOld(now, entry.PublishedAt, oldest) {
				w.debug("skip outdated entry", "topic", topic, "link", link)
				continue
			}

			refs = append(refs, domain.ArticleRef{
				Topic: topic,
				Title: w.source.CleanTitle(entry.Title),
				Link:  link,
			})
		}

		if full || listing.Next == "" || count >= limit {
			break
		}

		next, err := ResolveLink(base, listing.Next)
		if err != nil {
			w.warn("invalid next page link", "topic", topic, "url", pageURL, "error", err)
			break
		}
		pageURL = next
	}

	w.debug("topic collected", "topic", topic, "seen", count, "kept", len(refs))
	return refs
}

func (w *Walker) fetchListing(ctx context.Context, pageURL string) (*goquery.Document, string, error) {
	return fetchDocument(ctx, w.fetcher, pageURL)
}

// fetchDocument parses the page at pageURL and returns it with the URL it was
// served from.
func fetchDocument(ctx context.Context, fetcher ports.Fetcher, pageURL string) (*goquery.Document, string, error) {
	resp, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}
	if !resp.OK() {
		return nil, "", &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, resp.BaseURL(pageURL), nil
}

func describe(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status()
	}
	return err.Error()
}

func (w *Walker) warn(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}

func (w *Walker) debug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
