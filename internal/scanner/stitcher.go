package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/ports"
)

// Stitcher merges the pages of a paginated article into one content container.
type Stitcher struct {
	fetcher  ports.Fetcher
	source   FeedSource
	logger   *slog.Logger
	maxPages int
}

// NewStitcher wires the fetch collaborator and site rules; maxPages <= 0 uses DefaultMaxPages.
func NewStitcher(fetcher ports.Fetcher, source FeedSource, maxPages int, logger *slog.Logger) *Stitcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Stitcher{fetcher: fetcher, source: source, logger: logger, maxPages: maxPages}
}

// AssembleArticleBody follows "Next" links from initial and returns the last
// page's content container holding every fragment in page order. On error the
// container gathered so far is returned together with the error.
func (s *Stitcher) AssembleArticleBody(ctx context.Context, initial ArticlePage) (*goquery.Selection, error) {
	if initial.Content == nil || initial.Content.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", initial.URL, ErrContentMissing)
	}

	current := initial
	visited := map[string]struct{}{current.URL: {}}
	for pages := 1; current.Next != ""; pages++ {
		if pages >= s.maxPages {
			return current.Content, fmt.Errorf("%s after %d pages: %w", initial.URL, pages, ErrPageLimit)
		}

		nextURL, err := ResolveLink(current.URL, current.Next)
		if err != nil {
			return current.Content, fmt.Errorf("next page of %s: %w", current.URL, err)
		}
		if _, seen := visited[nextURL]; seen {
			return current.Content, fmt.Errorf("%s links back to %s: %w", current.URL, nextURL, ErrPageLimit)
		}
		visited[nextURL] = struct{}{}

		doc, base, err := fetchDocument(ctx, s.fetcher, nextURL)
		if err != nil {
			return current.Content, err
		}

		next, err := s.source.ExtractBody(doc)
		if err != nil {
			return current.Content, fmt.Errorf("%s: %w", nextURL, err)
		}
		next.URL = base
		visited[base] = struct{}{}

		fragment, err := current.Content.Html()
		if err != nil {
			return current.Content, fmt.Errorf("render fragment of %s: %w", current.URL, err)
		}
		next.Content.PrependHtml(fragment)

		if s.logger != nil {
			s.logger.Debug("stitched article page", "url", nextURL, "page", pages+1)
		}
		current = next
	}

	return current.Content, nil
}

// RenderContent serializes a content container back to markup.
func RenderContent(sel *goquery.Selection) (string, error) {
	if sel == nil || sel.Length() == 0 {
		return "", ErrContentMissing
	}
	return goquery.OuterHtml(sel)
}
