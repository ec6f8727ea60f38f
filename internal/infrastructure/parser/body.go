package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
	"ChinaDailyFeed/internal/scanner"
)

// BodyOptions selects how the stitched article page is reduced to its content.
type BodyOptions struct {
	KeepOnlyTags []domain.TagSelector
	Readability  bool
	KeepPartial  bool
}

// BodyAssembler fetches an article, stitches its pages together and keeps the
// configured regions.
type BodyAssembler struct {
	fetcher  ports.Fetcher
	source   scanner.FeedSource
	stitcher *scanner.Stitcher
	opts     BodyOptions
	logger   *slog.Logger
}

var _ ports.BodyAssembler = (*BodyAssembler)(nil)

// NewBodyAssembler wires the fetch collaborator, site rules and stitcher.
func NewBodyAssembler(fetcher ports.Fetcher, source scanner.FeedSource, stitcher *scanner.Stitcher, opts BodyOptions, logger *slog.Logger) *BodyAssembler {
	return &BodyAssembler{
		fetcher:  fetcher,
		source:   source,
		stitcher: stitcher,
		opts:     opts,
		logger:   logger,
	}
}

// Assemble returns the preprocessed body of ref. A failure while following the
// article's pagination is returned; with KeepPartial set the partial body is
// returned as well, marked Partial.
func (b *BodyAssembler) Assemble(ctx context.Context, ref domain.ArticleRef) (domain.Article, error) {
	article := domain.Article{Ref: ref, Title: b.source.CleanTitle(ref.Title)}

	resp, err := b.fetcher.Fetch(ctx, ref.Link)
	if err != nil {
		return article, &scanner.FetchError{URL: ref.Link, StatusCode: resp.StatusCode, Err: err}
	}
	if !resp.OK() {
		return article, &scanner.FetchError{URL: ref.Link, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return article, fmt.Errorf("parse %s: %w", ref.Link, err)
	}

	page, err := b.source.ExtractBody(doc)
	if err != nil {
		return article, fmt.Errorf("%s: %w", ref.Link, err)
	}
	page.URL = resp.BaseURL(ref.Link)

	content, stitchErr := b.stitcher.AssembleArticleBody(ctx, page)
	if stitchErr != nil {
		if !b.opts.KeepPartial || content == nil {
			return article, fmt.Errorf("stitch %s: %w", ref.Link, stitchErr)
		}
		article.Partial = true
		b.warn("keeping partial article body", "url", ref.Link, "error", stitchErr)
	}

	terminal := goquery.NewDocumentFromNode(rootNode(content))
	if b.opts.Readability {
		err = b.fromReadability(terminal, &article)
	} else {
		article.Content, err = KeepOnly(terminal, b.opts.KeepOnlyTags)
	}
	if err != nil {
		article.Partial = false
		return article, fmt.Errorf("extract %s: %w", ref.Link, err)
	}

	if article.Partial {
		return article, fmt.Errorf("stitch %s: %w", ref.Link, stitchErr)
	}
	return article, nil
}

func (b *BodyAssembler) fromReadability(doc *goquery.Document, article *domain.Article) error {
	markup, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	pageURL, err := url.Parse(article.Ref.Link)
	if err != nil {
		return fmt.Errorf("invalid article url: %w", err)
	}

	parsed, err := readability.FromReader(strings.NewReader(markup), pageURL)
	if err != nil {
		return fmt.Errorf("readability: %w", err)
	}
	if strings.TrimSpace(parsed.Content) == "" {
		return errors.New("readability extracted no content")
	}

	article.Content = parsed.Content
	if title := b.source.CleanTitle(parsed.Title); title != "" {
		article.Title = title
	}
	return nil
}

func (b *BodyAssembler) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func rootNode(sel *goquery.Selection) *html.Node {
	n := sel.Get(0)
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
