package parser

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/scanner"
)

const (
	chinaDailyTitleSuffix = " - Chinadaily.com.cn"
	chinaDailyTimeLayout  = "2006-01-02 15:04"

	entrySelector   = "span.tw3_01_2_t"
	contentSelector = "div#Content"
	nextLinkText    = "Next"
)

// ChinaDailySource holds the parsing rules for chinadaily.com.cn topic and article pages.
type ChinaDailySource struct {
	feeds  []domain.FeedSpec
	logger *slog.Logger
}

var _ scanner.FeedSource = (*ChinaDailySource)(nil)

// NewChinaDailySource builds the strategy for the given topics.
func NewChinaDailySource(feeds []domain.FeedSpec, logger *slog.Logger) *ChinaDailySource {
	return &ChinaDailySource{feeds: feeds, logger: logger}
}

// Name identifies the strategy.
func (c *ChinaDailySource) Name() string {
	return "chinadaily"
}

// ListFeeds returns the configured topics in order.
func (c *ChinaDailySource) ListFeeds() []domain.FeedSpec {
	feeds := make([]domain.FeedSpec, len(c.feeds))
	copy(feeds, c.feeds)
	return feeds
}

// ExtractListing reads the article entries and the "Next" link of a topic page.
func (c *ChinaDailySource) ExtractListing(doc *goquery.Document) scanner.ListingPage {
	var page scanner.ListingPage

	doc.Find(entrySelector).Each(func(i int, item *goquery.Selection) {
		entry, ok := parseListingEntry(item)
		if !ok {
			if c.logger != nil {
				c.logger.Debug("skip malformed entry", "index", i)
			}
			return
		}
		page.Entries = append(page.Entries, entry)
	})

	page.Next = nextLink(doc)
	return page
}

// ExtractBody locates the article content container and the "Next" link.
func (c *ChinaDailySource) ExtractBody(doc *goquery.Document) (scanner.ArticlePage, error) {
	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return scanner.ArticlePage{}, scanner.ErrContentMissing
	}
	return scanner.ArticlePage{
		Doc:     doc,
		Content: content,
		Next:    nextLink(doc),
	}, nil
}

// CleanTitle strips the site name suffix.
func (c *ChinaDailySource) CleanTitle(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, chinaDailyTitleSuffix, ""))
}

func parseListingEntry(item *goquery.Selection) (scanner.ListingEntry, bool) {
	anchor := item.Find("a").First()
	href, exists := anchor.Attr("href")
	if anchor.Length() == 0 || !exists || strings.TrimSpace(href) == "" {
		return scanner.ListingEntry{}, false
	}

	entry := scanner.ListingEntry{
		Title: strings.TrimSpace(anchor.Text()),
		Href:  strings.TrimSpace(href),
	}

	stamp := strings.TrimSpace(item.Find("b").First().Text())
	if stamp != "" {
		if published, err := time.ParseInLocation(chinaDailyTimeLayout, stamp, time.UTC); err == nil {
			entry.PublishedAt = &published
		}
	}

	return entry, true
}

func nextLink(doc *goquery.Document) string {
	next := doc.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return strings.TrimSpace(a.Text()) == nextLinkText
	}).First()

	href, _ := next.Attr("href")
	return strings.TrimSpace(href)
}
