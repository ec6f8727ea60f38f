package scanner

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/domain"
)

// DefaultMaxPages bounds every pagination chain.
const DefaultMaxPages = 100

// ListingEntry is one article entry found on a listing page, in document order.
type ListingEntry struct {
	Title       string
	Href        string
	PublishedAt *time.Time
}

// ListingPage is the parsed form of one topic-listing page.
type ListingPage struct {
	Entries []ListingEntry
	Next    string
}

// ArticlePage is one fragment of a possibly paginated article. URL is the
// address the page was served from.
type ArticlePage struct {
	URL     string
	Doc     *goquery.Document
	Content *goquery.Selection
	Next    string
}

// FeedSource captures the site-specific parsing rules.
type FeedSource interface {
	Name() string
	ListFeeds() []domain.FeedSpec
	ExtractListing(doc *goquery.Document) ListingPage
	ExtractBody(doc *goquery.Document) (ArticlePage, error)
	CleanTitle(raw string) string
}
