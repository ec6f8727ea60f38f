package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/domain"
)

// fakeFetcher serves canned pages keyed by URL and records every request.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]domain.Response
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]domain.Response{}}
}

func (f *fakeFetcher) page(url, body string) {
	f.pages[url] = domain.Response{StatusCode: 200, Body: []byte(body)}
}

// redirect serves body for url as if the server had redirected to final.
func (f *fakeFetcher) redirect(url, final, body string) {
	f.pages[url] = domain.Response{URL: final, StatusCode: 200, Body: []byte(body)}
}

func (f *fakeFetcher) status(url string, code int) {
	f.pages[url] = domain.Response{StatusCode: code}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (domain.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	resp, ok := f.pages[url]
	if !ok {
		return domain.Response{}, errors.New("connection refused")
	}
	return resp, nil
}

// testSource understands the minimal markup produced by listingHTML and articleHTML.
type testSource struct{}

func (testSource) Name() string { return "test" }
func (testSource) ListFeeds() []domain.FeedSpec { return nil }
func (testSource) CleanTitle(raw string) string {
	return strings.TrimSpace(strings.TrimSuffix(raw, " - Example"))
}

func (testSource) ExtractListing(doc *goquery.Document) ListingPage {
	var page ListingPage
	doc.Find("span.entry").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a").First()
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		entry := ListingEntry{Title: a.Text(), Href: href}
		if ts, err := time.Parse("2006-01-02 15:04", item.Find("b").Text()); err == nil {
			entry.PublishedAt = &ts
		}
		page.Entries = append(page.Entries, entry)
	})
	page.Next, _ = doc.Find("a.next").Attr("href")
	return page
}

func (testSource) ExtractBody(doc *goquery.Document) (ArticlePage, error) {
	content := doc.Find("div#Content")
	if content.Length() == 0 {
		return ArticlePage{}, ErrContentMissing
	}
	next, _ := doc.Find("a.next").Attr("href")
	return ArticlePage{Doc: doc, Content: content, Next: next}, nil
}

type entryFixture struct {
	href, title, stamp string
}

func listingHTML(next string, entries ...entryFixture) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"list\">")
	for _, e := range entries {
		fmt.Fprintf(&b, `<span class="entry"><a href="%s">%s</a><b>%s</b></span>`, e.href, e.title, e.stamp)
	}
	if next != "" {
		fmt.Fprintf(&b, `<a class="next" href="%s">Next</a>`, next)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}

func articleHTML(fragment, next string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><div id="Content">%s</div>`, fragment)
	if next != "" {
		fmt.Fprintf(&b, `<a class="next" href="%s">Next</a>`, next)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func parseArticle(url, markup string) (ArticlePage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ArticlePage{}, err
	}
	page, err := testSource{}.ExtractBody(doc)
	page.URL = url
	return page, err
}
