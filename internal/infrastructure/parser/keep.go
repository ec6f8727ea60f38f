package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ChinaDailyFeed/internal/domain"
)

// Selector renders a TagSelector as a CSS selector.
func Selector(tag domain.TagSelector) string {
	var b strings.Builder
	name := strings.TrimSpace(tag.Name)
	if name == "" {
		name = "*"
	}
	b.WriteString(name)
	if id := strings.TrimSpace(tag.ID); id != "" {
		b.WriteString("#" + id)
	}
	for _, class := range strings.Fields(tag.Class) {
		b.WriteString("." + class)
	}
	return b.String()
}

// KeepOnly renders the regions of doc matched by tags in document order. A
// matched region nested inside another matched region is not repeated. With
// no tags the whole body is returned.
func KeepOnly(doc *goquery.Document, tags []domain.TagSelector) (string, error) {
	if len(tags) == 0 {
		return doc.Find("body").Html()
	}

	selectors := make([]string, 0, len(tags))
	for _, tag := range tags {
		selectors = append(selectors, Selector(tag))
	}
	group := strings.Join(selectors, ", ")

	var (
		parts []string
		err   error
	)
	doc.Find(group).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.ParentsFiltered(group).Length() > 0 {
			return true
		}
		var markup string
		markup, err = goquery.OuterHtml(sel)
		if err != nil {
			err = fmt.Errorf("render %s: %w", goquery.NodeName(sel), err)
			return false
		}
		parts = append(parts, markup)
		return true
	})
	if err != nil {
		return "", err
	}

	return strings.Join(parts, "\n"), nil
}
