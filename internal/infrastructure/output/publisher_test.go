package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"ChinaDailyFeed/internal/domain"
)

func sampleFeed() domain.Feed {
	return domain.Feed{
		Book:        domain.BookInfo{Title: "China Daily", Language: "en"},
		GeneratedAt: time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC),
		Articles: []domain.ArticleRef{
			{Topic: "Society", Title: "One", Link: "http://www.chinadaily.com.cn/a/1.html"},
			{Topic: "Society", Title: "Two", Link: "http://www.chinadaily.com.cn/a/2.html", Content: "<p>x</p>"},
		},
	}
}

func TestPublishJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p, err := NewPublisher(&buf, "")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), sampleFeed()))

	var decoded struct {
		Book     map[string]any   `json:"book"`
		Articles []map[string]any `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "China Daily", decoded.Book["title"])
	require.Len(t, decoded.Articles, 2)
	assert.Equal(t, "One", decoded.Articles[0]["title"])
	assert.NotContains(t, decoded.Articles[0], "content", "empty content is omitted")
	assert.Equal(t, "<p>x</p>", decoded.Articles[1]["content"])
}

func TestPublishYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p, err := NewPublisher(&buf, "YAML")
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), sampleFeed()))

	var decoded domain.Feed
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleFeed().Articles, decoded.Articles)
	assert.Equal(t, "China Daily", decoded.Book.Title)
}

func TestNewPublisherRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := NewPublisher(&bytes.Buffer{}, "epub")
	assert.Error(t, err)
}
