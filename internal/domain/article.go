package domain

import (
	"net/http"
	"time"
)

// FeedSpec names one topic and the listing page it starts from.
type FeedSpec struct {
	Topic string `yaml:"topic" json:"topic"`
	URL   string `yaml:"url" json:"url"`
}

// ArticleRef is one collected listing entry. Content stays empty until the
// article body has been assembled.
type ArticleRef struct {
	Topic   string `yaml:"topic" json:"topic"`
	Title   string `yaml:"title" json:"title"`
	Link    string `yaml:"link" json:"link"`
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
}

// Article is the preprocessed body of a single ArticleRef.
type Article struct {
	Ref     ArticleRef
	Title   string
	Content string
	Partial bool
}

// BookInfo carries the e-book metadata handed to the rendering pipeline.
type BookInfo struct {
	Title        string `yaml:"title" json:"title"`
	Author       string `yaml:"author" json:"author"`
	Description  string `yaml:"description" json:"description"`
	Language     string `yaml:"language" json:"language"`
	CoverFile    string `yaml:"coverFile" json:"cover_file"`
	MastheadFile string `yaml:"mastheadFile" json:"masthead_file"`
}

// Feed is the document published after a run.
type Feed struct {
	Book        BookInfo     `yaml:"book" json:"book"`
	GeneratedAt time.Time    `yaml:"generatedAt" json:"generated_at"`
	Articles    []ArticleRef `yaml:"articles" json:"articles"`
}

// TagSelector identifies a page region by element name, class and id.
type TagSelector struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	ID    string `yaml:"id"`
}

// Response is what the fetch collaborator returns for a GET. URL is the
// address the body was served from after redirects; empty means the
// requested URL.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// BaseURL returns the URL relative links on the page resolve against.
func (r Response) BaseURL(requested string) string {
	if r.URL != "" {
		return r.URL
	}
	return requested
}

// OK reports a 200 status with a non-empty body.
func (r Response) OK() bool {
	return r.StatusCode == http.StatusOK && len(r.Body) > 0
}
