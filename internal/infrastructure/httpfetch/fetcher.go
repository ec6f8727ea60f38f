package httpfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ChinaDailyFeed/1.0"
	maxBodyBytes     = 16 << 20
)

// ErrBodyTooLarge reports a success response whose body exceeds the fetch limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Options configure a Fetcher once; they are not re-derived per request.
type Options struct {
	Timeout  time.Duration
	Headers  map[string]string
	Encoding string
}

// Fetcher performs GET requests and decodes bodies from the page encoding to UTF-8.
type Fetcher struct {
	client   *http.Client
	headers  http.Header
	encoding string
	maxBody  int64
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New builds a Fetcher; a nil client gets one with opts.Timeout (30s by default).
func New(client *http.Client, opts Options) *Fetcher {
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	headers := http.Header{}
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}
	if headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", defaultUserAgent)
	}

	return &Fetcher{
		client:   client,
		headers:  headers,
		encoding: strings.TrimSpace(opts.Encoding),
		maxBody:  maxBodyBytes,
	}
}

// Fetch returns the status code and decoded body of url. Non-success statuses
// are not errors; transport and decoding failures are, and so is a body
// larger than the fetch limit (ErrBodyTooLarge).
func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Response{}, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	out := domain.Response{URL: url, StatusCode: resp.StatusCode}
	if resp.Request != nil && resp.Request.URL != nil {
		out.URL = resp.Request.URL.String()
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBody))
		return out, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}
	if int64(len(raw)) > f.maxBody {
		return out, fmt.Errorf("%s: %w (limit %d bytes)", url, ErrBodyTooLarge, f.maxBody)
	}

	body, err := f.decode(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return out, err
	}
	out.Body, err = io.ReadAll(body)
	if err != nil {
		return out, fmt.Errorf("decode body: %w", err)
	}
	return out, nil
}

func (f *Fetcher) decode(r io.Reader, contentType string) (io.Reader, error) {
	if f.encoding == "" {
		decoded, err := charset.NewReader(r, contentType)
		if err != nil {
			return nil, fmt.Errorf("detect charset: %w", err)
		}
		return decoded, nil
	}
	if strings.EqualFold(f.encoding, "utf-8") || strings.EqualFold(f.encoding, "utf8") {
		return r, nil
	}

	decoded, err := charset.NewReaderLabel(f.encoding, r)
	if err != nil {
		return nil, fmt.Errorf("page encoding %s: %w", f.encoding, err)
	}
	return decoded, nil
}
