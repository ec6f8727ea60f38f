package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"ChinaDailyFeed/internal/domain"
	"ChinaDailyFeed/internal/ports"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Publisher writes the feed document to a stream for the rendering pipeline.
type Publisher struct {
	w      io.Writer
	format string
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher validates the format; an empty format means JSON.
func NewPublisher(w io.Writer, format string) (*Publisher, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Publisher{w: w, format: format}, nil
}

// Publish encodes feed in the configured format.
func (p *Publisher) Publish(ctx context.Context, feed domain.Feed) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(feed); err != nil {
			return fmt.Errorf("encode yaml feed: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(feed); err != nil {
			return fmt.Errorf("encode json feed: %w", err)
		}
		return nil
	}
}
