package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"ChinaDailyFeed/internal/domain"
)

const (
	defaultTimezone    = "UTC"
	defaultMaxArticles = 40
	defaultOldest      = 1
	defaultMaxPages    = 100
	defaultHTTPTimeout = 30 * time.Second
	configPathEnv      = "CHINADAILY_FEED_CONFIG"
	logLevelEnv        = "LOG_LEVEL"
	maxArticlesEnv     = "FEED_MAX_ARTICLES"
	oldestArticleEnv   = "FEED_OLDEST_ARTICLE"
	httpTimeoutEnv     = "HTTP_TIMEOUT"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	HTTP      HTTPConfig      `yaml:"http"`
	Output    OutputConfig    `yaml:"output"`
	Book      domain.BookInfo `yaml:"book"`
	Site      SiteConfig      `yaml:"site"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when the feed is rebuilt in scheduled mode.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// HTTPConfig configures the fetch collaborator.
type HTTPConfig struct {
	Timeout  time.Duration     `yaml:"timeout"`
	Headers  map[string]string `yaml:"headers"`
	MaxPages int               `yaml:"maxPages"`
}

// OutputConfig controls what a run publishes.
type OutputConfig struct {
	Format            string `yaml:"format"`
	IncludeBodies     bool   `yaml:"includeBodies"`
	KeepPartialBodies bool   `yaml:"keepPartialBodies"`
}

// SiteConfig carries the site-specific parsing settings.
type SiteConfig struct {
	Feeds                 []domain.FeedSpec    `yaml:"feeds"`
	PageEncoding          string               `yaml:"pageEncoding"`
	FulltextByReadability bool                 `yaml:"fulltextByReadability"`
	KeepOnlyTags          []domain.TagSelector `yaml:"keepOnlyTags"`
	MaxArticlesPerFeed    int                  `yaml:"maxArticlesPerFeed"`
	// OldestArticle counts days when <= 365 and seconds above; 0 disables the cutoff.
	OldestArticle int `yaml:"oldestArticle"`
}

// Load reads YAML configuration from the CHINADAILY_FEED_CONFIG path (if set)
// and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path and applies environment
// overrides. Unreadable or invalid files fall back to defaults.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			// Keys missing from the file keep their defaults.
			fileCfg := defaultConfig()
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = fileCfg
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Site.Feeds) == 0 {
		cfg.Site.Feeds = defaultConfig().Site.Feeds
	}
	if cfg.HTTP.MaxPages <= 0 {
		cfg.HTTP.MaxPages = defaultMaxPages
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = defaultHTTPTimeout
	}

	return cfg
}

// Validate reports settings no run can succeed with.
func (c Config) Validate() error {
	for _, feed := range c.Site.Feeds {
		if feed.Topic == "" {
			return fmt.Errorf("feed %s has no topic", feed.URL)
		}
		u, err := url.Parse(feed.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("feed %s: url %q is not absolute", feed.Topic, feed.URL)
		}
	}
	if c.Site.MaxArticlesPerFeed < 0 {
		return fmt.Errorf("maxArticlesPerFeed must not be negative, got %d", c.Site.MaxArticlesPerFeed)
	}
	if c.Site.OldestArticle < 0 {
		return fmt.Errorf("oldestArticle must not be negative, got %d", c.Site.OldestArticle)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(maxArticlesEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Site.MaxArticlesPerFeed = n
		} else {
			log.Printf("config: ignoring %s=%q: %v", maxArticlesEnv, v, err)
		}
	}

	if v := os.Getenv(oldestArticleEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Site.OldestArticle = n
		} else {
			log.Printf("config: ignoring %s=%q: %v", oldestArticleEnv, v, err)
		}
	}

	if v := os.Getenv(httpTimeoutEnv); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		} else {
			log.Printf("config: ignoring %s=%q: %v", httpTimeoutEnv, v, err)
		}
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		HTTP: HTTPConfig{
			Timeout: defaultHTTPTimeout,
			Headers: map[string]string{
				"User-Agent":      "Mozilla/5.0 (compatible; ChinaDailyFeed/1.0)",
				"Accept-Language": "en-US,en;q=0.8",
			},
			MaxPages: defaultMaxPages,
		},
		Output: OutputConfig{Format: "json"},
		Book: domain.BookInfo{
			Title:        "China Daily",
			Author:       "China Daily",
			Description:  "Chinadaily.com.cn is the largest English portal in China.",
			Language:     "en",
			CoverFile:    "cv_chinadaily.jpg",
			MastheadFile: "mh_chinadaily.gif",
		},
		Site: SiteConfig{
			Feeds: []domain.FeedSpec{
				{Topic: "National affairs", URL: "http://www.chinadaily.com.cn/china/governmentandpolicy"},
				{Topic: "Society", URL: "http://www.chinadaily.com.cn/china/society"},
			},
			PageEncoding:          "utf-8",
			FulltextByReadability: false,
			KeepOnlyTags: []domain.TagSelector{
				{Name: "span", Class: "info_l"},
				{Name: "div", ID: "Content"},
			},
			MaxArticlesPerFeed: defaultMaxArticles,
			OldestArticle:      defaultOldest,
		},
	}
}
