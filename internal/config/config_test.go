package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChinaDailyFeed/internal/domain"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg := LoadFile("")

	assert.Equal(t, "China Daily", cfg.Book.Title)
	assert.Equal(t, "en", cfg.Book.Language)
	assert.Equal(t, "cv_chinadaily.jpg", cfg.Book.CoverFile)
	require.Len(t, cfg.Site.Feeds, 2)
	assert.Equal(t, "National affairs", cfg.Site.Feeds[0].Topic)
	assert.Equal(t, "http://www.chinadaily.com.cn/china/society", cfg.Site.Feeds[1].URL)
	assert.Equal(t, 40, cfg.Site.MaxArticlesPerFeed)
	assert.Equal(t, 1, cfg.Site.OldestArticle)
	assert.Equal(t, "utf-8", cfg.Site.PageEncoding)
	assert.False(t, cfg.Site.FulltextByReadability)
	assert.Equal(t, []domain.TagSelector{
		{Name: "span", Class: "info_l"},
		{Name: "div", ID: "Content"},
	}, cfg.Site.KeepOnlyTags)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 100, cfg.HTTP.MaxPages)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  level: debug
http:
  timeout: 5s
  maxPages: 10
site:
  oldestArticle: 0
  maxArticlesPerFeed: 5
  fulltextByReadability: true
  feeds:
    - topic: Business
      url: http://www.chinadaily.com.cn/business
scheduler:
  timezone: Asia/Shanghai
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := LoadFile(path)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 10, cfg.HTTP.MaxPages)
	assert.Equal(t, 0, cfg.Site.OldestArticle, "zero disables the cutoff and must survive loading")
	assert.Equal(t, 5, cfg.Site.MaxArticlesPerFeed)
	assert.True(t, cfg.Site.FulltextByReadability)
	assert.Equal(t, []domain.FeedSpec{{Topic: "Business", URL: "http://www.chinadaily.com.cn/business"}}, cfg.Site.Feeds)
	assert.Equal(t, "China Daily", cfg.Book.Title, "missing sections keep defaults")
	assert.Equal(t, "Asia/Shanghai", cfg.Scheduler.Location().String())
	assert.NotEmpty(t, cfg.HTTP.Headers["User-Agent"])
}

func TestLoadFileInvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unterminated"), 0o600))

	cfg := LoadFile(path)
	assert.Equal(t, 40, cfg.Site.MaxArticlesPerFeed)
	assert.Len(t, cfg.Site.Feeds, 2)
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv(maxArticlesEnv, "12")
	t.Setenv(oldestArticleEnv, "7200")
	t.Setenv(httpTimeoutEnv, "2s")
	t.Setenv(logLevelEnv, "warn")

	cfg := LoadFile("")

	assert.Equal(t, 12, cfg.Site.MaxArticlesPerFeed)
	assert.Equal(t, 7200, cfg.Site.OldestArticle)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.Site.Feeds = []domain.FeedSpec{{Topic: "Society", URL: "/china/society"}}
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Site.Feeds = []domain.FeedSpec{{URL: "http://www.chinadaily.com.cn/china/society"}}
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Site.MaxArticlesPerFeed = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadReadsPathFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  maxArticlesPerFeed: 7\n"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, 7, cfg.Site.MaxArticlesPerFeed)
	assert.Len(t, cfg.Site.Feeds, 2)

	t.Setenv(configPathEnv, "")
	assert.Equal(t, 40, Load().Site.MaxArticlesPerFeed)
}
