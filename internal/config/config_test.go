package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/paperpin/internal/relevance"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "papers.json", cfg.CorpusPath)
	assert.Equal(t, "json", cfg.Store.Backend)
	assert.Equal(t, filepath.Join("/state", "paperpin", "paperpin.json"), cfg.Store.Path)
	assert.Equal(t, 10, cfg.Feed.PageSize)
	assert.Equal(t, 10, cfg.Related.Limit)
	assert.Equal(t, 5, cfg.Suggestions.Limit)
	assert.Equal(t, FillCorpus, cfg.Fill)
	assert.Equal(t, 10*time.Second, cfg.Arxiv.Timeout)
	assert.IsType(t, relevance.CorpusOrder{}, cfg.FillPolicy(1))
}

func TestConfigFileAndEnvironment(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus_path: /data/papers.yaml
store:
  backend: sqlite
suggestions:
  limit: 3
arxiv:
  timeout: 30s
`), 0o644))
	t.Setenv("PAPERPIN_FILL", "random")
	t.Setenv("PAPERPIN_FEED_PAGE_SIZE", "4")

	v := viper.New()
	require.NoError(t, Init(v, path))
	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "/data/papers.yaml", cfg.CorpusPath)
	assert.Equal(t, filepath.Join("/state", "paperpin", "paperpin.db"), cfg.Store.Path)
	assert.Equal(t, 3, cfg.Suggestions.Limit)
	assert.Equal(t, 4, cfg.Feed.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Arxiv.Timeout)
	assert.IsType(t, relevance.Random{}, cfg.FillPolicy(1))

	opts := cfg.AppOptions(1)
	assert.Equal(t, 4, opts.PageSize)
	assert.Equal(t, 3, opts.SuggestionLimit)
}

func TestExplicitMissingConfigFails(t *testing.T) {
	v := viper.New()
	assert.Error(t, Init(v, filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	good := Config{
		Store:       StoreConfig{Backend: "json"},
		Feed:        FeedConfig{PageSize: 10},
		Related:     LimitConfig{Limit: 10},
		Suggestions: LimitConfig{Limit: 5},
		Fill:        FillCorpus,
	}
	require.NoError(t, good.Validate())

	bad := good
	bad.Store.Backend = "redis"
	assert.Error(t, bad.Validate())

	bad = good
	bad.Fill = "shuffle"
	assert.Error(t, bad.Validate())

	bad = good
	bad.Feed.PageSize = 0
	assert.Error(t, bad.Validate())
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "papers.json"), ExpandTilde("~/papers.json"))
	assert.Equal(t, "/abs/path", ExpandTilde("/abs/path"))
	assert.Equal(t, "rel~/x", ExpandTilde("rel~/x"))
}
