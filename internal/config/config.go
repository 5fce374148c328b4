// Package config resolves settings from flags, PAPERPIN_* environment
// variables and an optional paperpin.yaml file.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/csheth/paperpin/internal/app"
	"github.com/csheth/paperpin/internal/relevance"
	"github.com/csheth/paperpin/internal/store"
	"github.com/csheth/paperpin/internal/suggest"
)

const (
	// AppDir is the directory name under the XDG base directories.
	AppDir = "paperpin"
	// FileName is the config file name without extension.
	FileName = "paperpin"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PAPERPIN"

	FillCorpus = "corpus"
	FillRandom = "random"
)

// Config is the resolved configuration.
type Config struct {
	CorpusPath  string      `mapstructure:"corpus_path"`
	Store       StoreConfig `mapstructure:"store"`
	Feed        FeedConfig  `mapstructure:"feed"`
	Related     LimitConfig `mapstructure:"related"`
	Suggestions LimitConfig `mapstructure:"suggestions"`
	Fill        string      `mapstructure:"fill"`
	LogFile     string      `mapstructure:"log_file"`
	Arxiv       ArxivConfig `mapstructure:"arxiv"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type FeedConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type LimitConfig struct {
	Limit int `mapstructure:"limit"`
}

type ArxivConfig struct {
	CacheDir string        `mapstructure:"cache_dir"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ConfigDir returns $XDG_CONFIG_HOME/paperpin, defaulting to ~/.config.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/paperpin, defaulting to ~/.local/state.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppDir
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, AppDir)
}

// SetDefaults registers a default for every key so environment overrides
// reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	state := StateDir()
	v.SetDefault("corpus_path", "papers.json")
	v.SetDefault("store.backend", string(store.BackendJSON))
	v.SetDefault("store.path", "")
	v.SetDefault("feed.page_size", app.DefaultPageSize)
	v.SetDefault("related.limit", suggest.DefaultRelatedLimit)
	v.SetDefault("suggestions.limit", suggest.DefaultSuggestionLimit)
	v.SetDefault("fill", FillCorpus)
	v.SetDefault("log_file", filepath.Join(state, "paperpin.log"))
	v.SetDefault("arxiv.cache_dir", "")
	v.SetDefault("arxiv.timeout", 10*time.Second)
}

// Init wires defaults, the config file and the environment into v. An empty
// cfgFile searches ./paperpin.yaml then ConfigDir. A missing file is not an
// error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.CorpusPath = ExpandTilde(cfg.CorpusPath)
	cfg.Store.Path = ExpandTilde(cfg.Store.Path)
	cfg.LogFile = ExpandTilde(cfg.LogFile)
	cfg.Arxiv.CacheDir = ExpandTilde(cfg.Arxiv.CacheDir)
	if cfg.Store.Path == "" {
		name := "paperpin.json"
		if store.Backend(cfg.Store.Backend) == store.BackendSQLite {
			name = "paperpin.db"
		}
		cfg.Store.Path = filepath.Join(StateDir(), name)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown enum values and non-positive sizes.
func (c Config) Validate() error {
	switch store.Backend(c.Store.Backend) {
	case store.BackendJSON, store.BackendSQLite:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Fill {
	case FillCorpus, FillRandom:
	default:
		return fmt.Errorf("fill: unknown policy %q", c.Fill)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Related.Limit <= 0 || c.Suggestions.Limit <= 0 {
		return fmt.Errorf("related.limit and suggestions.limit must be positive")
	}
	return nil
}

// FillPolicy returns the configured fallback fill. Random fill is seeded with
// seed.
func (c Config) FillPolicy(seed int64) relevance.FillPolicy {
	if c.Fill == FillRandom {
		return relevance.Random{Source: rand.New(rand.NewSource(seed))}
	}
	return relevance.CorpusOrder{}
}

// AppOptions maps the config onto app.Options.
func (c Config) AppOptions(seed int64) app.Options {
	return app.Options{
		PageSize:        c.Feed.PageSize,
		RelatedLimit:    c.Related.Limit,
		SuggestionLimit: c.Suggestions.Limit,
		Fill:            c.FillPolicy(seed),
	}
}

// ExpandTilde replaces a leading ~ with the home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
