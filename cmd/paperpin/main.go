// Package main is the paperpin CLI. Without a subcommand it opens the
// terminal browser.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/paperpin/internal/config"
	"github.com/csheth/paperpin/internal/corpus"
	"github.com/csheth/paperpin/internal/store"
	"github.com/csheth/paperpin/internal/tui"
)

// version is set at build time via ldflags.
var version = "dev"

// settings is resolved once per invocation in PersistentPreRunE.
var settings config.Config

var rootCmd = &cobra.Command{
	Use:   "paperpin",
	Short: "Browse a paper corpus and pin papers and passages",
	Long: `paperpin browses a local corpus of research papers. Explore shows the
feed, the passages of the selected paper and papers related to the selected
passage. Saved shows pinned papers and passages, the ordered builder and live
suggestions drawn from the builder.

Run without a subcommand to open the browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfgFile, _ := cmd.Flags().GetString("config")
		if err := config.Init(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		settings = cfg
		return nil
	},
	RunE: runBrowser,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./paperpin.yaml or $XDG_CONFIG_HOME/paperpin/paperpin.yaml)")
	flags.String("corpus", "", "corpus file (JSON or YAML)")
	flags.String("store", "", "collection store path")
	flags.String("store-backend", "", "collection store backend: json or sqlite")
	flags.Int64("seed", 0, "seed for random fallback fill (default: current time)")
	_ = viper.BindPFlag("corpus_path", flags.Lookup("corpus"))
	_ = viper.BindPFlag("store.path", flags.Lookup("store"))
	_ = viper.BindPFlag("store.backend", flags.Lookup("store-backend"))

	rootCmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.Flags().String("log-file", "", "write logs to this file while the browser runs")
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
}

func runBrowser(cmd *cobra.Command, args []string) error {
	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")

	if settings.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(settings.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		logFile, err := tea.LogToFile(settings.LogFile, "paperpin")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
	}

	gw, err := openStore()
	if err != nil {
		return err
	}
	defer gw.Close()

	opts := []tea.ProgramOption{}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			CorpusPath: settings.CorpusPath,
			Gateway:    gw,
			Options:    settings.AppOptions(seed(cmd)),
		}),
		opts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func openStore() (store.Gateway, error) {
	gw, err := store.Open(store.Backend(settings.Store.Backend), settings.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return gw, nil
}

// loadCorpus reads the configured corpus. A missing or malformed corpus is a
// command error outside the browser.
func loadCorpus() (*corpus.Index, error) {
	idx, err := corpus.Load(settings.CorpusPath)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func seed(cmd *cobra.Command) int64 {
	if s, _ := cmd.Flags().GetInt64("seed"); s != 0 {
		return s
	}
	return time.Now().UnixNano()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
