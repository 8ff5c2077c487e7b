// Package main provides the publist CLI entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath overrides the default config file location
var configPath string

func main() {
	// Local .env may carry PUBLIST_CONFIG / PUBLIST_SRC overrides
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "publist",
	Short: "Render publication lists from BibTeX files",
	Long: `publist renders a BibTeX bibliography into a sorted list of formatted
publication records, ready for injection into a static-site template
context.

Each record carries the citation key, year, formatted citation text,
the raw BibTeX source for the entry, and any pdf/slides/poster links.
All commands output JSON by default for easy integration with site
generators and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: $PUBLIST_CONFIG or XDG location)")
	rootCmd.Version = Version
}
