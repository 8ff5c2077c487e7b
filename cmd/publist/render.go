package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/publist/internal/config"
	"github.com/matsen/publist/internal/publications"
	"github.com/matsen/publist/internal/style"
	"github.com/spf13/cobra"
)

var renderSrc string

func init() {
	renderCmd.Flags().StringVar(&renderSrc, "src", "", "BibTeX file to render (overrides config)")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render publication records from a BibTeX file",
	Long: `Render a BibTeX bibliography into publication records, sorted by
year descending.

The source file is taken from --src, the PUBLIST_SRC environment
variable, or publications_src in the config file, in that order.

Examples:
  publist render --src pubs.bib
  publist render --human`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	src := resolveSource(cfg)
	if src == "" {
		exitWithError(ExitConfigError, "no publications source configured (set --src, PUBLIST_SRC, or publications_src)")
	}

	var backend style.Backend = style.HTMLBackend{}
	if humanOutput {
		backend = style.TextBackend{}
	}

	plugin := publications.Plugin{
		Source:    src,
		Formatter: style.NewFormatter(backend),
		Key:       cfg.ContextKey,
	}
	ctx := make(map[string]any)
	if err := plugin.Add(ctx); err != nil {
		exitWithError(ExitDataError, "rendering publications: %v", err)
	}

	key := cfg.ContextKey
	if key == "" {
		key = publications.ContextKey
	}
	records, ok := ctx[key].([]publications.Record)
	if !ok {
		// The plugin logs its own warning on parse failure.
		exitWithError(ExitDataError, "no publications produced from %s", src)
	}

	if humanOutput {
		fmt.Printf("%d publications:\n\n", len(records))
		for _, rec := range records {
			year := rec.Year
			if year == "" {
				year = "n.d."
			}
			fmt.Printf("  %s (%s)\n", rec.Key, year)
			fmt.Printf("    %s\n\n", strings.ReplaceAll(rec.Text, "\n", "\n    "))
		}
	} else {
		outputJSON(records)
	}

	return nil
}

// mustLoadConfig loads the config file, exiting on malformed YAML.
// A missing file yields an empty config.
func mustLoadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// resolveSource picks the BibTeX source path: flag, then environment,
// then config file.
func resolveSource(cfg *config.Config) string {
	if renderSrc != "" {
		return config.ExpandTilde(renderSrc)
	}
	if src := os.Getenv(config.EnvPublicationsSrc); src != "" {
		return config.ExpandTilde(src)
	}
	return cfg.PublicationsSrc
}
