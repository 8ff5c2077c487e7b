package main

import (
	"fmt"

	"github.com/matsen/publist/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  publist config                          # Show all config
  publist config publications-src        # Get specific value
  publist config publications-src ~/pubs.bib   # Set value

Keys:
  publications-src  Path to the BibTeX file
  asset-root        Base directory for relative pdf/slides/poster links
  context-key       Context key for the record list (default: publications)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine config location (set --config or PUBLIST_CONFIG)")
	}

	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// Show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("publications-src: %s\n", cfg.PublicationsSrc)
			fmt.Printf("asset-root:       %s\n", cfg.AssetRoot)
			fmt.Printf("context-key:      %s\n", cfg.ContextKey)
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]

	// Get one value
	if len(args) == 1 {
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown config key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Set a value
	value := args[1]
	switch key {
	case "publications-src":
		cfg.PublicationsSrc = value
	case "asset-root":
		cfg.AssetRoot = value
	case "context-key":
		cfg.ContextKey = value
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if err := cfg.Save(path); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "publications-src":
		return cfg.PublicationsSrc, true
	case "asset-root":
		return cfg.AssetRoot, true
	case "context-key":
		return cfg.ContextKey, true
	}
	return "", false
}
