package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/publist/internal/bibtex"
	"github.com/matsen/publist/internal/config"
	"github.com/matsen/publist/internal/pdf"
	"github.com/spf13/cobra"
)

var checkSrc string

func init() {
	checkCmd.Flags().StringVar(&checkSrc, "src", "", "BibTeX file to check (overrides config)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a bibliography and its linked assets",
	Long: `Verify that the BibTeX file parses and that entry-linked assets exist.

Local pdf links must open as valid PDF files; slides and poster links
must exist on disk. Relative links resolve against asset_root from the
config file. http(s) links are not checked.`,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status  string       `json:"status"`
	Entries int          `json:"entries"`
	Issues  []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Field  string `json:"field,omitempty"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	src := checkSrc
	if src == "" {
		src = resolveSource(cfg)
	}
	if src == "" {
		exitWithError(ExitConfigError, "no publications source configured (set --src, PUBLIST_SRC, or publications_src)")
	}

	db, err := bibtex.ParseFile(src)
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", src, err)
	}

	var issues []CheckIssue
	for _, entry := range db.Entries() {
		for _, field := range []string{"pdf", "slides", "poster"} {
			link, ok := entry.Lookup(field)
			if !ok {
				continue
			}
			issues = append(issues, checkAsset(cfg, entry.Key, field, link)...)
		}
	}

	status := "ok"
	if len(issues) > 0 {
		status = "issues"
	}

	// Ensure issues is an empty array, not null
	if issues == nil {
		issues = []CheckIssue{}
	}

	if humanOutput {
		if len(issues) == 0 {
			fmt.Printf("Bibliography check: OK\n\n%d entries checked\n", db.Len())
		} else {
			fmt.Printf("Bibliography check: %d issues found\n\n", len(issues))
			for _, issue := range issues {
				fmt.Printf("  [WARN] %s: %s link %s\n", issue.Key, issue.Field, issue.Type)
				if issue.Detail != "" {
					fmt.Printf("         %s\n", issue.Detail)
				}
				fmt.Printf("         Path: %s\n\n", issue.Path)
			}
			fmt.Printf("%d entries checked\n", db.Len())
		}
	} else {
		outputJSON(CheckResult{
			Status:  status,
			Entries: db.Len(),
			Issues:  issues,
		})
	}

	if len(issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// checkAsset verifies one linked asset. Remote links are skipped.
func checkAsset(cfg *config.Config, key, field, link string) []CheckIssue {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return nil
	}

	path := config.ExpandTilde(link)
	if !filepath.IsAbs(path) && cfg.AssetRoot != "" {
		path = filepath.Join(cfg.AssetRoot, path)
	}

	if _, err := os.Stat(path); err != nil {
		return []CheckIssue{{
			Type:  "missing_asset",
			Key:   key,
			Field: field,
			Path:  path,
		}}
	}

	// Only pdf links are required to be readable PDF files; slides and
	// posters may be any format.
	if field == "pdf" && strings.EqualFold(filepath.Ext(path), ".pdf") {
		if _, err := pdf.Verify(path); err != nil {
			return []CheckIssue{{
				Type:   "unreadable_pdf",
				Key:    key,
				Field:  field,
				Path:   path,
				Detail: err.Error(),
			}}
		}
	}

	return nil
}
