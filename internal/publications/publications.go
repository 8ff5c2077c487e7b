// Package publications turns a BibTeX file into a sorted list of
// presentation-ready publication records for a site generator context.
package publications

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/publist/internal/bibtex"
)

// ContextKey is the default context key the record list is stored under.
const ContextKey = "publications"

// Record is the externally consumed summary of one entry. Absent
// optional values are empty strings.
type Record struct {
	Key       string `json:"key"`
	Year      string `json:"year,omitempty"`
	Text      string `json:"text"`
	BibTeX    string `json:"bibtex"`
	PDF       string `json:"pdf,omitempty"`
	Slides    string `json:"slides,omitempty"`
	Poster    string `json:"poster,omitempty"`
	EntryType string `json:"entry_type,omitempty"`
}

// Formatter renders one entry to citation text. The binding is decided
// at construction time; a nil Formatter means the capability is
// unavailable in this environment.
type Formatter interface {
	Format(e *bibtex.Entry) (string, error)
}

// Plugin populates a caller-owned context with publication records read
// from a BibTeX file.
type Plugin struct {
	// Source is the path to the BibTeX file. Empty means the feature
	// is not configured and Add is a no-op.
	Source string
	// Formatter renders citation text. Nil logs a warning and skips.
	Formatter Formatter
	// Key overrides ContextKey when set.
	Key string
	// Logger receives warnings; nil falls back to slog.Default.
	Logger *slog.Logger
}

// Add parses the source file and writes the sorted record list into
// ctx. Missing configuration, an unavailable formatter, and parse
// failures leave ctx untouched without returning an error; a per-entry
// formatting failure aborts the whole batch with an error and writes
// nothing.
func (p *Plugin) Add(ctx map[string]any) error {
	if p.Source == "" {
		return nil
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if p.Formatter == nil {
		logger.Warn("bibliography formatter unavailable, skipping publications")
		return nil
	}

	db, err := bibtex.ParseFile(p.Source)
	if err != nil {
		logger.Warn("failed to parse bibliography", "path", p.Source, "error", err)
		return nil
	}
	if db.Len() == 0 {
		return nil
	}

	records, err := Assemble(db, p.Formatter)
	if err != nil {
		return err
	}

	key := p.Key
	if key == "" {
		key = ContextKey
	}
	ctx[key] = records
	return nil
}

// Assemble formats every entry and returns records sorted by year
// descending. Entries without a numeric year sort after all dated
// entries; ties keep source order.
func Assemble(db *bibtex.Database, f Formatter) ([]Record, error) {
	records := make([]Record, 0, db.Len())
	for _, entry := range db.Entries() {
		text, err := f.Format(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.Key, err)
		}

		records = append(records, Record{
			Key:       entry.Key,
			Year:      entry.Field("year"),
			Text:      text,
			BibTeX:    entry.String(),
			PDF:       entry.Field("pdf"),
			Slides:    entry.Field("slides"),
			Poster:    entry.Field("poster"),
			EntryType: entry.Field("type"),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return yearRank(records[i].Year) > yearRank(records[j].Year)
	})
	return records, nil
}

// yearRank maps a year field to a sortable value. Non-numeric and
// absent years rank below every real year.
func yearRank(year string) int {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return -1 << 31
	}
	return n
}
