package bibtex

import (
	"fmt"
	"io"
	"strings"
)

// String renders the entry in canonical BibTeX form, fields in source
// order. The result parses back to an entry with the same key, type,
// and fields.
func (e *Entry) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, name := range e.order {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", name, e.fields[name]))
	}
	b.WriteString("}\n")
	return b.String()
}

// Write writes all entries in source order, separated by blank lines.
func (db *Database) Write(w io.Writer) error {
	for i, key := range db.keys {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, db.entries[key].String()); err != nil {
			return err
		}
	}
	return nil
}

// String renders the whole database as BibTeX source.
func (db *Database) String() string {
	var b strings.Builder
	db.Write(&b) // strings.Builder never errors
	return b.String()
}
