// Package bibtex provides a tolerant BibTeX reader and a canonical writer.
package bibtex

import (
	"fmt"
	"strings"
)

// Entry represents a single BibTeX record: a citation key, an entry type
// tag, and a field map. Fields keep their source order so a rewritten
// entry looks like the one that was parsed.
type Entry struct {
	Key  string
	Type string // lowercased entry type tag: article, inproceedings, ...

	fields map[string]string
	order  []string
}

// NewEntry creates an entry with the given key and type tag.
// The type tag is lowercased.
func NewEntry(key, entryType string) *Entry {
	return &Entry{
		Key:    key,
		Type:   strings.ToLower(entryType),
		fields: make(map[string]string),
	}
}

// SetField sets a field value. Field names are lowercased. Setting an
// existing field overwrites its value but keeps its original position.
// This is a construction-time API; entries are treated as read-only
// once they are in a Database.
func (e *Entry) SetField(name, value string) {
	name = strings.ToLower(name)
	if _, ok := e.fields[name]; !ok {
		e.order = append(e.order, name)
	}
	e.fields[name] = value
}

// Field returns the value of a field, or "" if the field is absent.
func (e *Entry) Field(name string) string {
	return e.fields[strings.ToLower(name)]
}

// Lookup returns the value of a field and whether it is present.
func (e *Entry) Lookup(name string) (string, bool) {
	v, ok := e.fields[strings.ToLower(name)]
	return v, ok
}

// Has reports whether a field is present.
func (e *Entry) Has(name string) bool {
	_, ok := e.fields[strings.ToLower(name)]
	return ok
}

// FieldNames returns the field names in source order.
func (e *Entry) FieldNames() []string {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// Database is an insertion-ordered collection of entries keyed by
// citation key. It is built once by the parser and read-only afterwards.
type Database struct {
	keys    []string
	entries map[string]*Entry
}

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{entries: make(map[string]*Entry)}
}

// Add appends an entry. Duplicate citation keys are rejected.
func (db *Database) Add(e *Entry) error {
	if _, exists := db.entries[e.Key]; exists {
		return fmt.Errorf("duplicate citation key %q", e.Key)
	}
	db.keys = append(db.keys, e.Key)
	db.entries[e.Key] = e
	return nil
}

// Len returns the number of entries.
func (db *Database) Len() int {
	return len(db.keys)
}

// Keys returns the citation keys in source order.
func (db *Database) Keys() []string {
	keys := make([]string, len(db.keys))
	copy(keys, db.keys)
	return keys
}

// Get returns the entry for a citation key.
func (db *Database) Get(key string) (*Entry, bool) {
	e, ok := db.entries[key]
	return e, ok
}

// Entries returns all entries in source order.
func (db *Database) Entries() []*Entry {
	entries := make([]*Entry, 0, len(db.keys))
	for _, key := range db.keys {
		entries = append(entries, db.entries[key])
	}
	return entries
}
