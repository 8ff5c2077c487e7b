package style

import (
	"strings"

	"github.com/matsen/publist/internal/bibtex"
)

// Names renders a BibTeX name-list field ("A and B and C") with
// abbreviated given names: "J. Smith, A. B. Doe, and C. Brown".
// The field is required; a trailing "and others" renders as "et al.".
func Names(field string) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		v, ok := e.Lookup(field)
		if !ok {
			return "", &MissingFieldError{Field: field}
		}
		names := splitNames(v)
		formatted := make([]string, 0, len(names))
		for _, name := range names {
			if name == "others" {
				formatted = append(formatted, "et al.")
				continue
			}
			formatted = append(formatted, formatName(name))
		}
		return b.Escape(joinNames(formatted)), nil
	}
}

// splitNames splits a BibTeX name list on the "and" keyword.
func splitNames(v string) []string {
	var names []string
	for _, name := range strings.Split(v, " and ") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// formatName renders one name as "F. M. Last". Both BibTeX name forms
// are accepted: "Last, First Middle" and "First Middle Last".
func formatName(name string) string {
	var first, last string
	if i := strings.Index(name, ","); i >= 0 {
		last = strings.TrimSpace(name[:i])
		first = strings.TrimSpace(name[i+1:])
	} else {
		tokens := strings.Fields(name)
		if len(tokens) == 1 {
			return tokens[0]
		}
		// Lowercase particles (van, de, ...) belong to the family name.
		split := len(tokens) - 1
		for split > 0 && isParticle(tokens[split-1]) {
			split--
		}
		first = strings.Join(tokens[:split], " ")
		last = strings.Join(tokens[split:], " ")
	}

	if first == "" {
		return last
	}
	return abbreviate(first) + " " + last
}

// abbreviate reduces given names to initials: "John Maynard" -> "J. M.".
// Names that are already initials keep their form.
func abbreviate(given string) string {
	tokens := strings.Fields(given)
	initials := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		// Hyphenated given names abbreviate per component: "Jean-Luc" -> "J.-L."
		parts := strings.Split(tok, "-")
		for i, part := range parts {
			if part == "" {
				continue
			}
			r := []rune(part)
			parts[i] = string(r[0]) + "."
		}
		initials = append(initials, strings.Join(parts, "-"))
	}
	return strings.Join(initials, " ")
}

// joinNames joins formatted names in list style: "A", "A and B",
// "A, B, and C".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	last := names[len(names)-1]
	if last == "et al." {
		return strings.Join(names[:len(names)-1], ", ") + ", et al."
	}
	if len(names) == 2 {
		return names[0] + " and " + names[1]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", and " + last
}

func isParticle(tok string) bool {
	if tok == "" {
		return false
	}
	r := []rune(tok)
	return r[0] >= 'a' && r[0] <= 'z'
}
