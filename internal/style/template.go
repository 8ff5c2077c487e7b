package style

import (
	"errors"
	"strings"

	"github.com/matsen/publist/internal/bibtex"
)

// Template renders one fragment of a citation. An empty result means
// the fragment has nothing to contribute and is dropped by its parent.
type Template func(e *bibtex.Entry, b Backend) (string, error)

// MissingFieldError reports a template that required an absent field.
// Optional and FirstOf absorb it; anywhere else it surfaces as a
// formatting failure for the entry.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field " + e.Field
}

// Text renders a literal string.
func Text(s string) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		return b.Escape(s), nil
	}
}

// Field renders a field value. The field is required: if absent the
// template fails with MissingFieldError.
func Field(name string) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		v, ok := e.Lookup(name)
		if !ok {
			return "", &MissingFieldError{Field: name}
		}
		return b.Escape(v), nil
	}
}

// Optional concatenates its parts, and renders nothing at all if any
// part requires an absent field.
func Optional(parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		out, err := renderConcat(e, b, parts)
		if err != nil {
			var missing *MissingFieldError
			if errors.As(err, &missing) {
				return "", nil
			}
			return "", err
		}
		return out, nil
	}
}

// OptionalField renders a field value, or nothing if the field is
// absent.
func OptionalField(name string) Template {
	return Optional(Field(name))
}

// Concat concatenates parts with no separator.
func Concat(parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		return renderConcat(e, b, parts)
	}
}

// Join renders parts, drops empty ones, and joins the rest with sep.
func Join(sep string, parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		rendered, err := renderParts(e, b, parts)
		if err != nil {
			return "", err
		}
		return strings.Join(rendered, sep), nil
	}
}

// Words joins non-empty parts with single spaces.
func Words(parts ...Template) Template {
	return Join(" ", parts...)
}

// Sentence joins non-empty parts with ", " and terminates the result
// with a period, unless it already ends in sentence punctuation.
func Sentence(parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		rendered, err := renderParts(e, b, parts)
		if err != nil {
			return "", err
		}
		out := strings.Join(rendered, ", ")
		if out == "" {
			return "", nil
		}
		return addPeriod(out), nil
	}
}

// FirstOf renders the first candidate that produces non-empty output
// with all its required fields present. If none does, it renders
// nothing.
func FirstOf(candidates ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		for _, c := range candidates {
			out, err := c(e, b)
			if err != nil {
				var missing *MissingFieldError
				if errors.As(err, &missing) {
					continue
				}
				return "", err
			}
			if out != "" {
				return out, nil
			}
		}
		return "", nil
	}
}

// Tag wraps the concatenated parts in a backend markup tag. Nothing is
// emitted when the parts render empty.
func Tag(name string, parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		inner, err := renderConcat(e, b, parts)
		if err != nil {
			return "", err
		}
		if inner == "" {
			return "", nil
		}
		return b.Tag(name, inner), nil
	}
}

// Newline renders the backend's block separator.
func Newline() Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		return b.Newline(), nil
	}
}

// Toplevel joins non-empty parts with spaces, except around newline
// markers, which sit flush against their neighbours.
func Toplevel(parts ...Template) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		rendered, err := renderParts(e, b, parts)
		if err != nil {
			return "", err
		}
		nl := b.Newline()
		var out strings.Builder
		prev := nl // suppress a leading newline
		for _, part := range rendered {
			if part == nl && prev == nl {
				continue // collapse separators around omitted blocks
			}
			if out.Len() > 0 && part != nl && prev != nl {
				out.WriteString(" ")
			}
			out.WriteString(part)
			prev = part
		}
		return strings.TrimSuffix(out.String(), nl), nil
	}
}

// Pages renders the pages field verbatim.
func Pages() Template {
	return Field("pages")
}

// Date renders "month year"; either part may be absent.
func Date() Template {
	return Words(OptionalField("month"), OptionalField("year"))
}

// WebRefs renders trailing reference links: URL, DOI, and arXiv eprint,
// each its own sentence and each omitted when absent.
func WebRefs() Template {
	return Join(" ",
		urlRef("url", "URL:", func(v string) (string, string) { return v, v }),
		urlRef("doi", "doi:", func(v string) (string, string) {
			return "https://doi.org/" + v, v
		}),
		urlRef("eprint", "arXiv:", func(v string) (string, string) {
			return "https://arxiv.org/abs/" + v, v
		}),
	)
}

// urlRef renders "label <link>." for one link-bearing field.
func urlRef(field, label string, link func(v string) (url, text string)) Template {
	return func(e *bibtex.Entry, b Backend) (string, error) {
		v, ok := e.Lookup(field)
		if !ok {
			return "", nil
		}
		url, text := link(v)
		return addPeriod(b.Escape(label) + " " + b.Href(url, b.Escape(text))), nil
	}
}

func renderParts(e *bibtex.Entry, b Backend, parts []Template) ([]string, error) {
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		out, err := part(e, b)
		if err != nil {
			return nil, err
		}
		if out != "" {
			rendered = append(rendered, out)
		}
	}
	return rendered, nil
}

func renderConcat(e *bibtex.Entry, b Backend, parts []Template) (string, error) {
	var out strings.Builder
	for _, part := range parts {
		s, err := part(e, b)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	return out.String(), nil
}

func addPeriod(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
