// Package style renders bibliography entries into citation text.
//
// Citations are composed from small template functions (fields, joins,
// sentences) dispatched per entry type, with a pluggable backend that
// controls escaping and markup.
package style

import "html"

// Backend controls output escaping and markup for a rendering target.
type Backend interface {
	// Escape escapes raw field text for the output format.
	Escape(s string) string
	// Tag wraps already-rendered text in a markup tag such as "strong".
	Tag(name, inner string) string
	// Href renders a hyperlink with already-escaped label text.
	Href(url, label string) string
	// Newline returns the block separator marker.
	Newline() string
}

// HTMLBackend renders citations as HTML fragments.
type HTMLBackend struct{}

func (HTMLBackend) Escape(s string) string { return html.EscapeString(s) }

func (HTMLBackend) Tag(name, inner string) string {
	return "<" + name + ">" + inner + "</" + name + ">"
}

func (HTMLBackend) Href(url, label string) string {
	return `<a href="` + html.EscapeString(url) + `">` + label + `</a>`
}

func (HTMLBackend) Newline() string { return "<br>" }

// TextBackend renders citations as plain text, for terminal output.
type TextBackend struct{}

func (TextBackend) Escape(s string) string { return s }

func (TextBackend) Tag(name, inner string) string { return inner }

func (TextBackend) Href(url, label string) string { return label + " <" + url + ">" }

func (TextBackend) Newline() string { return "\n" }
