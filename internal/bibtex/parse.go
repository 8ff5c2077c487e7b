package bibtex

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// ParseError describes a syntax error in a BibTeX source, with the line
// it was found on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseFile parses a BibTeX file into a Database.
func ParseFile(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	return parse(data)
}

// Parse parses BibTeX source from a reader into a Database.
func Parse(r io.Reader) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	return parse(data)
}

// parser walks raw BibTeX source. Anything outside @type{...} groups is
// treated as inter-entry comment text and skipped, which is how BibTeX
// itself behaves.
type parser struct {
	data []byte
	pos  int
	line int
}

func parse(data []byte) (*Database, error) {
	p := &parser{data: data, line: 1}
	db := NewDatabase()

	for {
		if !p.skipToEntry() {
			return db, nil
		}

		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			continue // @comment, @preamble, @string
		}
		if err := db.Add(entry); err != nil {
			return nil, p.errorf("%v", err)
		}
	}
}

// skipToEntry advances to the next '@' and consumes it.
// Returns false at end of input.
func (p *parser) skipToEntry() bool {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '\n' {
			p.line++
		}
		p.pos++
		if c == '@' {
			return true
		}
	}
	return false
}

func (p *parser) parseEntry() (*Entry, error) {
	entryType := strings.ToLower(p.readName())
	if entryType == "" {
		return nil, p.errorf("expected entry type after '@'")
	}

	p.skipSpace()
	open := p.peek()
	if open != '{' && open != '(' {
		return nil, p.errorf("expected '{' after @%s", entryType)
	}
	closer := byte('}')
	if open == '(' {
		closer = ')'
	}
	p.advance()

	// Directives carry no citation entry.
	switch entryType {
	case "comment", "preamble", "string":
		if err := p.skipGroup(open, closer); err != nil {
			return nil, err
		}
		return nil, nil
	}

	p.skipSpace()
	key := p.readUntil(',')
	if key == "" {
		return nil, p.errorf("missing citation key in @%s entry", entryType)
	}
	p.skipSpace()
	if p.peek() != ',' {
		return nil, p.errorf("expected ',' after citation key %q", key)
	}
	p.advance()

	entry := NewEntry(key, entryType)
	for {
		p.skipSpace()
		if p.peek() == closer {
			p.advance()
			return entry, nil
		}
		if p.peek() == 0 {
			return nil, p.errorf("unterminated @%s entry %q", entryType, key)
		}

		name := strings.ToLower(p.readName())
		if name == "" {
			return nil, p.errorf("expected field name in entry %q", key)
		}
		p.skipSpace()
		if p.peek() != '=' {
			return nil, p.errorf("expected '=' after field %q in entry %q", name, key)
		}
		p.advance()

		value, err := p.parseValue(key, name)
		if err != nil {
			return nil, err
		}
		entry.SetField(name, value)

		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
		}
	}
}

// parseValue reads one field value: braced, quoted, or bare parts
// concatenated with '#'. Whitespace runs inside values collapse to a
// single space.
func (p *parser) parseValue(key, field string) (string, error) {
	var parts []string
	for {
		p.skipSpace()
		var part string
		var err error
		switch c := p.peek(); {
		case c == '{':
			part, err = p.readBraced()
		case c == '"':
			part, err = p.readQuoted()
		case c == 0:
			err = p.errorf("unterminated value for field %q in entry %q", field, key)
		default:
			part = p.readBare()
			if part == "" {
				err = p.errorf("empty value for field %q in entry %q", field, key)
			}
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, part)

		p.skipSpace()
		if p.peek() != '#' {
			break
		}
		p.advance()
	}
	return collapseSpace(strings.Join(parts, "")), nil
}

// readBraced reads a {...} value with nested braces, returning the
// contents without the outer braces.
func (p *parser) readBraced() (string, error) {
	p.advance() // consume '{'
	start := p.pos
	depth := 1
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\n':
			p.line++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				value := string(p.data[start:p.pos])
				p.advance()
				return value, nil
			}
		}
		p.pos++
	}
	return "", p.errorf("unterminated '{' in value")
}

// readQuoted reads a "..." value. Braces inside quoted values protect
// quote characters, per BibTeX convention.
func (p *parser) readQuoted() (string, error) {
	p.advance() // consume '"'
	start := p.pos
	depth := 0
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '\n':
			p.line++
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				value := string(p.data[start:p.pos])
				p.advance()
				return value, nil
			}
		}
		p.pos++
	}
	return "", p.errorf(`unterminated '"' in value`)
}

// readBare reads an unquoted value: a number or a macro name. Macros are
// kept as their literal name; @string expansion is not supported.
func (p *parser) readBare() string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ',' || c == '#' || c == '}' || c == ')' || isSpace(c) {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// skipGroup consumes a balanced directive body, outer delimiter already
// consumed.
func (p *parser) skipGroup(open, closer byte) error {
	depth := 1
	for p.pos < len(p.data) {
		switch c := p.data[p.pos]; c {
		case '\n':
			p.line++
		case open:
			depth++
		case closer:
			depth--
		}
		p.pos++
		if depth == 0 {
			return nil
		}
	}
	return p.errorf("unterminated directive")
}

func (p *parser) readName() string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if !isNameByte(c) {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *parser) readUntil(stop byte) string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == stop || c == '}' || c == ')' || isSpace(c) {
			break
		}
		p.pos++
	}
	return strings.TrimSpace(string(p.data[start:p.pos]))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		if p.data[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.data) {
		if p.data[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c == '.' || c == ':' || c == '+' ||
		unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// collapseSpace collapses runs of whitespace to single spaces and trims
// the ends. Field values in .bib files are routinely wrapped across
// lines.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
