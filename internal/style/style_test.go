package style

import (
	"errors"
	"strings"
	"testing"

	"github.com/matsen/publist/internal/bibtex"
)

func entryWith(t *testing.T, typ string, fields map[string]string) *bibtex.Entry {
	t.Helper()
	e := bibtex.NewEntry("test-key", typ)
	for name, value := range fields {
		e.SetField(name, value)
	}
	return e
}

func TestFormat_ArticlePagesOnly(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Foo",
		"author":  "A. Bee",
		"journal": "J",
		"year":    "2020",
		"pages":   "1-9",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{
		"<strong>Foo</strong>.",
		"A. Bee.",
		"<em>J</em>",
		"pages 1-9",
		"2020",
		"<br>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, ":1-9") {
		t.Errorf("Format() should not emit a volume clause without volume, got:\n%s", got)
	}
}

func TestFormat_ArticleVolumeNumberPages(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Deep Results",
		"author":  "Smith, John",
		"journal": "Nature",
		"year":    "2021",
		"volume":  "12",
		"number":  "3",
		"pages":   "100-110",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "12(3):100-110") {
		t.Errorf("Format() should prefer volume(number):pages, got:\n%s", got)
	}
	if strings.Contains(got, "pages 100-110") {
		t.Errorf("Format() should not fall back to pages-only, got:\n%s", got)
	}
}

func TestFormat_ArticleVolumeWithoutNumber(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Partial Fields",
		"author":  "Smith, John",
		"journal": "Nature",
		"volume":  "8",
		"pages":   "20-30",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "8:20-30") {
		t.Errorf("Format() should emit volume:pages without number, got:\n%s", got)
	}
	if strings.Contains(got, "(") {
		t.Errorf("Format() should omit the number parens, got:\n%s", got)
	}
}

func TestFormat_ArticleVolumeWithoutPages(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "No Pages",
		"author":  "Smith, John",
		"journal": "Nature",
		"volume":  "99",
		"year":    "2018",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	// Neither candidate has its fields: the whole clause drops.
	if strings.Contains(got, "99") {
		t.Errorf("Format() should omit the volume clause without pages, got:\n%s", got)
	}
}

func TestFormat_Inproceedings(t *testing.T) {
	e := entryWith(t, "inproceedings", map[string]string{
		"title":     "Workshop Findings",
		"author":    "Brown, Alice and Green, Bob",
		"booktitle": "Proceedings of the Findings Workshop",
		"address":   "Lisbon",
		"publisher": "ACM",
		"year":      "2019",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{
		"<strong>Workshop Findings</strong>.",
		"A. Brown and B. Green.",
		"In Proceedings of the Findings Workshop",
		"Lisbon, ACM",
		"2019",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, got)
		}
	}
}

func TestFormat_InproceedingsVolumeAndSeries(t *testing.T) {
	e := entryWith(t, "inproceedings", map[string]string{
		"title":     "Series Paper",
		"author":    "Brown, Alice",
		"booktitle": "Big Conference",
		"volume":    "4",
		"series":    "LNCS",
		"year":      "2017",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "volume 4 of <em>LNCS</em>") {
		t.Errorf("Format() should render volume and series, got:\n%s", got)
	}
}

func TestFormat_TechreportDefaultType(t *testing.T) {
	e := entryWith(t, "techreport", map[string]string{
		"title":       "Internal Findings",
		"author":      "Doe, Jane",
		"institution": "MIT",
		"number":      "TR-42",
		"year":        "2015",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{"Technical Report TR-42", "MIT", "2015"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, got)
		}
	}
}

func TestFormat_TechreportExplicitType(t *testing.T) {
	e := entryWith(t, "techreport", map[string]string{
		"title":       "White Paper Findings",
		"author":      "Doe, Jane",
		"institution": "MIT",
		"type":        "White Paper",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "White Paper") {
		t.Errorf("Format() should use the type field, got:\n%s", got)
	}
	if strings.Contains(got, "Technical Report") {
		t.Errorf("Format() should not fall back to the default label, got:\n%s", got)
	}
}

func TestFormat_FallbackForUnknownType(t *testing.T) {
	e := entryWith(t, "misc", map[string]string{
		"title":        "Random Notes",
		"howpublished": "Self-published",
		"year":         "2011",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{"<strong>Random Notes</strong>.", "Self-published", "2011"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() missing %q, got:\n%s", want, got)
		}
	}
}

func TestFormat_MissingTitleFails(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"author":  "Smith, John",
		"journal": "Nature",
	})

	_, err := NewFormatter(HTMLBackend{}).Format(e)
	if err == nil {
		t.Fatal("Format() should fail without a title")
	}
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("error should be *MissingFieldError, got %T", err)
	}
	if missing.Field != "title" {
		t.Errorf("MissingFieldError.Field = %q, want title", missing.Field)
	}
}

func TestFormat_MissingAuthorFails(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Orphan Paper",
		"journal": "Nature",
	})

	if _, err := NewFormatter(HTMLBackend{}).Format(e); err == nil {
		t.Fatal("Format() should fail without an author")
	}
}

func TestFormat_MissingOptionalFieldsSucceed(t *testing.T) {
	// Bare minimum for each dedicated layout: everything optional
	// should silently drop.
	tests := []struct {
		typ    string
		fields map[string]string
	}{
		{"article", map[string]string{"title": "T", "author": "A. Bee", "journal": "J"}},
		{"inproceedings", map[string]string{"title": "T", "author": "A. Bee", "booktitle": "B"}},
		{"techreport", map[string]string{"title": "T", "author": "A. Bee", "institution": "I"}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			e := entryWith(t, tt.typ, tt.fields)
			if _, err := NewFormatter(HTMLBackend{}).Format(e); err != nil {
				t.Errorf("Format() error: %v", err)
			}
		})
	}
}

func TestFormat_EscapesHTML(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Tags <weird> & Entities",
		"author":  "Smith, John",
		"journal": "Nature",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "Tags &lt;weird&gt; &amp; Entities") {
		t.Errorf("Format() should escape HTML in field values, got:\n%s", got)
	}
}

func TestFormat_WebRefs(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Linked Paper",
		"author":  "Smith, John",
		"journal": "Nature",
		"doi":     "10.1234/abcd",
		"url":     "https://example.org/paper",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, `<a href="https://doi.org/10.1234/abcd">10.1234/abcd</a>`) {
		t.Errorf("Format() should link the DOI, got:\n%s", got)
	}
	if !strings.Contains(got, `<a href="https://example.org/paper">`) {
		t.Errorf("Format() should link the URL, got:\n%s", got)
	}
}

func TestFormat_NoteIsOwnSentence(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Annotated Paper",
		"author":  "Smith, John",
		"journal": "Nature",
		"note":    "To appear",
	})

	got, err := NewFormatter(HTMLBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if !strings.Contains(got, "To appear.") {
		t.Errorf("Format() should terminate the note as a sentence, got:\n%s", got)
	}
}

func TestFormat_TextBackend(t *testing.T) {
	e := entryWith(t, "article", map[string]string{
		"title":   "Plain Paper",
		"author":  "Smith, John",
		"journal": "Nature",
		"year":    "2020",
	})

	got, err := NewFormatter(TextBackend{}).Format(e)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	if strings.Contains(got, "<") {
		t.Errorf("TextBackend output should carry no markup, got:\n%s", got)
	}
	if !strings.Contains(got, "Plain Paper.\nJ. Smith.\n") {
		t.Errorf("TextBackend should separate blocks with newlines, got:\n%s", got)
	}
}
