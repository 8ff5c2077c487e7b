package style

import (
	"fmt"

	"github.com/matsen/publist/internal/bibtex"
)

// Formatter renders entries to citation text, dispatching on the entry
// type tag. Unrecognized types fall back to a generic layout.
type Formatter struct {
	backend   Backend
	templates map[string]Template
	fallback  Template
}

// NewFormatter creates a formatter for the given backend with the
// built-in article, inproceedings, and techreport layouts.
func NewFormatter(b Backend) *Formatter {
	return &Formatter{
		backend: b,
		templates: map[string]Template{
			"article":       articleTemplate(),
			"inproceedings": inproceedingsTemplate(),
			"techreport":    techreportTemplate(),
		},
		fallback: genericTemplate(),
	}
}

// Format renders one entry. Missing optional fields silently drop
// their clause; a missing required field (title, author) is an error.
func (f *Formatter) Format(e *bibtex.Entry) (string, error) {
	tmpl, ok := f.templates[e.Type]
	if !ok {
		tmpl = f.fallback
	}
	text, err := tmpl(e, f.backend)
	if err != nil {
		return "", fmt.Errorf("formatting entry %q: %w", e.Key, err)
	}
	return text, nil
}

// boldTitle renders the title as its own bolded sentence.
func boldTitle() Template {
	return Sentence(Tag("strong", Field("title")))
}

// authors renders the author list as its own sentence.
func authors() Template {
	return Sentence(Names("author"))
}

func articleTemplate() Template {
	// Prefer "volume(number):pages"; fall back to "pages N"; drop the
	// clause when neither is available.
	volumeAndPages := FirstOf(
		Optional(Concat(
			Field("volume"),
			Optional(Text("("), Field("number"), Text(")")),
			Text(":"),
			Pages(),
		)),
		Optional(Words(Text("pages"), Pages())),
	)
	return Toplevel(
		boldTitle(),
		Newline(),
		authors(),
		Newline(),
		Sentence(
			Tag("em", Field("journal")),
			volumeAndPages,
			Date(),
		),
		Sentence(OptionalField("note")),
		WebRefs(),
	)
}

func inproceedingsTemplate() Template {
	return Toplevel(
		boldTitle(),
		Newline(),
		authors(),
		Newline(),
		Words(
			Text("In"),
			Sentence(
				Optional(Names("editor"), Text(", editors")),
				Field("booktitle"),
				volumeAndSeries(),
				Join(", ",
					OptionalField("address"),
					OptionalField("organization"),
					OptionalField("publisher"),
				),
				Date(),
			),
		),
		Sentence(OptionalField("note")),
		WebRefs(),
	)
}

// volumeAndSeries renders "volume N of Series" or "number N in Series",
// either part omittable.
func volumeAndSeries() Template {
	return FirstOf(
		Optional(Words(Text("volume"), Field("volume"), Optional(Words(Text("of"), Tag("em", Field("series")))))),
		Optional(Words(Text("number"), Field("number"), Optional(Words(Text("in"), Tag("em", Field("series")))))),
		Optional(Tag("em", Field("series"))),
	)
}

func techreportTemplate() Template {
	return Toplevel(
		boldTitle(),
		Newline(),
		authors(),
		Newline(),
		Sentence(
			Words(
				FirstOf(
					OptionalField("type"),
					Text("Technical Report"),
				),
				OptionalField("number"),
			),
			Field("institution"),
			OptionalField("address"),
			Date(),
		),
		Sentence(OptionalField("note")),
		WebRefs(),
	)
}

// genericTemplate is the fallback for entry types without a dedicated
// layout (misc, phdthesis, book, ...). Only the title is required.
func genericTemplate() Template {
	return Toplevel(
		boldTitle(),
		Newline(),
		Optional(authors()),
		Newline(),
		Sentence(
			FirstOf(
				Optional(Tag("em", Field("journal"))),
				Optional(Field("booktitle")),
				OptionalField("howpublished"),
				OptionalField("institution"),
				OptionalField("school"),
				OptionalField("publisher"),
			),
			Date(),
		),
		Sentence(OptionalField("note")),
		WebRefs(),
	)
}
