// Package pdf verifies PDF files linked from bibliography entries.
package pdf

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Verify opens a PDF file and returns its page count. A file that
// cannot be opened as a PDF, or that has no pages, is an error.
func Verify(filePath string) (int, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}
