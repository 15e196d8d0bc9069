package ingest

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	ExtractText(data []byte) string
}

// PDFExtractor reads text from PDF bytes. Extraction is best effort:
// scanned, encrypted, or malformed documents yield an empty string,
// never an error.
type PDFExtractor struct{}

// ExtractText implements Extractor.
func (PDFExtractor) ExtractText(data []byte) (text string) {
	// The reader panics on some malformed files.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String()
}
