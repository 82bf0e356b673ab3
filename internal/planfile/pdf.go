package planfile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/example/archreview/internal/models"
)

// PDFText extracts the plain text of every page, separated by blank lines.
func PDFText(data []byte) (text string, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", models.NewError(models.KindValidation, fmt.Sprintf("cannot read PDF: %v", r), nil)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.NewError(models.KindValidation, "cannot read PDF", err)
	}
	var out strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", models.NewError(models.KindValidation, fmt.Sprintf("cannot read PDF page %d", i), err)
		}
		if t := strings.TrimSpace(txt); t != "" {
			out.WriteString(t)
			out.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(out.String()), nil
}
