// Package planfile turns uploaded plan documents into plain text.
package planfile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/example/archreview/internal/models"
)

type Kind string

const (
	KindText Kind = "text"
	KindHTML Kind = "html"
	KindPDF  Kind = "pdf"
)

// Detect picks an extractor from the file name, content type and magic bytes.
func Detect(filename, contentType string, data []byte) (Kind, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ctype := strings.ToLower(contentType)

	if bytes.HasPrefix(data, []byte("%PDF-")) || ext == "pdf" || strings.Contains(ctype, "pdf") {
		return KindPDF, nil
	}
	if ext == "html" || ext == "htm" || strings.Contains(ctype, "html") {
		return KindHTML, nil
	}
	switch ext {
	case "txt", "md", "markdown", "text", "rst", "adoc", "yaml", "yml", "json":
		return KindText, nil
	}
	if strings.HasPrefix(ctype, "text/") || strings.Contains(ctype, "json") || strings.Contains(ctype, "yaml") {
		return KindText, nil
	}
	head := strings.ToLower(string(data[:min(len(data), 512)]))
	if strings.Contains(head, "<html") || strings.Contains(head, "<body") {
		return KindHTML, nil
	}
	if ext == "" && utf8.Valid(data) {
		return KindText, nil
	}
	return "", models.NewError(models.KindValidation,
		fmt.Sprintf("unsupported plan file %q; upload text, markdown, HTML or PDF", filename), nil)
}

// Extract returns the plan text of an uploaded file. Files over maxBytes are
// rejected before parsing; maxBytes <= 0 disables the check.
func Extract(filename, contentType string, data []byte, maxBytes int) (string, error) {
	if maxBytes > 0 && len(data) > maxBytes {
		return "", models.NewError(models.KindValidation,
			fmt.Sprintf("plan file too large: %d bytes > limit %d", len(data), maxBytes), nil)
	}
	kind, err := Detect(filename, contentType, data)
	if err != nil {
		return "", err
	}
	var text string
	switch kind {
	case KindPDF:
		text, err = PDFText(data)
	case KindHTML:
		text, err = HTMLText(string(data))
	default:
		if !utf8.Valid(data) {
			return "", models.NewError(models.KindValidation, "plan file is not valid UTF-8 text", nil)
		}
		text = strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	}
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", models.NewError(models.KindValidation, "no text could be extracted from "+filename, nil)
	}
	return text, nil
}
