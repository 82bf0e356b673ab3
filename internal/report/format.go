package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/archreview/internal/models"
)

type Format string

const (
	FormatHuman    Format = "human"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatHuman, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: human, json, yaml, markdown, html)", s)
}

// ContentType is the MIME type used when a report is downloaded.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHTML:
		return "html"
	}
	return "md"
}

// Write renders a result in the given format. Failures are rendered too, so
// every format can carry an error banner.
func Write(w io.Writer, format Format, res models.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)
	case FormatMarkdown:
		if !res.OK() {
			_, err := fmt.Fprintf(w, "**Error (%s):** %s\n", res.Error.Kind, res.Error.Message)
			return err
		}
		_, err := io.WriteString(w, Markdown(res.Feedback, res.Model))
		return err
	case FormatHTML:
		if !res.OK() {
			frag, err := RenderHTML(fmt.Sprintf("**Error (%s):** %s\n", res.Error.Kind, res.Error.Message))
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, frag)
			return err
		}
		doc, err := Document(res.Feedback, res.Model)
		if err != nil {
			return err
		}
		_, err = w.Write(doc)
		return err
	default:
		Human(w, res)
		return nil
	}
}

// Filename is the timestamped download name for an exported report.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("architecture_analysis_%s.%s", now.Format("20060102_150405"), f.Extension())
}
