package report

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/example/archreview/internal/models"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	htmlPolicy = bluemonday.UGCPolicy().
			RequireNoFollowOnLinks(true).
			AllowAttrs("class").OnElements("code", "pre")
)

// RenderHTML converts report markdown into an HTML fragment that is safe to
// inject into the page.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return htmlPolicy.Sanitize(buf.String()), nil
}

// HTML renders feedback straight to a sanitised fragment.
func HTML(f *models.Feedback, model string) (string, error) {
	return RenderHTML(Markdown(f, model))
}

var documentTmpl = template.Must(template.New("doc").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Architecture Analysis{{if .Model}} ({{.Model}}){{end}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; color: #222; }
h2 { border-bottom: 2px solid #667eea; padding-bottom: .3rem; }
h3 { color: #764ba2; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Document wraps the fragment in a standalone page for download.
func Document(f *models.Feedback, model string) ([]byte, error) {
	frag, err := HTML(f, model)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = documentTmpl.Execute(&buf, struct {
		Model string
		Body  template.HTML
	}{Model: model, Body: template.HTML(frag)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
