package planfile

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/example/archreview/internal/models"
)

// HTMLText flattens an HTML document to text, one block element per line.
func HTMLText(doc string) (string, error) {
	node, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", models.NewError(models.KindValidation, "cannot parse HTML plan", err)
	}
	var b strings.Builder
	walkText(node, &b, false)
	return compactWhitespace(b.String()), nil
}

func walkText(n *html.Node, b *strings.Builder, hidden bool) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template", "head":
			hidden = true
		case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6", "pre", "section", "article":
			b.WriteString("\n")
		}
	}
	if !hidden && n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b, hidden)
	}
}

func compactWhitespace(s string) string {
	s = strings.NewReplacer("\t", " ", "\r", " ").Replace(s)
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.Join(strings.Fields(ln), " "); ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
