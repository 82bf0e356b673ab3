package planfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/archreview/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ctype    string
		data     string
		want     Kind
	}{
		{"markdown ext", "plan.md", "", "# Plan", KindText},
		{"txt ext", "plan.TXT", "", "plan", KindText},
		{"html ext", "plan.htm", "", "<p>x</p>", KindHTML},
		{"html content type", "upload", "text/html; charset=utf-8", "<p>x</p>", KindHTML},
		{"pdf magic wins", "plan.txt", "", "%PDF-1.4\n", KindPDF},
		{"pdf content type", "blob", "application/pdf", "xx", KindPDF},
		{"sniffed html", "blob.dat", "application/octet-stream", "<html><body>x</body></html>", KindHTML},
		{"no extension utf8", "PLAN", "", "just words", KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.filename, tt.ctype, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectRejectsBinary(t *testing.T) {
	_, err := Detect("diagram.png", "image/png", []byte{0x89, 'P', 'N', 'G', 0xff})
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestHTMLText(t *testing.T) {
	doc := `<html><head><title>t</title><style>p{}</style></head><body>
<h1>Checkout   service</h1>
<p>Three pods behind an ALB.</p>
<script>alert(1)</script>
<ul><li>Postgres primary</li><li>Redis cache</li></ul>
</body></html>`
	got, err := HTMLText(doc)
	require.NoError(t, err)
	assert.Equal(t, "Checkout service\nThree pods behind an ALB.\nPostgres primary\nRedis cache", got)
}

func TestExtractText(t *testing.T) {
	got, err := Extract("plan.md", "text/markdown", []byte("  # Plan\r\nOne DB.\r\n\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "# Plan\nOne DB.", got)
}

func TestExtractLimits(t *testing.T) {
	_, err := Extract("plan.txt", "", []byte(strings.Repeat("a", 11)), 10)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
	assert.Contains(t, err.Error(), "too large")

	_, err = Extract("plan.txt", "", []byte("   \n\t"), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")

	_, err = Extract("plan.txt", "", []byte{0xff, 0xfe, 'a'}, 0)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract("plan.pdf", "application/pdf", []byte("%PDF-1.4\nnot really a pdf"), 0)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}
