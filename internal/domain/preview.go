package domain

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const previewMaxLen = 280

// PreviewFromHTML derives a plain-text preview from an HTML article body.
// Used when the backend omits the contentPreview field.
func PreviewFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncatePreview(html)
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncatePreview(text)
}

func truncatePreview(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= previewMaxLen {
		return s
	}
	return strings.TrimSpace(string(runes[:previewMaxLen])) + "..."
}
