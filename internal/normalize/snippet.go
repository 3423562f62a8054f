package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// stripMarkup drops the <highlighttext> tags the API wraps around matched words.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
