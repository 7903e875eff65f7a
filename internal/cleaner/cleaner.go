package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)
	reBlankLines = regexp.MustCompile(`\n{3,}`)
)

// CleanHTML reduces an HTML email body to readable plain text: scripts,
// styles, and hidden elements are dropped, block boundaries become
// newlines, and runs of whitespace collapse. Non-HTML input passes
// through with only whitespace normalization.
func CleanHTML(raw string) (string, error) {
	if !strings.Contains(raw, "<") {
		return collapseWhitespace(raw), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, head, meta, link, noscript").Remove()
	doc.Find("[style*='display:none'], [style*='display: none']").Remove()

	// Preserve paragraph structure before flattening to text.
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, tr, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return collapseWhitespace(doc.Text()), nil
}

// Preview clips cleaned text to n runes for list views.
func Preview(text string, n int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(reWhitespace.ReplaceAllString(line, " ")))
	}
	joined := strings.Join(out, "\n")
	joined = reBlankLines.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
