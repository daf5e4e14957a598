// Package extract reduces rendered HTML to the page's visible text. Scripts,
// styles, and chrome elements are dropped; the main content container is
// preferred over the whole body so navigation noise stays out of summaries.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never contribute visible prose.
const strippedSelector = "script, style, noscript, iframe, svg, nav, header, footer, aside, form, button, figure, img"

// Candidate containers for the page's primary content, most specific first.
var mainSelectors = []string{"article", "main", "[role=main]", "#content", "#main", ".content", ".post", ".article"}

var (
	multiNewline = regexp.MustCompile(`\n\s*\n+`)
	multiSpace   = regexp.MustCompile(`[ \t]{2,}`)
)

// Extractor implements the text-extraction capability.
type Extractor struct{}

// New returns a ready extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the visible text of the document, or "" when the HTML
// cannot be parsed or holds no text.
func (e *Extractor) Extract(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	doc.Find(strippedSelector).Remove()

	for _, sel := range mainSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := clean(node.Text()); text != "" {
				return text
			}
		}
	}

	// No recognizable container: join paragraph text, then fall back to the
	// whole body.
	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	if len(paragraphs) > 0 {
		return clean(strings.Join(paragraphs, "\n"))
	}

	return clean(doc.Find("body").Text())
}

func clean(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = multiSpace.ReplaceAllString(s, " ")
	s = multiNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
