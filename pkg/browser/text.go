package browser

import (
	"strings"

	"golang.org/x/net/html"
)

// visibleText extracts the text a guest would actually see from raw
// HTML. It feeds the blank-page heuristics, so it must never invent
// content: scripts, styles and other non-rendered elements contribute
// nothing.
func visibleText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	collectText(doc, &builder)
	return strings.TrimSpace(builder.String())
}

// collectText walks the node tree appending rendered text, separated by
// single spaces.
func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isNonRenderedElement(strings.ToLower(n.Data)) {
		return
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(text)
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}

// isNonRenderedElement returns true for elements whose text content
// never renders on the page.
func isNonRenderedElement(tagName string) bool {
	nonRendered := map[string]bool{
		"script":   true,
		"style":    true,
		"noscript": true,
		"head":     true,
		"title":    true,
		"meta":     true,
		"link":     true,
		"template": true,
		"iframe":   true,
		"embed":    true,
		"object":   true,
	}
	return nonRendered[tagName]
}
