package shipstream

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var multiBlankPattern = regexp.MustCompile(`\n{3,}`)

// LooksLikeHTML sniffs whether a non-JSON body is an HTML page. Gateways
// and proxies answer API calls with HTML error pages often enough that the
// raw section special-cases them.
func LooksLikeHTML(body string) bool {
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// HTMLToText reduces an HTML error page to its readable text so the raw
// section stays diagnosable. On a parse failure the input is returned
// unchanged; this path never loses the body.
func HTMLToText(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}
	var sb strings.Builder
	collectText(doc, &sb, 0)

	out := multiBlankPattern.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}

func collectText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 50 {
		return
	}
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg":
			return
		case "title", "h1", "h2", "h3", "p", "div", "li", "br", "tr":
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb, depth+1)
	}
}
