package parser

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// blockTags separate text runs in the extracted output. Inline markup inside
// a run stays on the same line.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "br": true, "div": true, "dl": true, "dt": true, "dd": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "title": true, "tr": true, "ul": true,
}

// extractHTMLText returns the visible text of a document: markup, scripts and
// styles elided, with single newlines between block-level runs.
func extractHTMLText(raw []byte) string {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		logger.Warn("Malformed HTML document", "error", err)
		return ""
	}

	var runs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, strings.Join(current, " "))
			current = nil
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				current = append(current, t)
			}
			return
		case html.ElementNode:
			if skippedTags[n.Data] {
				return
			}
			if blockTags[n.Data] {
				flush()
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if blockTags[n.Data] {
				flush()
			}
			return
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(doc)
	flush()

	return strings.Join(runs, "\n")
}
