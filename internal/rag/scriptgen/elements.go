package scriptgen

import (
	"os"
	"strings"

	"golang.org/x/net/html"
)

// UIElement is one interactive-element record handed to the model so it can
// pick locators. Absent attributes default to empty strings.
type UIElement struct {
	Tag         string `json:"tag"`
	Id          string `json:"id"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	Placeholder string `json:"placeholder"`
	Text        string `json:"text"`
}

// ExtractUIElements captures every element of the stored HTML document in
// document order. An unreadable or unparseable file yields an empty list, not
// an error.
func ExtractUIElements(htmlPath string) []UIElement {
	raw, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil
	}

	var elements []UIElement
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			elements = append(elements, UIElement{
				Tag:         n.Data,
				Id:          attr(n, "id"),
				Name:        attr(n, "name"),
				Class:       strings.Join(strings.Fields(attr(n, "class")), " "),
				Placeholder: attr(n, "placeholder"),
				Text:        innerText(n),
			})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return elements
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// innerText joins the stripped text of n and its descendants.
func innerText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
