package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Rule extracts a value from a parsed page. It reports false when the page
// does not match, so the next rule in the list gets a chance.
type Rule[T any] func(doc *goquery.Selection) (T, bool)

// FirstMatch applies rules in order and returns the first match.
func FirstMatch[T any](doc *goquery.Selection, rules []Rule[T]) (T, bool) {
	for _, rule := range rules {
		if value, ok := rule(doc); ok {
			return value, true
		}
	}

	var zero T
	return zero, false
}

// TextRule reads the first element matching the selector: its attribute
// when one is set, its trimmed text otherwise.
func TextRule(sel Selector) Rule[string] {
	return func(doc *goquery.Selection) (string, bool) {
		value := selectValue(doc, sel)
		return value, value != ""
	}
}

// ContentRule takes the first element matching css as the article body.
func ContentRule(css string) Rule[Content] {
	return func(doc *goquery.Selection) (Content, bool) {
		body := doc.Find(css).First()
		if body.Length() == 0 {
			return Content{}, false
		}

		outer, err := goquery.OuterHtml(body)
		if err != nil {
			return Content{}, false
		}

		return Content{HTML: outer, Text: joinedText(body, "\n")}, true
	}
}

// ListRule collects the trimmed, non-empty texts of every element matching css.
func ListRule(css string) Rule[[]string] {
	return func(doc *goquery.Selection) ([]string, bool) {
		var values []string
		doc.Find(css).Each(func(_ int, s *goquery.Selection) {
			if text := joinedText(s, ""); text != "" {
				values = append(values, text)
			}
		})
		return values, len(values) > 0
	}
}

func selectValue(doc *goquery.Selection, sel Selector) string {
	if sel.IsZero() {
		return ""
	}

	node := doc.Find(sel.CSS).First()
	if node.Length() == 0 {
		return ""
	}

	if sel.Attr != "" {
		value, _ := node.Attr(sel.Attr)
		return strings.TrimSpace(value)
	}

	return joinedText(node, "")
}

// joinedText returns the element's text nodes, each trimmed, empty ones
// dropped, joined with sep. Script and style contents are skipped.
func joinedText(s *goquery.Selection, sep string) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range s.Nodes {
		walk(n)
	}

	return strings.Join(parts, sep)
}
