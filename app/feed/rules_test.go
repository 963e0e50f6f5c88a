package feed

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, page string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc.Selection
}

func TestFirstMatch_FirstNonEmptyWins(t *testing.T) {
	doc := parseDoc(t, `<html><body><h1>  </h1><h2>Second</h2><h3>Third</h3></body></html>`)

	rules := []Rule[string]{
		TextRule(Selector{CSS: "h1"}),
		TextRule(Selector{CSS: "h2"}),
		TextRule(Selector{CSS: "h3"}),
	}

	got, ok := FirstMatch(doc, rules)
	if !ok {
		t.Fatal("Expected a match")
	}
	if got != "Second" {
		t.Errorf("Expected 'Second', got: %s", got)
	}
}

func TestFirstMatch_NoRules(t *testing.T) {
	doc := parseDoc(t, `<html><body><h1>Title</h1></body></html>`)

	got, ok := FirstMatch[string](doc, nil)
	if ok || got != "" {
		t.Errorf("Expected no match, got: %q", got)
	}
}

func TestTextRule_Attribute(t *testing.T) {
	doc := parseDoc(t, `<html><body><time datetime=" 2024-01-01T00:00:00Z ">yesterday</time></body></html>`)

	got, ok := TextRule(Selector{CSS: "time[datetime]", Attr: "datetime"})(doc)
	if !ok || got != "2024-01-01T00:00:00Z" {
		t.Errorf("Expected trimmed attribute value, got: %q (%v)", got, ok)
	}

	_, ok = TextRule(Selector{CSS: "time", Attr: "title"})(doc)
	if ok {
		t.Error("Expected missing attribute not to match")
	}
}

func TestContentRule_SkipsScripts(t *testing.T) {
	doc := parseDoc(t, `<html><body><div class="c"> <p>One</p> <style>p{}</style> <p>Two</p> </div></body></html>`)

	content, ok := ContentRule("div.c")(doc)
	if !ok {
		t.Fatal("Expected content to match")
	}
	if content.Text != "One\nTwo" {
		t.Errorf("Expected 'One\\nTwo', got: %q", content.Text)
	}
	if !strings.HasPrefix(content.HTML, `<div class="c">`) {
		t.Errorf("Expected outer HTML of the element, got: %s", content.HTML)
	}
}

func TestListRule_EmptyWhenNothingMatches(t *testing.T) {
	doc := parseDoc(t, `<html><body><ul><li> </li></ul></body></html>`)

	values, ok := ListRule("li")(doc)
	if ok || len(values) != 0 {
		t.Errorf("Expected no values, got: %v", values)
	}
}
