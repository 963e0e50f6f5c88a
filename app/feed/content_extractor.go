package feed

import (
	"log/slog"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/PuerkitoBio/goquery"
)

// ReadabilityRule runs the readability algorithm over the whole page. It is
// meant as the last content rule, for pages none of the profile selectors
// match.
func ReadabilityRule(pageURL string) Rule[Content] {
	return func(doc *goquery.Selection) (Content, bool) {
		page, err := goquery.OuterHtml(doc)
		if err != nil || page == "" {
			return Content{}, false
		}

		u, err := url.Parse(pageURL)
		if err != nil {
			u = nil
		}

		article, err := readability.FromReader(strings.NewReader(page), u)
		if err != nil {
			slog.Debug("Readability extraction failed", "url", pageURL, "error", err)
			return Content{}, false
		}

		var textBuf strings.Builder
		if err := article.RenderText(&textBuf); err != nil {
			return Content{}, false
		}
		text := normalizeLines(textBuf.String())
		if text == "" {
			return Content{}, false
		}

		var htmlBuf strings.Builder
		if err := article.RenderHTML(&htmlBuf); err != nil {
			return Content{}, false
		}

		slog.Debug("Content extracted with readability", "url", pageURL, "content_length", len(text))
		return Content{HTML: strings.TrimSpace(htmlBuf.String()), Text: text}, true
	}
}

func normalizeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
