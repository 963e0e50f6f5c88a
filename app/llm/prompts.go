package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func rankPrompt(briefs []Brief, topK int) (string, error) {
	articles, err := indentJSON(briefs)
	if err != nil {
		return "", err
	}

	return "You are an editor for Yandex Zen. Select the most interesting posts for a broad audience. " +
		`Return JSON only: {"items": [{"url": "...", "title": "...", "reason": "..."}]} ` +
		fmt.Sprintf("Choose exactly %d items. Use the input list, keep urls exact.\n\n", topK) +
		"Articles:\n" + articles, nil
}

func postPrompt(brief Brief) (string, error) {
	article, err := indentJSON(brief)
	if err != nil {
		return "", err
	}

	return "Write a Yandex Zen post in Russian based on the article data. " +
		"Keep it engaging for a broad audience and avoid clickbait. " +
		`Return JSON only: {"title": "...", "lead": "...", "body": "..."}.` + "\n\n" +
		article, nil
}

// indentJSON keeps non-ASCII text and markup characters unescaped so the
// model sees the article as written.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode prompt data: %w", err)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
