package telegram

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageLength = 3900
	sourcePrefix     = "Источник: "
	ellipsis         = "..."
)

// ComposeMessage joins the non-empty parts with blank lines and ends with
// the source link. Messages over MaxMessageLength characters are cut and
// end with an ellipsis, so the result is never longer than the limit.
func ComposeMessage(title, lead, body, sourceURL string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{title, lead, body, sourcePrefix + sourceURL} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	message := strings.Join(parts, "\n\n")
	if utf8.RuneCountInString(message) <= MaxMessageLength {
		return message
	}

	keep := MaxMessageLength - utf8.RuneCountInString(ellipsis)
	i := 0
	for pos := range message {
		if i == keep {
			return message[:pos] + ellipsis
		}
		i++
	}
	return message
}
