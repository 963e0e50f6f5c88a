package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFence removes a fenced code block wrapper: when the reply starts with
// ``` and has at least three lines, the first and last lines are dropped.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}

// DecodeReply unfences a model reply and decodes it into v. Any failure is
// reported as a *GenerationError.
func DecodeReply(text string, v any) error {
	if err := json.Unmarshal([]byte(StripFence(text)), v); err != nil {
		return &GenerationError{Op: "decode", Err: fmt.Errorf("reply is not valid JSON: %w", err)}
	}
	return nil
}
