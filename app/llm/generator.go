package llm

import (
	"context"
	"strings"
)

type GeneratedPost struct {
	Title string `json:"title"`
	Lead  string `json:"lead"`
	Body  string `json:"body"`
}

type PostGenerator struct {
	completer Completer
}

func NewPostGenerator(completer Completer) *PostGenerator {
	return &PostGenerator{completer: completer}
}

// Generate rewrites a single article into a post. Fields come back trimmed;
// an empty body is not an error here, the caller decides to skip it.
func (g *PostGenerator) Generate(ctx context.Context, brief Brief) (*GeneratedPost, error) {
	prompt, err := postPrompt(brief)
	if err != nil {
		return nil, &GenerationError{Op: "request", Err: err}
	}

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var post GeneratedPost
	if err := DecodeReply(text, &post); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(post.Title)
	post.Lead = strings.TrimSpace(post.Lead)
	post.Body = strings.TrimSpace(post.Body)

	return &post, nil
}
