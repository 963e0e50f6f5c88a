package llm

import (
	"context"
	"fmt"
	"log/slog"
)

const FallbackReason = "fallback"

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type RankedArticle struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type rankReply struct {
	Items *[]RankedArticle `json:"items"`
}

type Ranker struct {
	completer Completer
}

func NewRanker(completer Completer) *Ranker {
	return &Ranker{completer: completer}
}

// Rank asks the model for the topK most interesting briefs. It never fails:
// any problem with the call or the reply falls back to the first topK briefs
// in input order. URLs are returned as the model wrote them; matching them
// against known articles is up to the caller.
func (r *Ranker) Rank(ctx context.Context, briefs []Brief, topK int) []RankedArticle {
	if topK <= 0 || len(briefs) == 0 {
		return []RankedArticle{}
	}

	ranked, err := r.rank(ctx, briefs, topK)
	if err != nil {
		slog.Warn("Ranking failed, using fallback selection", "top_k", topK, "error", err)
		return fallback(briefs, topK)
	}

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

func (r *Ranker) rank(ctx context.Context, briefs []Brief, topK int) ([]RankedArticle, error) {
	prompt, err := rankPrompt(briefs, topK)
	if err != nil {
		return nil, err
	}

	text, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var reply rankReply
	if err := DecodeReply(text, &reply); err != nil {
		return nil, err
	}
	if reply.Items == nil {
		return nil, &GenerationError{Op: "decode", Err: fmt.Errorf("reply has no items")}
	}

	return *reply.Items, nil
}

func fallback(briefs []Brief, topK int) []RankedArticle {
	n := min(topK, len(briefs))
	ranked := make([]RankedArticle, 0, n)
	for _, brief := range briefs[:n] {
		ranked = append(ranked, RankedArticle{URL: brief.URL, Title: brief.Title, Reason: FallbackReason})
	}
	return ranked
}
