package feed

import (
	"context"
	"fmt"
)

// Reader fetches the profile's feed endpoint and lists its items.
type Reader struct {
	client   *Client
	profile  *Profile
	parser   *Parser
	filterer *Filterer
}

func NewReader(client *Client, profile *Profile) *Reader {
	return &Reader{
		client:   client,
		profile:  profile,
		parser:   NewParser(profile),
		filterer: NewFilterer(),
	}
}

// FetchFeed returns the feed items in feed order. A fetch failure is
// returned as is; callers treat it as fatal.
func (r *Reader) FetchFeed(ctx context.Context) ([]FeedItem, error) {
	data, err := r.client.Get(ctx, r.profile.FeedURL)
	if err != nil {
		return nil, err
	}

	items, err := r.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", r.profile.FeedURL, err)
	}

	return r.filterer.Run(items, r.profile.Filters), nil
}
