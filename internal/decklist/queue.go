package decklist

import (
	"context"

	"github.com/arcanaland/decktech/internal/card"
)

// lookupQueue hands names to the fetcher strictly one at a time. The next lookup
// is not submitted until the previous result has been received.
type lookupQueue struct {
	fetcher Fetcher
}

func newLookupQueue(fetcher Fetcher) *lookupQueue {
	return &lookupQueue{fetcher: fetcher}
}

func (q *lookupQueue) resolve(ctx context.Context, name string) (card.ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return card.ImageRef{}, err
	}

	image := q.fetcher.FetchCardInfo(ctx, name)

	// The fetcher absorbs its own failures; a cancelled run must not keep the
	// empty result it produced.
	if err := ctx.Err(); err != nil {
		return card.ImageRef{}, err
	}
	return image, nil
}
