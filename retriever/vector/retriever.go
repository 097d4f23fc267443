package vector

import (
	"context"
	"errors"
	"log/slog"

	"github.com/w-h-a/finrag/retriever"
	"github.com/w-h-a/finrag/store"
)

type vectorRetriever struct {
	options retriever.Options
}

func (r *vectorRetriever) Retrieve(ctx context.Context, query string, ownerId string, opts ...retriever.RetrieveOption) ([]retriever.Result, error) {
	options := retriever.NewRetrieveOptions(opts...)

	if len(ownerId) == 0 {
		return nil, &retriever.RetrievalError{OwnerId: ownerId, Err: errors.New("owner id is required")}
	}

	if r.options.SessionScoping && len(options.SessionId) == 0 {
		return nil, retriever.ErrMissingSession
	}

	intent := retriever.DetectIntent(query)
	depth := r.depth(intent)

	vec, err := r.options.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, &retriever.RetrievalError{OwnerId: ownerId, Err: err}
	}

	filter := store.Filter{
		OwnerId:   ownerId,
		SessionId: options.SessionId,
		Layer:     options.Layer,
	}

	records, err := r.options.Store.Search(ctx, vec, depth.K, filter)
	if err != nil {
		return nil, &retriever.RetrievalError{OwnerId: ownerId, Err: err}
	}

	results := make([]retriever.Result, 0, len(records))
	rejected := 0

	for _, rec := range records {
		accepted := rec.Score >= depth.ScoreThreshold
		if !accepted {
			rejected++
		}
		results = append(results, retriever.Result{
			Record:         rec,
			Intent:         intent,
			RelevanceScore: rec.Score,
			Accepted:       accepted,
		})
	}

	// Low-similarity context must never reach the prompt; rejections are
	// counted and reported, not silently dropped.
	slog.InfoContext(ctx, "retrieval validated",
		"owner_id", ownerId,
		"intent", intent,
		"k", depth.K,
		"threshold", depth.ScoreThreshold,
		"fetched", len(records),
		"rejected", rejected,
	)

	return results, nil
}

func (r *vectorRetriever) depth(intent retriever.Intent) retriever.Depth {
	if depth, ok := r.options.Policy[intent]; ok && depth.K > 0 {
		return depth
	}
	return retriever.DefaultDepthPolicy()[intent]
}

func NewRetriever(opts ...retriever.Option) retriever.Retriever {
	options := retriever.NewOptions(opts...)

	if options.Store == nil || options.Embedder == nil {
		panic("missing store or embedder for vector retriever")
	}

	return &vectorRetriever{
		options: options,
	}
}
