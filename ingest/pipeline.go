package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/w-h-a/finrag/loader"
	"github.com/w-h-a/finrag/store"
)

type pipeline struct {
	options Options
}

func (p *pipeline) Ingest(ctx context.Context, r io.Reader, filename string, ownerId string, sessionId string) (Receipt, error) {
	receipt := Receipt{
		OwnerId:   ownerId,
		SessionId: sessionId,
		Source:    filename,
	}

	if len(ownerId) == 0 {
		return receipt, fmt.Errorf("ingest %s: owner id is required", filename)
	}

	l, err := p.options.Registry.ForFilename(filename)
	if err != nil {
		return receipt, fmt.Errorf("ingest %s for owner %s: %w", filename, ownerId, err)
	}

	pages, err := l.Load(ctx, r)
	if err != nil {
		return receipt, fmt.Errorf("load %s for owner %s: %w", filename, ownerId, err)
	}

	records := p.chunk(pages)

	records = Enrich(records, Stamp{
		OwnerId:    ownerId,
		SessionId:  sessionId,
		Source:     filename,
		UploadedAt: time.Now().UTC(),
	})

	if len(records) == 0 {
		return receipt, nil
	}

	// Embed before touching the store: cancelling mid-embed abandons the
	// run with the previous session's data still intact.
	if err := p.embed(ctx, records); err != nil {
		return receipt, fmt.Errorf("embed %s for owner %s: %w", filename, ownerId, err)
	}

	// Cleanup is advisory. Stale data is recoverable by filtering; a
	// blocked ingestion is not.
	if err := p.options.Store.DeleteByOwner(ctx, ownerId, store.WithKeepSession(sessionId)); err != nil {
		slog.WarnContext(ctx, "cleanup of prior sessions failed; stale records may remain",
			"owner_id", ownerId,
			"session_id", sessionId,
			"error", err,
		)
	}

	if err := p.options.Store.Add(ctx, records); err != nil {
		return receipt, fmt.Errorf("store %s for owner %s: %w", filename, ownerId, err)
	}

	receipt.Chunks = len(records)

	slog.InfoContext(ctx, "ingestion complete",
		"owner_id", ownerId,
		"session_id", sessionId,
		"source", filename,
		"chunks", receipt.Chunks,
	)

	return receipt, nil
}

// chunk splits every page and assigns ordinals in document order across
// page boundaries.
func (p *pipeline) chunk(pages []loader.Page) []store.Record {
	var records []store.Record
	ordinal := 0

	for _, page := range pages {
		for _, chunk := range p.options.Chunker.Split(page.Text) {
			records = append(records, store.Record{
				Content: chunk.Text,
				ChunkId: ordinal,
				Page:    page.Label,
				IsTable: chunk.IsTable,
			})
			ordinal++
		}
	}

	return records
}

func (p *pipeline) embed(ctx context.Context, records []store.Record) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.Concurrency)

	for i := range records {
		g.Go(func() error {
			vec, err := p.options.Embedder.Embed(ctx, records[i].Content)
			if err != nil {
				return err
			}
			records[i].Embedding = vec
			return nil
		})
	}

	return g.Wait()
}

func NewIngestor(opts ...Option) Ingestor {
	options := NewOptions(opts...)

	if options.Registry == nil || options.Chunker == nil || options.Embedder == nil || options.Store == nil {
		panic("missing registry, chunker, embedder, or store for ingestor")
	}

	return &pipeline{
		options: options,
	}
}
