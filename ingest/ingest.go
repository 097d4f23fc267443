package ingest

import (
	"context"
	"io"
)

// Receipt summarizes one completed ingestion run.
type Receipt struct {
	OwnerId   string
	SessionId string
	Source    string
	Chunks    int
}

// Ingestor runs one document through load, chunk, enrich, embed, cleanup,
// and the single bulk store write.
type Ingestor interface {
	Ingest(ctx context.Context, r io.Reader, filename string, ownerId string, sessionId string) (Receipt, error)
}
