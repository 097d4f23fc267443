package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMissingOwner marks a search attempted without an owner filter. Every
// backend rejects it; a query that is not owner-scoped could read across
// owners.
var ErrMissingOwner = errors.New("owner id is required on every search")

// Record is one embedded chunk persisted in the collection. The metadata
// fields double as query filters; changing their keys is a breaking change
// for existing collections.
type Record struct {
	Id         string
	OwnerId    string
	SessionId  string
	Content    string
	Source     string
	Page       string
	ChunkId    int
	Layer      string
	IsTable    bool
	UploadedAt time.Time
	Embedding  []float32
	Score      float32
}

// Filter is an exact-match conjunction. Empty SessionId and Layer are not
// applied. OwnerId is mandatory on every search and an empty one fails with
// ErrMissingOwner: isolation comes from filtering, not from locking.
type Filter struct {
	OwnerId   string
	SessionId string
	Layer     string
}

// Store is the single point of contact with the vector collection.
type Store interface {
	// Add inserts the whole batch or fails as a whole. Empty input is a no-op.
	Add(ctx context.Context, records []Record) error
	// DeleteByOwner removes every record for the owner, or only records
	// outside a kept session when WithKeepSession is given.
	DeleteByOwner(ctx context.Context, ownerId string, opts ...DeleteOption) error
	// Search returns up to limit records matching the filter, ordered by
	// descending similarity. Ties break by insertion order. A filter
	// without an owner fails with ErrMissingOwner.
	Search(ctx context.Context, vector []float32, limit int, filter Filter) ([]Record, error)
}

// WriteError marks a failed batch insert. Callers must assume none of the
// batch was stored.
type WriteError struct {
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("vector store write to %s failed: %v", e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
