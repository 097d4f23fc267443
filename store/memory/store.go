package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/w-h-a/finrag/store"
)

type record struct {
	store.Record
	seq uint64
}

type memoryStore struct {
	options store.Options
	records map[string]record
	seq     uint64
	mtx     sync.RWMutex
}

func (s *memoryStore) Add(ctx context.Context, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := store.ValidateBatch(records); err != nil {
		return &store.WriteError{Collection: s.options.Collection, Err: err}
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	// Single critical section: the batch lands whole or not at all.
	for _, rec := range records {
		if len(rec.Id) == 0 {
			rec.Id = uuid.New().String()
		}

		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)
		rec.Embedding = cpy

		s.seq++
		s.records[rec.Id] = record{Record: rec, seq: s.seq}
	}

	return nil
}

func (s *memoryStore) DeleteByOwner(ctx context.Context, ownerId string, opts ...store.DeleteOption) error {
	options := store.NewDeleteOptions(opts...)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for id, rec := range s.records {
		if rec.OwnerId != ownerId {
			continue
		}
		if len(options.KeepSessionId) > 0 && rec.SessionId == options.KeepSessionId {
			continue
		}
		delete(s.records, id)
	}

	return nil
}

func (s *memoryStore) Search(ctx context.Context, vector []float32, limit int, filter store.Filter) ([]store.Record, error) {
	if len(filter.OwnerId) == 0 {
		return nil, store.ErrMissingOwner
	}

	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]record, 0, len(s.records))

	for _, rec := range s.records {
		if !matches(rec.Record, filter) {
			continue
		}
		rec.Score = float32(store.CosineSimilarity(vector, rec.Embedding))
		candidates = append(candidates, rec)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].seq < candidates[j].seq
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]store.Record, 0, len(candidates))
	for _, rec := range candidates {
		results = append(results, rec.Record)
	}

	return results, nil
}

func matches(rec store.Record, filter store.Filter) bool {
	if rec.OwnerId != filter.OwnerId {
		return false
	}
	if len(filter.SessionId) > 0 && rec.SessionId != filter.SessionId {
		return false
	}
	if len(filter.Layer) > 0 && rec.Layer != filter.Layer {
		return false
	}
	return true
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	return &memoryStore{
		options: options,
		records: map[string]record{},
	}
}
