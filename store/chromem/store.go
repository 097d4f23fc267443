package chromem

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/w-h-a/finrag/store"
)

type chromemStore struct {
	options    store.Options
	db         *chromem.DB
	collection *chromem.Collection
}

func (s *chromemStore) Add(ctx context.Context, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := store.ValidateBatch(records); err != nil {
		return &store.WriteError{Collection: s.options.Collection, Err: err}
	}

	ids := make([]string, 0, len(records))
	vectors := make([][]float32, 0, len(records))
	metadatas := make([]map[string]string, 0, len(records))
	contents := make([]string, 0, len(records))

	for _, rec := range records {
		id := rec.Id
		if len(id) == 0 {
			id = uuid.New().String()
		}

		ids = append(ids, id)
		vectors = append(vectors, rec.Embedding)
		metadatas = append(metadatas, map[string]string{
			"owner_id":         rec.OwnerId,
			"session_id":       rec.SessionId,
			"source":           rec.Source,
			"page":             rec.Page,
			"chunk_id":         strconv.Itoa(rec.ChunkId),
			"layer":            rec.Layer,
			"is_table":         strconv.FormatBool(rec.IsTable),
			"upload_timestamp": rec.UploadedAt.UTC().Format(time.RFC3339Nano),
		})
		contents = append(contents, rec.Content)
	}

	if err := s.collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return &store.WriteError{Collection: s.options.Collection, Err: err}
	}

	return nil
}

// DeleteByOwner removes all of the owner's records. chromem's where clause
// is equality-only, so the keep-session refinement cannot be expressed here;
// callers that delete before adding are unaffected.
func (s *chromemStore) DeleteByOwner(ctx context.Context, ownerId string, opts ...store.DeleteOption) error {
	options := store.NewDeleteOptions(opts...)

	if len(options.KeepSessionId) > 0 {
		slog.WarnContext(ctx, "keep-session delete is not expressible in chromem; removing all of the owner's records",
			"owner_id", ownerId,
			"session_id", options.KeepSessionId,
		)
	}

	return s.collection.Delete(ctx, map[string]string{"owner_id": ownerId}, nil)
}

func (s *chromemStore) Search(ctx context.Context, vector []float32, limit int, filter store.Filter) ([]store.Record, error) {
	if len(filter.OwnerId) == 0 {
		return nil, store.ErrMissingOwner
	}

	if limit < 1 {
		return nil, nil
	}

	// chromem rejects queries asking for more results than stored documents.
	if count := s.collection.Count(); limit > count {
		limit = count
	}
	if limit < 1 {
		return nil, nil
	}

	where := map[string]string{
		"owner_id": filter.OwnerId,
	}
	if len(filter.SessionId) > 0 {
		where["session_id"] = filter.SessionId
	}
	if len(filter.Layer) > 0 {
		where["layer"] = filter.Layer
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, limit, where, nil)
	if err != nil {
		return nil, err
	}

	records := make([]store.Record, 0, len(results))

	for _, result := range results {
		chunkId, _ := strconv.Atoi(result.Metadata["chunk_id"])
		isTable, _ := strconv.ParseBool(result.Metadata["is_table"])
		uploadedAt, _ := time.Parse(time.RFC3339Nano, result.Metadata["upload_timestamp"])

		records = append(records, store.Record{
			Id:         result.ID,
			OwnerId:    result.Metadata["owner_id"],
			SessionId:  result.Metadata["session_id"],
			Content:    result.Content,
			Source:     result.Metadata["source"],
			Page:       result.Metadata["page"],
			ChunkId:    chunkId,
			Layer:      result.Metadata["layer"],
			IsTable:    isTable,
			UploadedAt: uploadedAt,
			Embedding:  result.Embedding,
			Score:      result.Similarity,
		})
	}

	return records, nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for chromem store")
	}

	db, err := chromem.NewPersistentDB(options.Location, false)
	if err != nil {
		panic(err)
	}

	collection, err := db.GetOrCreateCollection(options.Collection, map[string]string{
		"hnsw:space": "cosine",
	}, nil)
	if err != nil {
		panic(err)
	}

	return &chromemStore{
		options:    options,
		db:         db,
		collection: collection,
	}
}
