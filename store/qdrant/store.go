package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/w-h-a/finrag/store"
	"github.com/w-h-a/finrag/util/payload"
)

type qdrantStore struct {
	options store.Options
	client  *http.Client
}

func (s *qdrantStore) Add(ctx context.Context, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := store.ValidateBatch(records); err != nil {
		return &store.WriteError{Collection: s.options.Collection, Err: err}
	}

	points := make([]map[string]any, 0, len(records))

	for _, rec := range records {
		id := rec.Id
		if len(id) == 0 {
			id = uuid.New().String()
		}

		points = append(points, map[string]any{
			"id":     id,
			"vector": rec.Embedding,
			"payload": map[string]any{
				"owner_id":         rec.OwnerId,
				"session_id":       rec.SessionId,
				"content":          rec.Content,
				"source":           rec.Source,
				"page":             rec.Page,
				"chunk_id":         rec.ChunkId,
				"layer":            rec.Layer,
				"is_table":         rec.IsTable,
				"upload_timestamp": rec.UploadedAt.UTC().Format(time.RFC3339Nano),
			},
		})
	}

	req := map[string]any{
		"points": points,
	}

	var rsp envelope[json.RawMessage]

	// One bulk upsert with wait=true: the batch is acknowledged whole.
	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return &store.WriteError{Collection: s.options.Collection, Err: err}
	}

	if !rsp.Status.ok() && len(rsp.Status.Error) > 0 {
		return &store.WriteError{Collection: s.options.Collection, Err: errors.New(rsp.Status.Error)}
	}

	return nil
}

func (s *qdrantStore) DeleteByOwner(ctx context.Context, ownerId string, opts ...store.DeleteOption) error {
	options := store.NewDeleteOptions(opts...)

	filter := map[string]any{
		"must": []map[string]any{
			{
				"key":   "owner_id",
				"match": map[string]any{"value": ownerId},
			},
		},
	}

	if len(options.KeepSessionId) > 0 {
		filter["must_not"] = []map[string]any{
			{
				"key":   "session_id",
				"match": map[string]any{"value": options.KeepSessionId},
			},
		}
	}

	req := map[string]any{
		"filter": filter,
	}

	var rsp envelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return err
	}

	if !rsp.Status.ok() && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (s *qdrantStore) Search(ctx context.Context, vector []float32, limit int, filter store.Filter) ([]store.Record, error) {
	if len(filter.OwnerId) == 0 {
		return nil, store.ErrMissingOwner
	}

	if limit < 1 {
		return nil, nil
	}

	must := []map[string]any{
		{
			"key":   "owner_id",
			"match": map[string]any{"value": filter.OwnerId},
		},
	}

	if len(filter.SessionId) > 0 {
		must = append(must, map[string]any{
			"key":   "session_id",
			"match": map[string]any{"value": filter.SessionId},
		})
	}
	if len(filter.Layer) > 0 {
		must = append(must, map[string]any{
			"key":   "layer",
			"match": map[string]any{"value": filter.Layer},
		})
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_vector":  true,
		"with_payload": true,
		"filter": map[string]any{
			"must": must,
		},
	}

	var rsp envelope[[]scoredPoint]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	results := make([]store.Record, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		pl := point.Payload

		uploadedAt, _ := time.Parse(time.RFC3339Nano, payload.String(pl, "upload_timestamp"))

		rec := store.Record{
			Id:         point.Id,
			OwnerId:    payload.String(pl, "owner_id"),
			SessionId:  payload.String(pl, "session_id"),
			Content:    payload.String(pl, "content"),
			Source:     payload.String(pl, "source"),
			Page:       payload.String(pl, "page"),
			ChunkId:    payload.Int(pl, "chunk_id"),
			Layer:      payload.String(pl, "layer"),
			IsTable:    payload.Bool(pl, "is_table"),
			UploadedAt: uploadedAt,
			Embedding:  point.Vector,
			Score:      float32(point.Score),
		}

		results = append(results, rec)
	}

	return results, nil
}

func (s *qdrantStore) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := s.options.Location + path
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(s.options.ApiKey) > 0 {
		request.Header.Set("api-key", s.options.ApiKey)
		request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(data))
	}

	if rsp != nil && len(data) > 0 {
		if err := json.Unmarshal(data, rsp); err != nil {
			return err
		}
	}

	return nil
}

func (s *qdrantStore) configure() error {
	exists, err := s.collectionExists()
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.createCollection()
}

func (s *qdrantStore) collectionExists() (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp envelope[json.RawMessage]

	err := s.do(context.Background(), http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}

	return rsp.Status.ok(), nil
}

func (s *qdrantStore) createCollection() error {
	distance := s.options.Distance
	if len(distance) == 0 {
		distance = "Cosine"
	}
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.options.VectorSize,
			"distance": distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp envelope[json.RawMessage]

	if err := s.do(context.Background(), http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !rsp.Status.ok() {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.VectorSize == 0 {
		panic("missing location, collection, or vector size for qdrant store")
	}

	client := &http.Client{
		Timeout:   15 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	s := &qdrantStore{
		options: options,
		client:  client,
	}

	if err := s.configure(); err != nil {
		panic(err)
	}

	return s
}
