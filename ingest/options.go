package ingest

import (
	"context"

	"github.com/w-h-a/finrag/chunker"
	"github.com/w-h-a/finrag/embedder"
	"github.com/w-h-a/finrag/loader"
	"github.com/w-h-a/finrag/store"
)

type Option func(*Options)

type Options struct {
	Registry    *loader.Registry
	Chunker     chunker.Chunker
	Embedder    embedder.Embedder
	Store       store.Store
	Concurrency int
	Context     context.Context
}

func WithRegistry(registry *loader.Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

func WithChunker(c chunker.Chunker) Option {
	return func(o *Options) {
		o.Chunker = c
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

// WithConcurrency bounds how many chunks embed in parallel. Ordinals are
// assigned before embedding, so completion order never changes output order.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Concurrency: 4,
		Context:     context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Concurrency < 1 {
		options.Concurrency = 1
	}
	return options
}
