package retriever

import (
	"context"

	"github.com/w-h-a/finrag/embedder"
	"github.com/w-h-a/finrag/store"
)

type Option func(*Options)

type Options struct {
	Store          store.Store
	Embedder       embedder.Embedder
	Policy         DepthPolicy
	SessionScoping bool
	Context        context.Context
}

func WithStore(s store.Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

func WithDepthPolicy(policy DepthPolicy) Option {
	return func(o *Options) {
		o.Policy = policy
	}
}

func WithSessionScoping(enabled bool) Option {
	return func(o *Options) {
		o.SessionScoping = enabled
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Policy:         DefaultDepthPolicy(),
		SessionScoping: true,
		Context:        context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type RetrieveOption func(*RetrieveOptions)

type RetrieveOptions struct {
	SessionId string
	Layer     string
}

func WithSessionId(sessionId string) RetrieveOption {
	return func(o *RetrieveOptions) {
		o.SessionId = sessionId
	}
}

// WithLayer narrows the search to one layer of the stored hierarchy.
func WithLayer(layer string) RetrieveOption {
	return func(o *RetrieveOptions) {
		o.Layer = layer
	}
}

func NewRetrieveOptions(opts ...RetrieveOption) RetrieveOptions {
	options := RetrieveOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
