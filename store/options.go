package store

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	Collection string
	VectorSize int
	Distance   string
	ApiKey     string
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

func WithDistance(distance string) Option {
	return func(o *Options) {
		o.Distance = distance
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection: "finrag_clean_v1",
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type DeleteOption func(*DeleteOptions)

type DeleteOptions struct {
	KeepSessionId string
}

// WithKeepSession spares records belonging to the given session so that a
// concurrent ingestion's fresh data survives the cleanup.
func WithKeepSession(sessionId string) DeleteOption {
	return func(o *DeleteOptions) {
		o.KeepSessionId = sessionId
	}
}

func NewDeleteOptions(opts ...DeleteOption) DeleteOptions {
	options := DeleteOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
