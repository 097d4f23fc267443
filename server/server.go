package server

import (
	"context"
)

// Server exposes the assistant over a transport. Run blocks until the
// context is cancelled or the listener fails.
type Server interface {
	Run(ctx context.Context) error
}

type Option func(*Options)

type Options struct {
	Address string
	Context context.Context
}

func WithAddress(address string) Option {
	return func(o *Options) {
		o.Address = address
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address: ":4000",
		Context: context.Background(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	return options
}
