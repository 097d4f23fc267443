package chunker

type Option func(*Options)

type Options struct {
	ChunkSize      int
	ChunkOverlap   int
	PreserveTables bool
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func WithChunkOverlap(overlap int) Option {
	return func(o *Options) {
		o.ChunkOverlap = overlap
	}
}

func WithPreserveTables(preserve bool) Option {
	return func(o *Options) {
		o.PreserveTables = preserve
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ChunkSize:      512,
		ChunkOverlap:   50,
		PreserveTables: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.ChunkSize < 1 {
		options.ChunkSize = 512
	}
	if options.ChunkOverlap < 0 || options.ChunkOverlap >= options.ChunkSize {
		options.ChunkOverlap = options.ChunkSize / 10
	}
	return options
}
