package embedder

import "context"

// Embedder maps text to a fixed-dimension vector. Implementations are
// deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
