package chunker

// Chunk is one bounded span of document text, ready for embedding.
type Chunk struct {
	Text    string
	Ordinal int
	IsTable bool
}

// Chunker splits raw document text into retrievable units. Implementations
// are pure: no side effects, identical input yields identical output.
type Chunker interface {
	Split(text string) []Chunk
}
