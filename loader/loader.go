package loader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Page is one unit of loaded text. Label carries the page or section the
// text came from; formats without a notion of pages leave it empty and the
// ingestion pipeline defaults it to "Unknown".
type Page struct {
	Text  string
	Label string
}

type Loader interface {
	Load(ctx context.Context, r io.Reader) ([]Page, error)
}

type UnsupportedFormatError struct {
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Filename)
}

// Registry maps file extensions to loaders.
type Registry struct {
	loaders map[string]Loader
}

func (r *Registry) Register(ext string, l Loader) {
	r.loaders[strings.ToLower(ext)] = l
}

func (r *Registry) ForFilename(filename string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	l, ok := r.loaders[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Filename: filename}
	}

	return l, nil
}

func NewRegistry() *Registry {
	return &Registry{
		loaders: map[string]Loader{},
	}
}
