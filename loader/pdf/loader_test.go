package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output []byte
	err    error
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return r.output, r.err
}

func TestPDFLoader_PagesSplitOnFormFeed(t *testing.T) {
	l := NewLoaderWithRunner(&fakeRunner{
		output: []byte("first page text\fsecond page text\f"),
	})

	pages, err := l.Load(context.Background(), strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, "1", pages[0].Label)
	assert.Contains(t, pages[0].Text, "first page")
	assert.Equal(t, "2", pages[1].Label)
}

func TestPDFLoader_ExtractionFailure(t *testing.T) {
	l := NewLoaderWithRunner(&fakeRunner{
		err: errors.New("exit status 1"),
	})

	_, err := l.Load(context.Background(), strings.NewReader("%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
}
