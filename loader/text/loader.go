package text

import (
	"context"
	"io"

	"github.com/w-h-a/finrag/loader"
)

type textLoader struct{}

func (l *textLoader) Load(ctx context.Context, r io.Reader) ([]loader.Page, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(bs) == 0 {
		return nil, nil
	}

	return []loader.Page{
		{Text: string(bs)},
	}, nil
}

func NewLoader() loader.Loader {
	return &textLoader{}
}
