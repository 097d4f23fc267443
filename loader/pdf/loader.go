package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/w-h-a/finrag/loader"
)

// Runner executes an external command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type pdfLoader struct {
	runner Runner
}

// Load extracts text with pdftotext. The tool emits a form feed between
// pages, which becomes the page label on each returned page.
func (l *pdfLoader) Load(ctx context.Context, r io.Reader) ([]loader.Page, error) {
	tmp, err := os.CreateTemp("", "finrag-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	out, err := l.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var pages []loader.Page

	for i, text := range strings.Split(string(out), "\f") {
		if len(strings.TrimSpace(text)) == 0 {
			continue
		}
		pages = append(pages, loader.Page{
			Text:  text,
			Label: strconv.Itoa(i + 1),
		})
	}

	return pages, nil
}

func NewLoader() loader.Loader {
	return &pdfLoader{
		runner: execRunner{},
	}
}

func NewLoaderWithRunner(runner Runner) loader.Loader {
	return &pdfLoader{
		runner: runner,
	}
}
