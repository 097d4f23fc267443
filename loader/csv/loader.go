package csv

import (
	"context"
	encoding "encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/w-h-a/finrag/loader"
)

type csvLoader struct{}

// Load renders each row against the header as "column: value" lines, one page
// per row, so spreadsheet-style records stay self-describing after chunking.
func (l *csvLoader) Load(ctx context.Context, r io.Reader) ([]loader.Page, error) {
	reader := encoding.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]

	pages := make([]loader.Page, 0, len(records)-1)

	for i, record := range records[1:] {
		var sb strings.Builder
		for j, field := range record {
			if j < len(header) {
				sb.WriteString(header[j])
				sb.WriteString(": ")
			}
			sb.WriteString(field)
			sb.WriteString("\n")
		}

		pages = append(pages, loader.Page{
			Text:  sb.String(),
			Label: fmt.Sprintf("row %d", i+1),
		})
	}

	return pages, nil
}

func NewLoader() loader.Loader {
	return &csvLoader{}
}
