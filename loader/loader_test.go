package loader_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/finrag/loader"
	csvloader "github.com/w-h-a/finrag/loader/csv"
	textloader "github.com/w-h-a/finrag/loader/text"
)

func TestRegistry_ForFilename(t *testing.T) {
	registry := loader.NewRegistry()
	registry.Register(".txt", textloader.NewLoader())
	registry.Register(".csv", csvloader.NewLoader())

	l, err := registry.ForFilename("report.txt")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = registry.ForFilename("Statements.CSV")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestRegistry_UnsupportedFormat(t *testing.T) {
	registry := loader.NewRegistry()
	registry.Register(".txt", textloader.NewLoader())

	_, err := registry.ForFilename("report.docx")
	require.Error(t, err)

	var unsupported *loader.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "report.docx", unsupported.Filename)
}

func TestTextLoader_SinglePageNoLabel(t *testing.T) {
	l := textloader.NewLoader()

	pages, err := l.Load(context.Background(), strings.NewReader("annual report body"))
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, "annual report body", pages[0].Text)
	assert.Empty(t, pages[0].Label)
}

func TestTextLoader_EmptyInput(t *testing.T) {
	l := textloader.NewLoader()

	pages, err := l.Load(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestCSVLoader_RowPerPage(t *testing.T) {
	l := csvloader.NewLoader()

	input := "category,amount\nrent,1200\ngroceries,300\n"

	pages, err := l.Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Contains(t, pages[0].Text, "category: rent")
	assert.Contains(t, pages[0].Text, "amount: 1200")
	assert.Equal(t, "row 1", pages[0].Label)

	assert.Contains(t, pages[1].Text, "category: groceries")
	assert.Equal(t, "row 2", pages[1].Label)
}

func TestCSVLoader_HeaderOnly(t *testing.T) {
	l := csvloader.NewLoader()

	pages, err := l.Load(context.Background(), strings.NewReader("category,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, pages)
}
