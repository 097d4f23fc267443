package recursive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/finrag/chunker"
)

func TestChunker_Split_EmptyInput(t *testing.T) {
	c := NewChunker()

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\n  "))
}

func TestChunker_Split_ShortDocumentIsOneChunk(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(512), chunker.WithChunkOverlap(50))

	chunks := c.Split("Quarterly revenue rose 4% to $1.2B.")
	require.Len(t, chunks, 1)

	assert.Equal(t, 0, chunks[0].Ordinal)
	assert.False(t, chunks[0].IsTable)
	assert.Contains(t, chunks[0].Text, "Quarterly revenue")
}

func TestChunker_Split_TwelveHundredCharsYieldsThreeChunks(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(512), chunker.WithChunkOverlap(50))

	sentence := "The fund reported steady net inflows across all regions this quarter. "
	var sb strings.Builder
	for sb.Len() < 1200 {
		sb.WriteString(sentence)
	}
	text := sb.String()[:1200]

	chunks := c.Split(text)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Ordinal, "ordinals are zero-based and contiguous")
		assert.LessOrEqual(t, len([]rune(chunk.Text)), 512)
	}
}

func TestChunker_Split_OrdinalsContiguousForLargeInput(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(100), chunker.WithChunkOverlap(10))

	text := strings.Repeat("Net interest margin held at 3.1 percent. ", 60)

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 5)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Ordinal)
	}
}

func TestChunker_Split_CoverageNoTextLost(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(80), chunker.WithChunkOverlap(0))

	text := strings.Repeat("Operating costs fell again in March. ", 20)

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	// With zero overlap the chunks concatenate back to the original.
	var sb strings.Builder
	for _, chunk := range chunks {
		sb.WriteString(chunk.Text)
	}
	assert.Equal(t, text, sb.String())
}

func TestChunker_Split_ConsecutiveChunksOverlap(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(100), chunker.WithChunkOverlap(20))

	text := strings.Repeat("abcdefghij", 50) // no separators, forces windowing

	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1].Text[len(chunks[i-1].Text)-20:]
		assert.True(t, strings.HasPrefix(chunks[i].Text, prevTail),
			"chunk %d should start with the tail of chunk %d", i, i-1)
	}
}

func TestChunker_Split_TableKeptAtomic(t *testing.T) {
	c := NewChunker(chunker.WithChunkSize(32), chunker.WithChunkOverlap(4))

	text := `Here is some text about the balance sheet.

| Asset | Value |
|---|---|
| Cash | 500 |
| Bonds | 1200 |

More commentary follows the table.`

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	var tables []chunker.Chunk
	for _, chunk := range chunks {
		if chunk.IsTable {
			tables = append(tables, chunk)
		}
	}
	require.Len(t, tables, 1)

	// The whole table survives in one chunk even though it exceeds the size.
	assert.Contains(t, tables[0].Text, "| Asset | Value |")
	assert.Contains(t, tables[0].Text, "| Cash | 500 |")
	assert.Contains(t, tables[0].Text, "| Bonds | 1200 |")

	for _, chunk := range chunks {
		if !chunk.IsTable {
			assert.NotContains(t, chunk.Text, "| Cash |")
		}
	}
}

func TestChunker_Split_PipePrefixWithoutSeparatorIsProse(t *testing.T) {
	c := NewChunker()

	text := "| not a table\n| still not a table\nplain line"

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.False(t, chunk.IsTable)
	}
}

func TestChunker_Split_TablesDisabled(t *testing.T) {
	c := NewChunker(chunker.WithPreserveTables(false))

	text := "| A | B |\n|---|---|\n| 1 | 2 |"

	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.False(t, chunk.IsTable)
	}
}
