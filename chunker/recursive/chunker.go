package recursive

import (
	"strings"
	"unicode/utf8"

	"github.com/w-h-a/finrag/chunker"
)

// separators are tried in order; each level is only used when the text is
// still too large after splitting on the previous one.
var separators = []string{"\n\n", "\n", ". ", " "}

type recursiveChunker struct {
	options chunker.Options
}

func (c *recursiveChunker) Split(text string) []chunker.Chunk {
	if len(strings.TrimSpace(text)) == 0 {
		return nil
	}

	chunks := []chunker.Chunk{}
	ordinal := 0

	for _, block := range c.blocks(text) {
		if block.isTable {
			chunks = append(chunks, chunker.Chunk{
				Text:    block.text,
				Ordinal: ordinal,
				IsTable: true,
			})
			ordinal++
			continue
		}

		for _, piece := range c.merge(c.fragments(block.text, separators)) {
			chunks = append(chunks, chunker.Chunk{
				Text:    piece,
				Ordinal: ordinal,
			})
			ordinal++
		}
	}

	return chunks
}

func (c *recursiveChunker) blocks(text string) []block {
	if !c.options.PreserveTables {
		return []block{{text: text}}
	}
	return splitTables(text)
}

// fragments breaks text into pieces no longer than the chunk size, working
// down the separator hierarchy and falling back to rune windows when even
// single words are too long.
func (c *recursiveChunker) fragments(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= c.options.ChunkSize {
		if len(text) == 0 {
			return nil
		}
		return []string{text}
	}

	for i, sep := range seps {
		if !strings.Contains(text, sep) {
			continue
		}
		var out []string
		for _, part := range strings.SplitAfter(text, sep) {
			if len(part) == 0 {
				continue
			}
			out = append(out, c.fragments(part, seps[i+1:])...)
		}
		return out
	}

	return c.windows(text)
}

// windows hard-splits separator-free text into overlapping rune windows.
func (c *recursiveChunker) windows(text string) []string {
	runes := []rune(text)
	step := c.options.ChunkSize - c.options.ChunkOverlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + c.options.ChunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// merge packs fragments greedily into chunks of at most the chunk size,
// seeding each new chunk with the tail of the previous one so that context
// spanning a boundary survives in both.
func (c *recursiveChunker) merge(fragments []string) []string {
	var chunks []string

	var buf strings.Builder
	seeded := 0

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunk := buf.String()
		chunks = append(chunks, chunk)
		buf.Reset()
		tail := lastRunes(chunk, c.options.ChunkOverlap)
		buf.WriteString(tail)
		seeded = utf8.RuneCountInString(tail)
	}

	for _, frag := range fragments {
		have := utf8.RuneCountInString(buf.String())
		need := utf8.RuneCountInString(frag)

		if have+need > c.options.ChunkSize && have > seeded {
			flush()
			have = seeded
		}

		// The overlap seed gives way rather than pushing a chunk over size.
		if have+need > c.options.ChunkSize {
			buf.Reset()
			seeded = 0
		}

		buf.WriteString(frag)
	}

	if buf.Len() > 0 && utf8.RuneCountInString(buf.String()) > seeded {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func NewChunker(opts ...chunker.Option) chunker.Chunker {
	options := chunker.NewOptions(opts...)

	return &recursiveChunker{
		options: options,
	}
}
