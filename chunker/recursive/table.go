package recursive

import (
	"regexp"
	"strings"
)

type block struct {
	text    string
	isTable bool
}

var separatorRow = regexp.MustCompile(`^\s*\|?\s*:?-{2,}:?\s*(\|\s*:?-{2,}:?\s*)*\|?\s*$`)

func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}

// splitTables walks the document line by line and lifts out well-formed
// pipe tables (header row, separator row, at least one data row) as atomic
// blocks. Everything between tables stays in document order.
func splitTables(text string) []block {
	lines := strings.Split(text, "\n")

	var blocks []block
	var prose []string

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		joined := strings.Join(prose, "\n")
		prose = nil
		if len(strings.TrimSpace(joined)) == 0 {
			return
		}
		blocks = append(blocks, block{text: joined})
	}

	i := 0
	for i < len(lines) {
		if !isTableRow(lines[i]) {
			prose = append(prose, lines[i])
			i++
			continue
		}

		end := i + 1
		for end < len(lines) && isTableRow(lines[end]) {
			end++
		}

		// A real table needs a header, a separator row, and data below it.
		if end-i >= 3 && separatorRow.MatchString(lines[i+1]) {
			flushProse()
			blocks = append(blocks, block{
				text:    strings.Join(lines[i:end], "\n"),
				isTable: true,
			})
		} else {
			prose = append(prose, lines[i:end]...)
		}

		i = end
	}

	flushProse()

	return blocks
}
