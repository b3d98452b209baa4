package subtitle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flame-cai/video-qna-backend/internal/models"
)

// Block is one parsed subtitle entry: sequence index, time range, and text.
// Blocks are an intermediate shape only; they are consumed by Normalize and
// never persisted.
type Block struct {
	Index int
	Start string
	End   string
	Text  string
}

// ParseBlocks parses raw SRT-style subtitle text into blocks. Each block is
// an index line, a "start --> end" time line, and one or more text lines,
// separated from the next block by a blank line. Empty input, a non-numeric
// index line, or a block missing its time range is rejected as malformed
// rather than skipped.
func ParseBlocks(raw string) ([]Block, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var blocks []Block
	i := 0
	for i < len(lines) {
		// Skip blank lines between blocks.
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		indexLine := strings.TrimSpace(lines[i])
		index, err := strconv.Atoi(indexLine)
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: expected numeric index, got %q", models.ErrMalformedInput, len(blocks)+1, indexLine)
		}
		i++

		if i >= len(lines) || !strings.Contains(lines[i], "-->") {
			return nil, fmt.Errorf("%w: block %d is missing its time range", models.ErrMalformedInput, index)
		}
		start, end, err := parseTimeRange(lines[i])
		if err != nil {
			return nil, fmt.Errorf("%w: block %d: %v", models.ErrMalformedInput, index, err)
		}
		i++

		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, strings.TrimSpace(lines[i]))
			i++
		}
		if len(text) == 0 {
			return nil, fmt.Errorf("%w: block %d has no text", models.ErrMalformedInput, index)
		}

		blocks = append(blocks, Block{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(text, " "),
		})
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no subtitle blocks found", models.ErrMalformedInput)
	}
	return blocks, nil
}

func parseTimeRange(line string) (start, end string, err error) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid time range %q", strings.TrimSpace(line))
	}
	start = strings.TrimSpace(parts[0])
	end = strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return "", "", fmt.Errorf("invalid time range %q", strings.TrimSpace(line))
	}
	return start, end, nil
}

// Normalize flattens parsed blocks into a narrative transcript. Each block's
// time range is inlined before its text so downstream chapter generation can
// anchor chapters to timestamps; block boundaries become paragraph breaks.
func Normalize(blocks []Block) string {
	paragraphs := make([]string, 0, len(blocks))
	for _, b := range blocks {
		paragraphs = append(paragraphs, fmt.Sprintf("%s --> %s %s", b.Start, b.End, b.Text))
	}
	return strings.Join(paragraphs, "\n\n")
}
