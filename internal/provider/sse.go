package provider

import (
	"encoding/json"
	"io"
	"strings"
)

// ---------------------------------------------------------------------------
// SSE aggregation
// ---------------------------------------------------------------------------

const (
	sseDataPrefix = "data:"
	sseDone       = "[DONE]"
)

// Fragment is one parsed event line of a completion stream.
type Fragment struct {
	// Content is the text delta carried by the line, possibly empty.
	Content string

	// Done is true for the termination sentinel.
	Done bool
}

type sseDelta struct {
	Content string `json:"content"`
}

type sseChoice struct {
	Delta   sseDelta `json:"delta"`
	Message sseDelta `json:"message"`
}

type sseChunk struct {
	Choices []sseChoice `json:"choices"`
}

// ParseLine parses a single raw stream line. It reports false for lines that
// are not data lines or whose payload is not valid JSON; such lines
// contribute nothing to the aggregated result.
func ParseLine(line string) (Fragment, bool) {
	if !strings.HasPrefix(line, sseDataPrefix) {
		return Fragment{}, false
	}
	data := strings.TrimPrefix(line, sseDataPrefix)
	data = strings.TrimPrefix(data, " ")
	if strings.TrimSpace(data) == sseDone {
		return Fragment{Done: true}, true
	}

	var chunk sseChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return Fragment{}, false
	}

	for _, c := range chunk.Choices {
		if c.Delta.Content != "" {
			return Fragment{Content: c.Delta.Content}, true
		}
		if c.Message.Content != "" {
			return Fragment{Content: c.Message.Content}, true
		}
	}
	return Fragment{}, true
}

// Aggregate consumes a completion stream and returns the concatenation of
// every content fragment seen before the termination sentinel or the end of
// the stream. Lines after the sentinel are never read. A read error is
// returned together with the text accumulated so far.
func Aggregate(r io.Reader) (string, error) {
	scanner := NewSSEScanner(r)

	var b strings.Builder
	for scanner.Scan() {
		frag, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if frag.Done {
			return b.String(), nil
		}
		b.WriteString(frag.Content)
	}
	return b.String(), scanner.Err()
}
