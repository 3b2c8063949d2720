package provider

import (
	"bufio"
	"io"
)

// maxSSELineSize is the largest single event line accepted from a stream.
const maxSSELineSize = 1024 * 1024

// NewSSEScanner returns a scanner configured for SSE payload sizes that are
// commonly larger than bufio's default token limit.
func NewSSEScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return s
}
