package renders

import (
	"fmt"
	"io"
	"os"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"golang.org/x/term"
)

const (
	lineWidth = 100
	leftPad   = 2
)

// RenderMarkdown renders s for a terminal.
func RenderMarkdown(s string) string {
	return string(markdown.Render(s, lineWidth, leftPad))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Write prints a result to w. On a terminal the text is rendered as
// markdown, otherwise it is written as is with a trailing newline so the
// output stays pipeable.
func Write(w io.Writer, content string, tty bool) error {
	if tty {
		_, err := fmt.Fprint(w, RenderMarkdown(content))
		return err
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	_, err := io.WriteString(w, content)
	return err
}
