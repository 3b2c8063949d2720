package renders

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	result := RenderMarkdown("# Hello\n\nThis is **bold** text.")
	assert.NotEmpty(t, result)
	assert.Contains(t, strings.ToLower(result), "hello")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	result := RenderMarkdown("")
	// Should not panic on empty input
	assert.NotNil(t, result)
}

func TestRenderMarkdown_CodeBlock(t *testing.T) {
	input := "```go\nfunc main() {\n    fmt.Println(\"hello\")\n}\n```"
	result := RenderMarkdown(input)
	assert.NotEmpty(t, result)
}

func TestWrite_Raw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "**plain**", false))
	assert.Equal(t, "**plain**\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, "already\n", false))
	assert.Equal(t, "already\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, "", false))
	assert.Equal(t, "\n", buf.String())
}

func TestWrite_Rendered(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "# Title", true))
	assert.Contains(t, strings.ToLower(buf.String()), "title")
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	assert.False(t, IsTerminal(nil))
}
