package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "grok-search - "+Version())
	assert.Contains(t, out, "Git Commit: ")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS)
}
