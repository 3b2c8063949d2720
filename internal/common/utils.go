/*
Copyright © 2023 sanix-darker <s4nixd@gmail.com>
*/
package common

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// InputSource tells where a command input came from.
type InputSource string

const (
	SourceArgs      InputSource = "args"
	SourceStdin     InputSource = "stdin"
	SourceClipboard InputSource = "clipboard"
)

// ErrNoInput is returned when neither arguments, stdin nor the clipboard
// provide anything to work on.
var ErrNoInput = errors.New("no input: pass it as arguments, pipe it on stdin or copy it to the clipboard")

// maxStdinInput bounds how much piped input is read.
const maxStdinInput = 1 << 20

// ResolveInput returns the input of a command. Arguments win and are joined
// with spaces. Without arguments, piped stdin is read when stdin is not a
// terminal, otherwise the clipboard is used.
func ResolveInput(args []string, stdin io.Reader, stdinIsTTY bool) (string, InputSource, error) {
	if joined := strings.TrimSpace(strings.Join(args, " ")); joined != "" {
		return joined, SourceArgs, nil
	}

	if stdin != nil && !stdinIsTTY {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinInput))
		if err != nil {
			return "", SourceStdin, fmt.Errorf("read stdin: %w", err)
		}
		if s := strings.TrimSpace(string(data)); s != "" {
			return s, SourceStdin, nil
		}
	}

	value, err := GetClipboardValue()
	if err != nil {
		return "", SourceClipboard, fmt.Errorf("%w (clipboard: %v)", ErrNoInput, err)
	}
	if s := strings.TrimSpace(value); s != "" {
		return s, SourceClipboard, nil
	}
	return "", SourceClipboard, ErrNoInput
}

// GetArgByKey returns the value of a string flag. With strict set, a
// missing or empty flag is an error.
func GetArgByKey(key string, cmdFlags *pflag.FlagSet, strict bool) (string, error) {
	value, err := cmdFlags.GetString(key)
	if err != nil {
		if strict {
			return "", fmt.Errorf("flag --%s: %w", key, err)
		}
		return "", nil
	}
	if strict && value == "" {
		return "", fmt.Errorf("flag --%s is required", key)
	}
	return value, nil
}
