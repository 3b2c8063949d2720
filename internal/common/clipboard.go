package common

import (
	"github.com/atotto/clipboard"
)

// Swapped in tests; the system clipboard is not available on CI.
var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
)

func SetClipboardValue(value string) error {
	return writeClipboard(value)
}

func GetClipboardValue() (string, error) {
	value, err := readClipboard()
	if err != nil {
		return "", err
	}

	return value, nil
}
