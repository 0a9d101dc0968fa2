package tui

import (
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// SystemClipboard reaches the OS clipboard through atotto/clipboard, with
// pbpaste preferred on macOS so rich text comes back as plain text.
type SystemClipboard struct{}

func (SystemClipboard) ReadText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
