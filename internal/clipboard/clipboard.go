// Package clipboard provides system clipboard access via shell
// commands, with a documented fallback when none is available.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard mechanism
// exists on this system.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// IsAvailable checks whether a clipboard command exists.
func IsAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		_, err := exec.LookPath("pbcopy")
		return err == nil
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			return true
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return true
		}
		return false
	default:
		return false
	}
}

// Write copies text to the system clipboard.
func Write(text string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "linux":
		if _, err := exec.LookPath("xclip"); err == nil {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		} else if _, err := exec.LookPath("xsel"); err == nil {
			cmd = exec.Command("xsel", "--clipboard", "--input")
		} else {
			return ErrClipboardUnavailable
		}
	default:
		return ErrClipboardUnavailable
	}

	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// WriteOrFallback copies text to the clipboard, falling back to the
// given writer when the clipboard is unavailable. It reports whether
// the clipboard path succeeded.
func WriteOrFallback(text string, fallback io.Writer) (copied bool, err error) {
	if err := Write(text); err == nil {
		return true, nil
	}
	if _, err := fmt.Fprintln(fallback, text); err != nil {
		return false, fmt.Errorf("fallback output: %w", err)
	}
	return false, nil
}
