package blob

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener launches the configured PDF reader on a stored blob.
type Opener struct {
	store  *Store
	reader string // system, skim, preview, zathura, evince, okular
}

// NewOpener returns an opener over the given store. An empty reader
// means the platform default.
func NewOpener(store *Store, reader string) *Opener {
	if reader == "" {
		reader = "system"
	}
	return &Opener{store: store, reader: reader}
}

// Open launches the reader on a record's blob.
func (o *Opener) Open(recordID int) error {
	path := o.store.Path(recordID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no PDF attached to record %d", recordID)
		}
		return fmt.Errorf("checking PDF: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = o.darwinCommand(path)
	case "linux":
		cmd = o.linuxCommand(path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

func (o *Opener) darwinCommand(path string) *exec.Cmd {
	switch o.reader {
	case "skim":
		return exec.Command("open", "-a", "Skim", path)
	case "preview":
		return exec.Command("open", "-a", "Preview", path)
	default: // "system"
		return exec.Command("open", path)
	}
}

func (o *Opener) linuxCommand(path string) *exec.Cmd {
	switch o.reader {
	case "zathura", "evince", "okular":
		return exec.Command(o.reader, path)
	default: // "system"
		return exec.Command("xdg-open", path)
	}
}
