// Package blob stores PDF attachments on disk, keyed by record id.
// The core never inspects blob contents beyond a best-effort sniff at
// attach time; records hold only association metadata.
package blob

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNoBlob is returned by Get when no blob is stored for a record.
var ErrNoBlob = errors.New("no blob stored for record")

// Store is a filesystem-backed blob store: one file per record id
// under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first Put.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the on-disk location for a record's blob.
func (s *Store) Path(recordID int) string {
	return filepath.Join(s.dir, strconv.Itoa(recordID)+".pdf")
}

// Put stores blob content for a record, replacing any previous blob.
// It returns the stored path and a best-effort sniff of the content.
func (s *Store) Put(recordID int, r io.Reader) (string, Sniff, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", Sniff{}, fmt.Errorf("creating blob directory: %w", err)
	}

	path := s.Path(recordID)
	f, err := os.Create(path)
	if err != nil {
		return "", Sniff{}, fmt.Errorf("creating blob file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", Sniff{}, fmt.Errorf("writing blob: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", Sniff{}, fmt.Errorf("closing blob file: %w", err)
	}

	// Sniff failures never block an attach; the metadata stays zero.
	sniff, _ := SniffFile(path)
	return path, sniff, nil
}

// Get opens a record's blob for reading. Callers close it.
func (s *Store) Get(recordID int) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(recordID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBlob
		}
		return nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, nil
}

// Delete removes a record's blob. Deleting an absent blob is not an
// error: delete must be idempotent for the record-removal path.
func (s *Store) Delete(recordID int) error {
	err := os.Remove(s.Path(recordID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}

// Exists reports whether a blob is stored for a record.
func (s *Store) Exists(recordID int) bool {
	_, err := os.Stat(s.Path(recordID))
	return err == nil
}
