// Package filex holds filesystem helpers that work against an afero.Fs so
// callers can swap the OS filesystem for an in-memory one in tests.
package filex

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"
)

// EnsureParentDir creates the directory that will contain path and returns it.
func EnsureParentDir(fs afero.Fs, path string) (string, error) {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// SniffContentType guesses the MIME type from the first 512 bytes of r and
// rewinds r to the start.
func SniffContentType(r io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
