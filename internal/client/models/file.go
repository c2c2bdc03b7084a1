package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/aora/internal/common"
)

// FileKind selects how a stored file is turned into a URL.
type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindVideo FileKind = "video"
)

// Validate returns common.ErrInvalidArgument for anything but image/video.
func (k FileKind) Validate() error {
	switch k {
	case FileKindImage, FileKindVideo:
		return nil
	default:
		return fmt.Errorf("%w: unknown file kind %q", common.ErrInvalidArgument, string(k))
	}
}

// ParseFileKind is the inverse of FileKind.String for user input.
func ParseFileKind(s string) (FileKind, error) {
	k := FileKind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Validate()
}

func (k FileKind) String() string { return string(k) }

// UploadedAsset describes a local binary to upload. Path is resolved
// against the FileStore filesystem.
type UploadedAsset struct {
	Name     string
	MimeType string
	Size     int64
	Path     string
}

// StoredFile is a file held by the platform object store together with the
// URL derived for its kind.
type StoredFile struct {
	ID       string
	Bucket   string
	Name     string
	MimeType string
	Size     int64
	URL      string
}
