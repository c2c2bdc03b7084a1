// Package imagex renders the derived images served by the platform emulator:
// cropped previews of stored pictures and initials avatars.
package imagex

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/tiff"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeTIFF = "image/tiff"
)

// ErrUnsupportedMIMEType is returned for content that is not a decodable image.
var ErrUnsupportedMIMEType = errors.New("unsupported MIME type")

var decoders = map[string]func(io.Reader) (image.Image, error){
	MIMETypeJPEG: jpeg.Decode,
	MIMETypePNG:  png.Decode,
	MIMETypeTIFF: tiff.Decode,
}

// Supported reports whether mimeType can be decoded into a preview.
func Supported(mimeType string) bool {
	_, ok := decoders[mimeType]
	return ok
}

func decode(r io.Reader, mimeType string) (image.Image, error) {
	dec, ok := decoders[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMIMEType, mimeType)
	}
	return dec(r)
}

// encode writes img as JPEG with the given quality, or as PNG for every
// other source type. It returns the MIME type written.
func encode(w io.Writer, img image.Image, mimeType string, quality int) (string, error) {
	if mimeType == MIMETypeJPEG {
		if quality <= 0 || quality > 100 {
			quality = jpeg.DefaultQuality
		}
		return MIMETypeJPEG, jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
	return MIMETypePNG, png.Encode(w, img)
}
