package imagex

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
)

// Gravity values accepted by Preview.
const (
	GravityCenter = "center"
	GravityTop    = "top"
	GravityBottom = "bottom"
	GravityLeft   = "left"
	GravityRight  = "right"
)

// PreviewOptions mirrors the query of the preview endpoint. A zero Width or
// Height keeps the aspect ratio of the source.
type PreviewOptions struct {
	Width   int
	Height  int
	Gravity string
	Quality int
}

// Preview decodes src, crops it to the requested aspect ratio anchored at
// Gravity and scales it down to fit. Images are never upscaled.
func Preview(src io.Reader, mimeType string, opts PreviewOptions) ([]byte, string, error) {
	img, err := decode(src, mimeType)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	w, h := targetSize(img.Bounds(), opts.Width, opts.Height)
	crop := cropRect(img.Bounds(), w, h, opts.Gravity)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	ct, err := encode(&buf, dst, mimeType, opts.Quality)
	if err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), ct, nil
}

// targetSize resolves the output dimensions for a source of size b.
func targetSize(b image.Rectangle, width, height int) (int, int) {
	sw, sh := b.Dx(), b.Dy()
	switch {
	case width <= 0 && height <= 0:
		return sw, sh
	case width <= 0:
		width = sw * height / sh
	case height <= 0:
		height = sh * width / sw
	}

	// shrink both sides by the same factor until they fit the source
	if width > sw {
		height = height * sw / width
		width = sw
	}
	if height > sh {
		width = width * sh / height
		height = sh
	}
	return max(width, 1), max(height, 1)
}

// cropRect returns the largest sub-rectangle of b with the w:h aspect ratio,
// positioned according to gravity.
func cropRect(b image.Rectangle, w, h int, gravity string) image.Rectangle {
	sw, sh := b.Dx(), b.Dy()
	cw, ch := sw, sh
	if sw*h > sh*w {
		cw = sh * w / h
	} else {
		ch = sw * h / w
	}

	x := b.Min.X + (sw-cw)/2
	y := b.Min.Y + (sh-ch)/2
	switch gravity {
	case GravityTop:
		y = b.Min.Y
	case GravityBottom:
		y = b.Max.Y - ch
	case GravityLeft:
		x = b.Min.X
	case GravityRight:
		x = b.Max.X - cw
	}
	return image.Rect(x, y, x+cw, y+ch)
}
