package imagex

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultAvatarSize is the edge of the square avatar in pixels.
const DefaultAvatarSize = 100

var palette = []color.RGBA{
	{0xF4, 0x43, 0x36, 0xFF},
	{0x3F, 0x51, 0xB5, 0xFF},
	{0x00, 0x96, 0x88, 0xFF},
	{0xFF, 0x98, 0x00, 0xFF},
	{0x9C, 0x27, 0xB0, 0xFF},
	{0x60, 0x7D, 0x8B, 0xFF},
}

// Initials returns the upper-cased first letters of the first two words of
// name, or "?" when name has no letters.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Avatar renders a size×size PNG with the initials of name on a background
// colour derived from name, so the same name always gets the same avatar.
func Avatar(name string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	text := Initials(name)
	face := basicfont.Face7x13

	// draw at the font's native size, then scale up
	const pad = 4
	tw := font.MeasureString(face, text).Ceil()
	edge := max(tw, face.Height) + 2*pad
	small := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: background(name)}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P((edge-tw)/2, (edge+face.Ascent-face.Descent)/2),
	}
	d.DrawString(text)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func background(name string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return palette[h.Sum32()%uint32(len(palette))]
}
