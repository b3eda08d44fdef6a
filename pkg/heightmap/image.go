package heightmap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	// Register TIFF and BMP decoders for image.Decode.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DecodeImage converts a square grayscale image into a grid. Pixel intensity
// 0..65535 maps linearly onto 0..heightScale; colored images are converted to
// luminance first.
func DecodeImage(r io.Reader, spacing, heightScale float32) (*Grid, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("%w: %s image is %dx%d, expected square", ErrInvalidDimensions, format, b.Dx(), b.Dy())
	}

	g := NewGrid(b.Dx(), spacing)
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			g.Samples[y*g.Size+x] = float32(c.Y) / 65535 * heightScale
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// EncodePNG writes g as a 16-bit grayscale PNG normalized to the grid's range.
func EncodePNG(w io.Writer, g *Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}

	min, max := g.Range()
	span := max - min
	img := image.NewGray16(image.Rect(0, 0, g.Size, g.Size))
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			var v float32
			if span > 0 {
				v = (g.Samples[y*g.Size+x] - min) / span
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v*65535 + 0.5)})
		}
	}
	return png.Encode(w, img)
}
