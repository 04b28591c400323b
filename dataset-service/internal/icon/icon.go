// Package icon renders small random-noise profile pictures.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
)

// Size is the width and height of generated icons in pixels.
const Size = 16

// Generator draws icons from its own random source.
type Generator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns a Size x Size opaque image whose every pixel has an
// independently drawn RGB colour.
func (g *Generator) Generate() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	for x := range Size {
		for y := range Size {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(g.rng.IntN(256)),
				G: uint8(g.rng.IntN(256)),
				B: uint8(g.rng.IntN(256)),
				A: 0xff,
			})
		}
	}
	return img
}

// Encode serialises an image as PNG.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

// Batch generates n icons and returns them PNG encoded.
func (g *Generator) Batch(n int) ([][]byte, error) {
	icons := make([][]byte, 0, n)
	for range n {
		data, err := Encode(g.Generate())
		if err != nil {
			return nil, err
		}
		icons = append(icons, data)
	}
	return icons, nil
}
