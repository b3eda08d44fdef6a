// Package heightmap provides height-field ingestion and persistence: an in-memory
// sample grid, a compressed snapshot format, image import and procedural generation.
package heightmap

import (
	"errors"
	"fmt"
)

// Grid errors.
var (
	ErrInvalidDimensions = errors.New("invalid heightmap dimensions")
	ErrInvalidSpacing    = errors.New("invalid heightmap spacing")
)

// MaxSize bounds the side length accepted by decoders.
const MaxSize = 16385

// Grid is a square array of elevation samples stored row-major (index y*Size+x).
type Grid struct {
	Size    int       // Samples per side
	Spacing float32   // World distance between adjacent samples
	Samples []float32 // Size*Size elevations
}

// NewGrid allocates a flat grid of the given side length.
func NewGrid(size int, spacing float32) *Grid {
	return &Grid{
		Size:    size,
		Spacing: spacing,
		Samples: make([]float32, size*size),
	}
}

// At returns the sample at (x, y). Out-of-range coordinates return 0.
func (g *Grid) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= g.Size || y >= g.Size {
		return 0
	}
	return g.Samples[y*g.Size+x]
}

// Set stores a sample. Out-of-range coordinates are ignored.
func (g *Grid) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= g.Size || y >= g.Size {
		return
	}
	g.Samples[y*g.Size+x] = v
}

// Range returns the minimum and maximum sample.
func (g *Grid) Range() (min, max float32) {
	if len(g.Samples) == 0 {
		return 0, 0
	}
	min, max = g.Samples[0], g.Samples[0]
	for _, h := range g.Samples[1:] {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}

// Validate checks that the grid is square, non-empty and has a usable spacing.
func (g *Grid) Validate() error {
	if g.Size < 2 || g.Size > MaxSize {
		return fmt.Errorf("%w: size %d", ErrInvalidDimensions, g.Size)
	}
	if len(g.Samples) != g.Size*g.Size {
		return fmt.Errorf("%w: %d samples for size %d", ErrInvalidDimensions, len(g.Samples), g.Size)
	}
	if !(g.Spacing > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSpacing, g.Spacing)
	}
	return nil
}
