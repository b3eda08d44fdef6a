package terrain

import (
	"fmt"

	"github.com/Faultbox/geomip/pkg/heightmap"
)

// HeightField owns a square grid of elevation samples. The size is fixed at
// construction; only values change afterwards.
type HeightField struct {
	size    int
	spacing float32
	samples []float32
}

// NewHeightField copies samples (row-major, size*size) into a new height field.
func NewHeightField(size int, spacing float32, samples []float32) (*HeightField, error) {
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpacing, spacing)
	}
	if size < 2 || len(samples) != size*size {
		return nil, fmt.Errorf("%w: %d samples for size %d", ErrHeightDataSize, len(samples), size)
	}
	owned := make([]float32, len(samples))
	copy(owned, samples)
	return &HeightField{size: size, spacing: spacing, samples: owned}, nil
}

// HeightFieldFromGrid copies an ingested grid.
func HeightFieldFromGrid(g *heightmap.Grid) (*HeightField, error) {
	return NewHeightField(g.Size, g.Spacing, g.Samples)
}

// Size returns the number of samples per side.
func (h *HeightField) Size() int { return h.size }

// Spacing returns the world distance between adjacent samples.
func (h *HeightField) Spacing() float32 { return h.spacing }

// InBounds reports whether (x, y) addresses a sample.
func (h *HeightField) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < h.size && y < h.size
}

// At returns the sample at (x, y). Coordinates are clamped to the field.
func (h *HeightField) At(x, y int) float32 {
	x = clampi(x, 0, h.size-1)
	y = clampi(y, 0, h.size-1)
	return h.samples[y*h.size+x]
}

// set stores a sample; callers go through the Editor so dirty tracking stays correct.
func (h *HeightField) set(x, y int, v float32) {
	h.samples[y*h.size+x] = v
}

// Interpolated returns the bilinearly interpolated height at a world XZ position.
func (h *HeightField) Interpolated(worldX, worldZ float32) float32 {
	fx := clampf(worldX/h.spacing, 0, float32(h.size-1))
	fz := clampf(worldZ/h.spacing, 0, float32(h.size-1))

	x0 := int(fx)
	z0 := int(fz)
	if x0 >= h.size-1 {
		x0 = h.size - 2
	}
	if z0 >= h.size-1 {
		z0 = h.size - 2
	}
	tx := fx - float32(x0)
	tz := fz - float32(z0)

	north := h.At(x0, z0)*(1-tx) + h.At(x0+1, z0)*tx
	south := h.At(x0, z0+1)*(1-tx) + h.At(x0+1, z0+1)*tx
	return north*(1-tz) + south*tz
}

// Range returns the minimum and maximum elevation.
func (h *HeightField) Range() (min, max float32) {
	min, max = h.samples[0], h.samples[0]
	for _, v := range h.samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Grid returns a copy of the samples for persistence.
func (h *HeightField) Grid() *heightmap.Grid {
	g := heightmap.NewGrid(h.size, h.spacing)
	copy(g.Samples, h.samples)
	return g
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
