// Package terrain implements a geomipmapped terrain surface: a height field split
// into patches, per-frame level-of-detail selection driven by screen-space error,
// quadtree frustum culling and crack-free stitching between patches.
package terrain

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Configuration and edit errors.
var (
	ErrPatchSizeNotPowerOfTwo = errors.New("patch size is not a power of two")
	ErrSizeMismatch           = errors.New("height field size minus one is not a multiple of patch size")
	ErrMaxLevelTooLarge       = errors.New("max level exceeds log2(patch size)")
	ErrInvalidSpacing         = errors.New("sample spacing must be positive")
	ErrHeightDataSize         = errors.New("height data length does not match size*size")
	ErrOutOfBounds            = errors.New("sample coordinates outside the height field")
)

// Vertex is one entry of the surface vertex buffer.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32 // Surface-wide UV in [0,1]
}

// Bounds is an axis-aligned bounding box in world space.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// emptyBounds returns an inverted box that the first Union replaces.
func emptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{1e30, 1e30, 1e30},
		Max: mgl32.Vec3{-1e30, -1e30, -1e30},
	}
}

// Union returns the smallest box containing b and o.
func (b Bounds) Union(o Bounds) Bounds {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] {
			b.Min[i] = o.Min[i]
		}
		if o.Max[i] > b.Max[i] {
			b.Max[i] = o.Max[i]
		}
	}
	return b
}

// Contains reports whether o lies entirely inside b.
func (b Bounds) Contains(o Bounds) bool {
	for i := 0; i < 3; i++ {
		if o.Min[i] < b.Min[i] || o.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Direction indexes the four grid neighbors of a patch.
type Direction int

// Neighbor directions. North is toward decreasing patch y (world -Z).
const (
	North Direction = iota
	East
	South
	West
)

var directionOffsets = [4][2]int{
	North: {0, -1},
	East:  {1, 0},
	South: {0, 1},
	West:  {-1, 0},
}

// Opposite returns the direction pointing back at the caller.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// String returns the compass name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "invalid"
	}
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// log2 returns floor(log2(n)) for n > 0.
func log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
