package terrain

import (
	"fmt"
	"sync"
)

// StitchMask has one bit per Direction; a set bit means the neighbor on that
// edge is exactly one level coarser.
type StitchMask uint8

// Stitch bits.
const (
	StitchNorth StitchMask = 1 << North
	StitchEast  StitchMask = 1 << East
	StitchSouth StitchMask = 1 << South
	StitchWest  StitchMask = 1 << West

	stitchCombinations = 16
)

// Has reports whether the edge in direction d is stitched.
func (m StitchMask) Has(d Direction) bool {
	return m&(1<<d) != 0
}

// GeometryKey selects one index-buffer variant.
type GeometryKey struct {
	Level  int
	Stitch StitchMask
}

// IndexVariant is an immutable triangle list over a patch's local vertex grid.
// Offset and Count locate it inside LevelGeometryCache.Indices.
type IndexVariant struct {
	Key     GeometryKey
	Offset  int
	Count   int
	Indices []uint32
}

// Triangles returns the number of triangles in the variant.
func (v *IndexVariant) Triangles() int {
	return v.Count / 3
}

// LevelGeometryCache holds an index buffer for every (level, stitch mask)
// pair. It depends only on patch size and level count and is read-only once
// built, so any number of surfaces may share it.
type LevelGeometryCache struct {
	patchSize int
	maxLevel  int
	indices   []uint32
	variants  []IndexVariant
}

// NewLevelGeometryCache builds all (maxLevel+1)*16 variants.
func NewLevelGeometryCache(patchSize, maxLevel int) (*LevelGeometryCache, error) {
	if !isPowerOfTwo(patchSize) {
		return nil, fmt.Errorf("%w: %d", ErrPatchSizeNotPowerOfTwo, patchSize)
	}
	if maxLevel < 0 || maxLevel > log2(patchSize) {
		return nil, fmt.Errorf("%w: max level %d, patch size %d", ErrMaxLevelTooLarge, maxLevel, patchSize)
	}

	c := &LevelGeometryCache{
		patchSize: patchSize,
		maxLevel:  maxLevel,
		variants:  make([]IndexVariant, (maxLevel+1)*stitchCombinations),
	}

	for level := 0; level <= maxLevel; level++ {
		for mask := StitchMask(0); mask < stitchCombinations; mask++ {
			offset := len(c.indices)
			c.indices = appendLevelIndices(c.indices, patchSize, level, mask)
			c.variants[level*stitchCombinations+int(mask)] = IndexVariant{
				Key:    GeometryKey{Level: level, Stitch: mask},
				Offset: offset,
				Count:  len(c.indices) - offset,
			}
		}
	}

	// Slice views are taken after the buffer stops growing.
	for i := range c.variants {
		v := &c.variants[i]
		v.Indices = c.indices[v.Offset : v.Offset+v.Count : v.Offset+v.Count]
	}
	return c, nil
}

// Variant returns the index buffer for key, or nil if key is out of range.
func (c *LevelGeometryCache) Variant(key GeometryKey) *IndexVariant {
	if key.Level < 0 || key.Level > c.maxLevel || key.Stitch >= stitchCombinations {
		return nil
	}
	return &c.variants[key.Level*stitchCombinations+int(key.Stitch)]
}

// Indices returns every variant concatenated, for a single index buffer upload.
func (c *LevelGeometryCache) Indices() []uint32 { return c.indices }

// VariantCount returns the number of variants.
func (c *LevelGeometryCache) VariantCount() int { return len(c.variants) }

// PatchSize returns the patch side length in cells.
func (c *LevelGeometryCache) PatchSize() int { return c.patchSize }

// MaxLevel returns the coarsest level with geometry.
func (c *LevelGeometryCache) MaxLevel() int { return c.maxLevel }

// VerticesPerPatch returns (patchSize+1)^2.
func (c *LevelGeometryCache) VerticesPerPatch() int {
	return (c.patchSize + 1) * (c.patchSize + 1)
}

// fanRing lists the eight perimeter offsets of a 2x2 block around its center,
// ordered so that (center, ring[i], ring[i+1]) is counter-clockwise seen from +Y.
// Odd entries are edge midpoints.
var fanRing = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1},
}

// appendLevelIndices emits the triangle list for one variant. A level with
// step s samples every s-th vertex. Blocks of 2x2 cells are drawn as fans
// around their center vertex; on a stitched patch edge the block's edge
// midpoint is dropped so the edge only uses vertices the coarser neighbor has.
func appendLevelIndices(dst []uint32, patchSize, level int, mask StitchMask) []uint32 {
	stride := patchSize + 1
	vi := func(x, y int) uint32 { return uint32(y*stride + x) }

	step := 1 << level
	cells := patchSize / step

	if cells == 1 {
		// No neighbor can be coarser than a single quad.
		n := patchSize
		return append(dst,
			vi(0, 0), vi(0, n), vi(n, n),
			vi(0, 0), vi(n, n), vi(n, 0),
		)
	}

	var ring [8]uint32
	for by := 1; by < cells; by += 2 {
		for bx := 1; bx < cells; bx += 2 {
			cx, cy := bx*step, by*step
			center := vi(cx, cy)

			n := 0
			for i, off := range fanRing {
				if i%2 == 1 && skipMidpoint(off, bx, by, cells, mask) {
					continue
				}
				ring[n] = vi(cx+off[0]*step, cy+off[1]*step)
				n++
			}
			for i := 0; i < n; i++ {
				dst = append(dst, center, ring[i], ring[(i+1)%n])
			}
		}
	}
	return dst
}

// skipMidpoint reports whether a block edge midpoint lies on a stitched patch edge.
func skipMidpoint(off [2]int, bx, by, cells int, mask StitchMask) bool {
	switch {
	case off[0] == -1:
		return bx == 1 && mask.Has(West)
	case off[0] == 1:
		return bx == cells-1 && mask.Has(East)
	case off[1] == -1:
		return by == 1 && mask.Has(North)
	default:
		return by == cells-1 && mask.Has(South)
	}
}

type geometryKey struct {
	patchSize int
	maxLevel  int
}

var (
	sharedGeometryMu sync.Mutex
	sharedGeometry   = make(map[geometryKey]*LevelGeometryCache)
)

// SharedGeometry returns a process-wide cache for the given configuration,
// building it on first use.
func SharedGeometry(patchSize, maxLevel int) (*LevelGeometryCache, error) {
	key := geometryKey{patchSize, maxLevel}

	sharedGeometryMu.Lock()
	defer sharedGeometryMu.Unlock()

	if c, ok := sharedGeometry[key]; ok {
		return c, nil
	}
	c, err := NewLevelGeometryCache(patchSize, maxLevel)
	if err != nil {
		return nil, err
	}
	sharedGeometry[key] = c
	return c, nil
}
