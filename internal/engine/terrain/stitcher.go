package terrain

// StitchKey maps a patch's level and its neighbors' levels to a geometry key.
// An edge is stitched only when that neighbor is exactly one level coarser;
// finer neighbors stitch on their own side.
func StitchKey(level int, neighbors [4]int) GeometryKey {
	var mask StitchMask
	for d := North; d <= West; d++ {
		if neighbors[d] == level+1 {
			mask |= 1 << d
		}
	}
	return GeometryKey{Level: level, Stitch: mask}
}

// Stitcher resolves patches to cached index buffers. It never allocates.
type Stitcher struct {
	cache *LevelGeometryCache
}

// NewStitcher returns a stitcher over cache.
func NewStitcher(cache *LevelGeometryCache) Stitcher {
	return Stitcher{cache: cache}
}

// Resolve returns the index buffer for p's current active and neighbor levels.
func (s Stitcher) Resolve(p *Patch) *IndexVariant {
	return s.cache.Variant(StitchKey(p.ActiveLevel, p.NeighborLevel))
}
