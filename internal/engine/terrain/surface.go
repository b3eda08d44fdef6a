package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/geomip/internal/logger"
	"github.com/Faultbox/geomip/pkg/heightmap"
)

// Options are the construction-time parameters of a surface.
type Options struct {
	PatchSize        int     // Cells per patch side, a power of two
	MaxLevel         int     // Coarsest level, at most log2(PatchSize)
	ErrorTolerance   float32 // Screen-space error budget in pixels
	PlanarErrorScale float32 // Error floor per dropped sample spacing; 0 disables
	CheckInvariants  bool    // Verify table, tree and level invariants after every update

	// Geometry is an optional prebuilt cache; it must match PatchSize and
	// MaxLevel. When nil the process-wide shared cache is used.
	Geometry *LevelGeometryCache
	Logger   *zap.Logger
}

// DefaultOptions returns a 16-cell patch, 5-level configuration.
func DefaultOptions() Options {
	return Options{
		PatchSize:        16,
		MaxLevel:         4,
		ErrorTolerance:   2.0,
		PlanarErrorScale: 0.5,
	}
}

// Surface owns a height field, its patch arena, error table and quadtree.
// It is not safe for concurrent use; edits and updates must be serialized by
// the owner.
type Surface struct {
	opts     Options
	log      *zap.Logger
	hf       *HeightField
	cols     int
	patches  []*Patch
	errors   *ErrorMetricTable
	tree     *Quadtree
	geometry *LevelGeometryCache
	stitcher Stitcher
	selector *Selector
	editor   *Editor

	dirty     []int
	refreshed []*Patch
}

// Build validates the configuration and constructs a surface over hf. The
// surface takes ownership of hf. No surface is returned on error.
func Build(hf *HeightField, opts Options) (*Surface, error) {
	if err := validate(hf, opts); err != nil {
		return nil, err
	}

	geometry := opts.Geometry
	if geometry == nil {
		var err error
		if geometry, err = SharedGeometry(opts.PatchSize, opts.MaxLevel); err != nil {
			return nil, err
		}
	} else if geometry.PatchSize() != opts.PatchSize || geometry.MaxLevel() != opts.MaxLevel {
		return nil, fmt.Errorf("geometry cache is %d/%d, surface needs %d/%d",
			geometry.PatchSize(), geometry.MaxLevel(), opts.PatchSize, opts.MaxLevel)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Named("terrain")
	}

	cols := (hf.Size() - 1) / opts.PatchSize
	s := &Surface{
		opts:     opts,
		log:      log,
		hf:       hf,
		cols:     cols,
		patches:  make([]*Patch, cols*cols),
		errors:   newErrorMetricTable(cols*cols, opts.MaxLevel, opts.PlanarErrorScale),
		geometry: geometry,
		stitcher: Stitcher{cache: geometry},
	}

	for py := 0; py < cols; py++ {
		for px := 0; px < cols; px++ {
			idx := py*cols + px
			p := &Patch{
				X:             px,
				Y:             py,
				ActiveLevel:   opts.MaxLevel,
				DesiredLevel:  opts.MaxLevel,
				NeighborLevel: [4]int{opts.MaxLevel, opts.MaxLevel, opts.MaxLevel, opts.MaxLevel},
				ErrorPerLevel: s.errors.Row(idx),
				index:         idx,
				originX:       px * opts.PatchSize,
				originY:       py * opts.PatchSize,
			}
			p.refresh(hf, s.errors, opts.PatchSize)
			s.patches[idx] = p
		}
	}

	s.tree = BuildQuadtree(s.patches, cols, cols)
	s.selector = newSelector(s)
	s.editor = &Editor{surface: s}

	log.Info("surface built",
		zap.Int("samples", hf.Size()),
		zap.Int("patchSize", opts.PatchSize),
		zap.Int("patches", len(s.patches)),
		zap.Int("maxLevel", opts.MaxLevel),
		zap.Int("quadtreeNodes", s.tree.NodeCount()),
		zap.Int("quadtreeDepth", s.tree.Depth()))

	return s, nil
}

func validate(hf *HeightField, opts Options) error {
	if hf == nil {
		return fmt.Errorf("%w: nil height field", ErrHeightDataSize)
	}
	if !isPowerOfTwo(opts.PatchSize) {
		return fmt.Errorf("%w: %d", ErrPatchSizeNotPowerOfTwo, opts.PatchSize)
	}
	if n := hf.Size() - 1; n < opts.PatchSize || n%opts.PatchSize != 0 {
		return fmt.Errorf("%w: size %d, patch size %d", ErrSizeMismatch, hf.Size(), opts.PatchSize)
	}
	if opts.MaxLevel < 0 || opts.MaxLevel > log2(opts.PatchSize) {
		return fmt.Errorf("%w: max level %d, patch size %d", ErrMaxLevelTooLarge, opts.MaxLevel, opts.PatchSize)
	}
	return nil
}

// HeightField returns the owned height field. Mutate it through Editor.
func (s *Surface) HeightField() *HeightField { return s.hf }

// PatchSize returns cells per patch side.
func (s *Surface) PatchSize() int { return s.opts.PatchSize }

// MaxLevel returns the coarsest level.
func (s *Surface) MaxLevel() int { return s.opts.MaxLevel }

// PatchesPerSide returns the patch grid dimension.
func (s *Surface) PatchesPerSide() int { return s.cols }

// Patches returns the patch arena in row-major order.
func (s *Surface) Patches() []*Patch { return s.patches }

// Patch returns the patch at grid coordinates, or nil outside the grid.
func (s *Surface) Patch(px, py int) *Patch {
	if px < 0 || py < 0 || px >= s.cols || py >= s.cols {
		return nil
	}
	return s.patches[py*s.cols+px]
}

// Neighbor returns the patch adjacent to p in direction d, or nil at the border.
func (s *Surface) Neighbor(p *Patch, d Direction) *Patch {
	off := directionOffsets[d]
	return s.Patch(p.X+off[0], p.Y+off[1])
}

func (s *Surface) neighborIndex(p *Patch, d Direction) int {
	off := directionOffsets[d]
	x, y := p.X+off[0], p.Y+off[1]
	if x < 0 || y < 0 || x >= s.cols || y >= s.cols {
		return -1
	}
	return y*s.cols + x
}

// Quadtree returns the culling hierarchy.
func (s *Surface) Quadtree() *Quadtree { return s.tree }

// Geometry returns the shared index-buffer cache.
func (s *Surface) Geometry() *LevelGeometryCache { return s.geometry }

// ErrorMetrics returns the per-patch error table.
func (s *Surface) ErrorMetrics() *ErrorMetricTable { return s.errors }

// Selector returns the per-frame level selector.
func (s *Surface) Selector() *Selector { return s.selector }

// Editor returns the height editor.
func (s *Surface) Editor() *Editor { return s.editor }

// Stitcher returns the geometry variant resolver.
func (s *Surface) Stitcher() Stitcher { return s.stitcher }

// Update runs level selection for one frame. See Selector.Update.
func (s *Surface) Update(view View) *FrameResult {
	return s.selector.Update(view)
}

// SetHeight edits one sample. See Editor.SetHeight.
func (s *Surface) SetHeight(x, y int, v float32) error {
	return s.editor.SetHeight(x, y, v)
}

// SetErrorTolerance changes the screen-space error budget for later updates.
func (s *Surface) SetErrorTolerance(pixels float32) {
	s.selector.tolerance = pixels
}

// markDirty queues a patch for recomputation on the next update.
func (s *Surface) markDirty(p *Patch) {
	if p.Dirty {
		return
	}
	p.Dirty = true
	s.dirty = append(s.dirty, p.index)
}

// DirtyCount returns the number of patches awaiting recomputation.
func (s *Surface) DirtyCount() int { return len(s.dirty) }

// refreshDirty recomputes every queued patch and refits the quadtree. The
// returned slice is reused by the next call.
func (s *Surface) refreshDirty() []*Patch {
	s.refreshed = s.refreshed[:0]
	if len(s.dirty) == 0 {
		return s.refreshed
	}
	for _, idx := range s.dirty {
		p := s.patches[idx]
		p.refresh(s.hf, s.errors, s.opts.PatchSize)
		s.tree.Refit(p)
		s.refreshed = append(s.refreshed, p)
	}
	s.dirty = s.dirty[:0]
	s.log.Debug("refreshed dirty patches", zap.Int("count", len(s.refreshed)))
	return s.refreshed
}

// VertexRange returns the location of p's vertices in the surface vertex buffer.
func (s *Surface) VertexRange(p *Patch) VertexRange {
	n := s.geometry.VerticesPerPatch()
	return VertexRange{Start: p.index * n, Count: n}
}

// Vertices builds the vertex buffer for every patch.
func (s *Surface) Vertices() []Vertex {
	n := s.geometry.VerticesPerPatch()
	out := make([]Vertex, len(s.patches)*n)
	for _, p := range s.patches {
		s.PatchVertices(p, out[p.index*n:(p.index+1)*n])
	}
	return out
}

// PatchVertices fills dst, which must hold (patchSize+1)^2 entries, with p's
// vertices in local row-major order.
func (s *Surface) PatchVertices(p *Patch, dst []Vertex) {
	size := s.opts.PatchSize
	stride := size + 1
	spacing := s.hf.spacing
	uvScale := 1 / float32(s.hf.size-1)

	for ly := 0; ly <= size; ly++ {
		for lx := 0; lx <= size; lx++ {
			x, y := p.originX+lx, p.originY+ly
			dst[ly*stride+lx] = Vertex{
				Position: [3]float32{float32(x) * spacing, s.hf.At(x, y), float32(y) * spacing},
				TexCoord: [2]float32{float32(x) * uvScale, float32(y) * uvScale},
			}
		}
	}
}

// Snapshot copies the current heights for persistence.
func (s *Surface) Snapshot() *heightmap.Grid {
	return s.hf.Grid()
}
