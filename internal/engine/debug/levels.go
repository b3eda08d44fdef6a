package debug

import (
	"github.com/Faultbox/geomip/internal/engine/terrain"
)

// ColorVertex is a position with an RGB color.
type ColorVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// levelPalette runs from green (full detail) to red (coarsest).
var levelPalette = [][3]float32{
	{0.0, 0.8, 0.0},
	{0.5, 0.8, 0.0},
	{0.9, 0.8, 0.0},
	{0.9, 0.5, 0.0},
	{0.9, 0.2, 0.0},
	{0.7, 0.0, 0.2},
}

// LevelColor returns the overlay color for a level.
func LevelColor(level int) [3]float32 {
	if level < 0 {
		level = 0
	}
	if level >= len(levelPalette) {
		level = len(levelPalette) - 1
	}
	return levelPalette[level]
}

// LevelOverlay generates debug geometry over a surface's patch grid.
type LevelOverlay struct {
	surface *terrain.Surface
	lift    float32
}

// NewLevelOverlay creates an overlay drawn lift units above each patch.
func NewLevelOverlay(s *terrain.Surface, lift float32) *LevelOverlay {
	if s == nil {
		return nil
	}
	return &LevelOverlay{surface: s, lift: lift}
}

// GeneratePatchGrid generates line vertices along patch boundaries at height.
func (o *LevelOverlay) GeneratePatchGrid(height float32) []ColorVertex {
	n := o.surface.PatchesPerSide()
	extent := float32(n*o.surface.PatchSize()) * o.surface.HeightField().Spacing()
	step := extent / float32(n)
	gridColor := [3]float32{0.5, 0.5, 0.5}

	vertices := make([]ColorVertex, 0, (n+1)*4)
	for i := 0; i <= n; i++ {
		c := float32(i) * step
		vertices = append(vertices,
			ColorVertex{c, height, 0, gridColor[0], gridColor[1], gridColor[2]},
			ColorVertex{c, height, extent, gridColor[0], gridColor[1], gridColor[2]},
			ColorVertex{0, height, c, gridColor[0], gridColor[1], gridColor[2]},
			ColorVertex{extent, height, c, gridColor[0], gridColor[1], gridColor[2]},
		)
	}
	return vertices
}

// GenerateLevelQuads emits two triangles per patch, colored by active level,
// floating above the patch's top.
func (o *LevelOverlay) GenerateLevelQuads(patches []*terrain.Patch) []ColorVertex {
	vertices := make([]ColorVertex, 0, len(patches)*6)
	for _, p := range patches {
		color := LevelColor(p.ActiveLevel)
		x0, z0 := p.Bounds.Min[0], p.Bounds.Min[2]
		x1, z1 := p.Bounds.Max[0], p.Bounds.Max[2]
		y := p.Bounds.Max[1] + o.lift

		// Triangle 1
		vertices = append(vertices,
			ColorVertex{x0, y, z0, color[0], color[1], color[2]},
			ColorVertex{x0, y, z1, color[0], color[1], color[2]},
			ColorVertex{x1, y, z1, color[0], color[1], color[2]},
		)
		// Triangle 2
		vertices = append(vertices,
			ColorVertex{x0, y, z0, color[0], color[1], color[2]},
			ColorVertex{x1, y, z1, color[0], color[1], color[2]},
			ColorVertex{x1, y, z0, color[0], color[1], color[2]},
		)
	}
	return vertices
}
