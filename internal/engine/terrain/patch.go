package terrain

import "github.com/go-gl/mathgl/mgl32"

// VertexRange locates a patch's vertices inside the surface vertex buffer.
type VertexRange struct {
	Start int
	Count int
}

// Patch is one patchSize x patchSize cell block of the height field. Adjacent
// patches share their boundary row and column of samples.
type Patch struct {
	X, Y int // Patch grid coordinates

	ActiveLevel   int    // Level drawn this frame; 0 is full detail
	DesiredLevel  int    // Level chosen from the error budget before neighbor clamping
	NeighborLevel [4]int // Last known level of the neighbor in each Direction

	Bounds        Bounds
	ErrorPerLevel []float32 // Row of the surface's ErrorMetricTable
	Dirty         bool

	index    int
	originX  int // First sample column
	originY  int // First sample row
	distance float32
	frame    uint64 // Frame in which the patch was last visible
	fringe   uint64 // Frame in which the patch was last a culled neighbor
}

// Index returns the patch's position in the surface arena (Y*cols + X).
func (p *Patch) Index() int { return p.index }

// Origin returns the sample coordinates of the patch's first vertex.
func (p *Patch) Origin() (x, y int) { return p.originX, p.originY }

// Center returns the center of the bounding volume.
func (p *Patch) Center() mgl32.Vec3 { return p.Bounds.Center() }

// Distance returns the viewpoint distance computed during the last update.
func (p *Patch) Distance() float32 { return p.distance }

// ContainsSample reports whether sample (x, y) lies in the patch, boundary included.
func (p *Patch) ContainsSample(x, y, patchSize int) bool {
	return x >= p.originX && x <= p.originX+patchSize &&
		y >= p.originY && y <= p.originY+patchSize
}

// refresh recomputes bounds and errors from the height field and clears Dirty.
func (p *Patch) refresh(hf *HeightField, table *ErrorMetricTable, patchSize int) {
	minH, maxH := hf.At(p.originX, p.originY), hf.At(p.originX, p.originY)
	for y := p.originY; y <= p.originY+patchSize; y++ {
		for x := p.originX; x <= p.originX+patchSize; x++ {
			h := hf.At(x, y)
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
	}

	s := hf.spacing
	p.Bounds = Bounds{
		Min: mgl32.Vec3{float32(p.originX) * s, minH, float32(p.originY) * s},
		Max: mgl32.Vec3{float32(p.originX+patchSize) * s, maxH, float32(p.originY+patchSize) * s},
	}

	table.compute(hf, p.originX, p.originY, patchSize, p.ErrorPerLevel)
	p.Dirty = false
}
