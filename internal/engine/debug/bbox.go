// Package debug provides debug visualization utilities for terrain surfaces.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/internal/engine/terrain"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for patch boxes.
const DefaultBBoxPadding = 0.05

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return appendBBox(nil, minX, minY, minZ, maxX, maxY, maxZ)
}

func appendBBox(dst []float32, minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return append(dst,
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	)
}

// BoundsWireframe creates wireframe vertices for a terrain box grown by padding.
func BoundsWireframe(b terrain.Bounds, padding float32) []float32 {
	return appendBounds(nil, b, padding)
}

func appendBounds(dst []float32, b terrain.Bounds, padding float32) []float32 {
	pad := mgl32.Vec3{padding, padding, padding}
	lo, hi := b.Min.Sub(pad), b.Max.Add(pad)
	return appendBBox(dst, lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

// QuadtreeWireframe emits the boxes of all quadtree nodes down to maxDepth.
// A negative maxDepth draws every node.
func QuadtreeWireframe(q *terrain.Quadtree, maxDepth int) []float32 {
	var out []float32
	q.Walk(func(depth int, b terrain.Bounds, _ *terrain.Patch) {
		if maxDepth >= 0 && depth > maxDepth {
			return
		}
		out = appendBounds(out, b, 0)
	})
	return out
}

// VisibleWireframe emits one padded box per patch.
func VisibleWireframe(patches []*terrain.Patch) []float32 {
	out := make([]float32, 0, len(patches)*BBoxWireframeVertexCount*3)
	for _, p := range patches {
		out = appendBounds(out, p.Bounds, DefaultBBoxPadding)
	}
	return out
}
