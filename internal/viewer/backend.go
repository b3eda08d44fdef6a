package viewer

import "github.com/Faultbox/geomip/internal/engine/terrain"

// countingBackend stands in for a GPU backend and tallies what would be drawn.
type countingBackend struct {
	draws          int
	totalTriangles int
	lastVertex     int
}

func (b *countingBackend) Bind(vertices terrain.VertexRange, indices *terrain.IndexVariant) {
	b.draws++
	b.totalTriangles += indices.Triangles()
	if end := vertices.Start + vertices.Count; end > b.lastVertex {
		b.lastVertex = end
	}
}

func (b *countingBackend) reset() {
	b.draws = 0
}
