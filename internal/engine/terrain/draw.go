package terrain

// Binder is implemented by a rendering backend. Bind is called once per
// visible patch with its vertex range and the index buffer variant to draw.
type Binder interface {
	Bind(vertices VertexRange, indices *IndexVariant)
}

// DrawItem is one patch ready for submission.
type DrawItem struct {
	Patch    *Patch
	Vertices VertexRange
	Indices  *IndexVariant
}

// AppendDrawList appends a draw item for each patch in visible, in order.
func (s *Surface) AppendDrawList(dst []DrawItem, visible []*Patch) []DrawItem {
	for _, p := range visible {
		dst = append(dst, DrawItem{
			Patch:    p,
			Vertices: s.VertexRange(p),
			Indices:  s.stitcher.Resolve(p),
		})
	}
	return dst
}

// Draw hands every patch that was visible in the last update to b, nearest first.
func (s *Surface) Draw(b Binder) {
	for _, p := range s.selector.visible {
		b.Bind(s.VertexRange(p), s.stitcher.Resolve(p))
	}
}
