package terrain

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/internal/engine/picking"
)

const noNode = -1

type quadNode struct {
	bounds   Bounds
	parent   int32
	children [4]int32
	nchild   int8
	patch    int32 // Patch index at leaves, -1 for internal nodes
}

// Quadtree is a bounding-volume hierarchy over the patch grid. Nodes live in
// one slice and refer to each other and to patches by index.
type Quadtree struct {
	nodes   []quadNode
	leafOf  []int32 // Patch index -> leaf node
	patches []*Patch
	depth   int
}

// BuildQuadtree partitions a cols x rows patch grid (row-major) into quadrants
// down to single-patch leaves.
func BuildQuadtree(patches []*Patch, cols, rows int) *Quadtree {
	q := &Quadtree{
		nodes:   make([]quadNode, 0, 2*len(patches)),
		leafOf:  make([]int32, len(patches)),
		patches: patches,
	}
	if len(patches) > 0 {
		q.build(0, 0, cols, rows, cols, noNode, 1)
	}
	return q
}

func (q *Quadtree) build(x0, y0, x1, y1, cols int, parent int32, depth int) int32 {
	id := int32(len(q.nodes))
	q.nodes = append(q.nodes, quadNode{parent: parent, patch: -1})
	if depth > q.depth {
		q.depth = depth
	}

	if x1-x0 == 1 && y1-y0 == 1 {
		idx := y0*cols + x0
		q.nodes[id].patch = int32(idx)
		q.nodes[id].bounds = q.patches[idx].Bounds
		q.leafOf[idx] = id
		return id
	}

	mx, my := (x0+x1)/2, (y0+y1)/2
	if x1-x0 == 1 {
		mx = x1
	}
	if y1-y0 == 1 {
		my = y1
	}
	quads := [4][4]int{
		{x0, y0, mx, my},
		{mx, y0, x1, my},
		{x0, my, mx, y1},
		{mx, my, x1, y1},
	}

	bounds := emptyBounds()
	for _, r := range quads {
		if r[0] >= r[2] || r[1] >= r[3] {
			continue
		}
		child := q.build(r[0], r[1], r[2], r[3], cols, id, depth+1)
		n := &q.nodes[id]
		n.children[n.nchild] = child
		n.nchild++
		bounds = bounds.Union(q.nodes[child].bounds)
	}
	q.nodes[id].bounds = bounds
	return id
}

// Bounds returns the root bounding volume.
func (q *Quadtree) Bounds() Bounds {
	if len(q.nodes) == 0 {
		return Bounds{}
	}
	return q.nodes[0].bounds
}

// NodeCount returns the number of nodes.
func (q *Quadtree) NodeCount() int { return len(q.nodes) }

// Depth returns the number of levels, root included.
func (q *Quadtree) Depth() int { return q.depth }

// Refit copies a patch's bounds into its leaf and recomputes every ancestor.
func (q *Quadtree) Refit(p *Patch) {
	id := q.leafOf[p.index]
	q.nodes[id].bounds = p.Bounds
	for id = q.nodes[id].parent; id != noNode; id = q.nodes[id].parent {
		n := &q.nodes[id]
		b := q.nodes[n.children[0]].bounds
		for i := int8(1); i < n.nchild; i++ {
			b = b.Union(q.nodes[n.children[i]].bounds)
		}
		n.bounds = b
	}
}

// Query calls visit once for every patch whose bounds intersect the frustum.
// Subtrees outside the frustum are skipped; subtrees fully inside are visited
// without further tests.
func (q *Quadtree) Query(f *Frustum, visit func(*Patch)) {
	if len(q.nodes) == 0 {
		return
	}
	q.query(0, f, visit)
}

func (q *Quadtree) query(id int32, f *Frustum, visit func(*Patch)) {
	n := &q.nodes[id]
	switch f.Classify(n.bounds) {
	case Outside:
		return
	case Inside:
		q.visitAll(id, visit)
		return
	}
	if n.patch >= 0 {
		if p := q.patches[n.patch]; p != nil {
			visit(p)
		}
		return
	}
	for i := int8(0); i < n.nchild; i++ {
		q.query(n.children[i], f, visit)
	}
}

func (q *Quadtree) visitAll(id int32, visit func(*Patch)) {
	n := &q.nodes[id]
	if n.patch >= 0 {
		if p := q.patches[n.patch]; p != nil {
			visit(p)
		}
		return
	}
	for i := int8(0); i < n.nchild; i++ {
		q.visitAll(n.children[i], visit)
	}
}

// Walk visits every node depth-first. leaf is nil for internal nodes.
func (q *Quadtree) Walk(fn func(depth int, b Bounds, leaf *Patch)) {
	if len(q.nodes) == 0 {
		return
	}
	q.walk(0, 0, fn)
}

func (q *Quadtree) walk(id int32, depth int, fn func(int, Bounds, *Patch)) {
	n := &q.nodes[id]
	var leaf *Patch
	if n.patch >= 0 {
		leaf = q.patches[n.patch]
	}
	fn(depth, n.bounds, leaf)
	for i := int8(0); i < n.nchild; i++ {
		q.walk(n.children[i], depth+1, fn)
	}
}

// rayHit is a leaf crossed by a ray, with its parametric entry and exit.
type rayHit struct {
	patch       *Patch
	enter, exit float32
}

// rayPatches returns the patches whose bounds, grown by margin, the ray
// crosses, nearest first.
func (q *Quadtree) rayPatches(r picking.Ray, margin float32) []rayHit {
	pad := mgl32.Vec3{margin, margin, margin}
	if len(q.nodes) == 0 {
		return nil
	}
	var hits []rayHit
	stack := []int32{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &q.nodes[id]
		enter, exit, ok := r.IntersectAABB(n.bounds.Min.Sub(pad), n.bounds.Max.Add(pad))
		if !ok {
			continue
		}
		if n.patch >= 0 {
			hits = append(hits, rayHit{patch: q.patches[n.patch], enter: enter, exit: exit})
			continue
		}
		for i := int8(0); i < n.nchild; i++ {
			stack = append(stack, n.children[i])
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].enter < hits[j].enter })
	return hits
}

// validate checks that every node's bounds contain its children's bounds and
// that every leaf matches its patch.
func (q *Quadtree) validate() error {
	for id := range q.nodes {
		n := &q.nodes[id]
		if n.patch >= 0 {
			if n.bounds != q.patches[n.patch].Bounds {
				return fmt.Errorf("leaf %d bounds out of date for patch %d", id, n.patch)
			}
			continue
		}
		for i := int8(0); i < n.nchild; i++ {
			if !n.bounds.Contains(q.nodes[n.children[i]].bounds) {
				return fmt.Errorf("node %d does not contain child %d", id, n.children[i])
			}
		}
	}
	return nil
}
