package terrain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPatchSpan(t *testing.T) {
	tests := []struct {
		c    int
		want [2]int
	}{
		{0, [2]int{0, -1}},
		{5, [2]int{0, -1}},
		{16, [2]int{1, 0}},
		{24, [2]int{1, -1}},
		{32, [2]int{2, 1}},
		{64, [2]int{-1, 3}},
	}
	for _, tt := range tests {
		if got := patchSpan(tt.c, 16, 4); got != tt.want {
			t.Errorf("patchSpan(%d) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func dirtySet(s *Surface) map[[2]int]bool {
	out := map[[2]int]bool{}
	for _, p := range s.Patches() {
		if p.Dirty {
			out[[2]int{p.X, p.Y}] = true
		}
	}
	return out
}

func TestSetHeightMarksOwningPatches(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want [][2]int
	}{
		{"interior", 5, 5, [][2]int{{0, 0}}},
		{"horizontal boundary", 24, 32, [][2]int{{1, 1}, {1, 2}}},
		{"vertical boundary", 16, 40, [][2]int{{0, 2}, {1, 2}}},
		{"corner", 16, 16, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
		{"field corner", 64, 64, [][2]int{{3, 3}}},
		{"origin", 0, 0, [][2]int{{0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildSurface(t, flatField(t, 65, 0), DefaultOptions())
			if err := s.SetHeight(tt.x, tt.y, 7); err != nil {
				t.Fatalf("SetHeight failed: %v", err)
			}

			got := dirtySet(s)
			if len(got) != len(tt.want) || s.DirtyCount() != len(tt.want) {
				t.Fatalf("expected %d dirty patches, got %v (count %d)", len(tt.want), got, s.DirtyCount())
			}
			for _, w := range tt.want {
				if !got[w] {
					t.Errorf("expected patch %v dirty", w)
				}
			}
		})
	}
}

func TestSetHeightOutOfBounds(t *testing.T) {
	s := buildSurface(t, flatField(t, 65, 0), DefaultOptions())

	for _, c := range [][2]int{{-1, 0}, {0, 65}, {65, 65}} {
		if err := s.SetHeight(c[0], c[1], 1); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetHeight%v: expected ErrOutOfBounds, got %v", c, err)
		}
	}
	if s.DirtyCount() != 0 {
		t.Errorf("expected no dirty patches, got %d", s.DirtyCount())
	}
	if _, err := s.Editor().Height(70, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Height: expected ErrOutOfBounds, got %v", err)
	}
}

func TestEditRefreshedOnUpdate(t *testing.T) {
	s := buildSurface(t, flatField(t, 65, 0), DefaultOptions())
	before := s.Patch(0, 0).ErrorPerLevel[s.MaxLevel()]

	if err := s.SetHeight(24, 32, 50); err != nil {
		t.Fatalf("SetHeight failed: %v", err)
	}
	// Repeated edits to the same patches queue them once.
	if err := s.SetHeight(25, 32, 0); err != nil {
		t.Fatalf("SetHeight failed: %v", err)
	}
	if s.DirtyCount() != 2 {
		t.Fatalf("expected 2 dirty patches, got %d", s.DirtyCount())
	}
	if err := s.CheckInvariants(); err != nil {
		t.Errorf("expected invariants to hold while refresh is pending, got %v", err)
	}

	res := s.Update(lookAt(mgl32.Vec3{32, 200, 32}, mgl32.Vec3{32, 0, 32}))
	if len(res.Refreshed) != 2 {
		t.Fatalf("expected 2 refreshed patches, got %d", len(res.Refreshed))
	}
	if s.DirtyCount() != 0 {
		t.Errorf("expected dirty queue drained, got %d", s.DirtyCount())
	}

	for _, p := range []*Patch{s.Patch(1, 1), s.Patch(1, 2)} {
		if p.Dirty {
			t.Errorf("patch (%d,%d) still dirty", p.X, p.Y)
		}
		if p.Bounds.Max[1] != 50 {
			t.Errorf("patch (%d,%d): expected max Y 50, got %v", p.X, p.Y, p.Bounds.Max[1])
		}
		if e := p.ErrorPerLevel[s.MaxLevel()]; e < 50 {
			t.Errorf("patch (%d,%d): expected coarsest error >= 50, got %v", p.X, p.Y, e)
		}
	}
	if got := s.Patch(0, 0).ErrorPerLevel[s.MaxLevel()]; got != before {
		t.Errorf("untouched patch error changed from %v to %v", before, got)
	}
	if s.Quadtree().Bounds().Max[1] != 50 {
		t.Errorf("expected quadtree root refit to 50, got %v", s.Quadtree().Bounds().Max[1])
	}
	if err := s.CheckInvariants(); err != nil {
		t.Error(err)
	}

	// Both patches see the shared sample.
	upper := make([]Vertex, s.Geometry().VerticesPerPatch())
	lower := make([]Vertex, s.Geometry().VerticesPerPatch())
	s.PatchVertices(s.Patch(1, 1), upper)
	s.PatchVertices(s.Patch(1, 2), lower)
	if upper[16*17+8].Position != lower[8].Position || upper[16*17+8].Position[1] != 50 {
		t.Errorf("shared sample differs: %v vs %v", upper[16*17+8].Position, lower[8].Position)
	}

	res = s.Update(lookAt(mgl32.Vec3{32, 200, 32}, mgl32.Vec3{32, 0, 32}))
	if len(res.Refreshed) != 0 {
		t.Errorf("expected nothing refreshed without edits, got %d", len(res.Refreshed))
	}
}

func TestApplyBrush(t *testing.T) {
	s := buildSurface(t, flatField(t, 65, 0), DefaultOptions())
	e := s.Editor()

	changed := e.ApplyBrush(32, 32, 3, 10)
	// Samples strictly inside radius 3: dx*dx+dy*dy < 9.
	if changed != 25 {
		t.Errorf("expected 25 samples changed, got %d", changed)
	}
	if h, _ := e.Height(32, 32); h != 10 {
		t.Errorf("expected full delta at the center, got %v", h)
	}
	if h, _ := e.Height(35, 32); h != 0 {
		t.Errorf("expected no change on the rim, got %v", h)
	}
	if h, _ := e.Height(33, 32); h <= 0 || h >= 10 {
		t.Errorf("expected partial change near the center, got %v", h)
	}
	// The brush straddles the corner shared by four patches.
	if s.DirtyCount() != 4 {
		t.Errorf("expected 4 dirty patches, got %d", s.DirtyCount())
	}

	if e.ApplyBrush(32, 32, 0, 10) != 0 {
		t.Error("expected zero radius to change nothing")
	}
	if n := e.ApplyBrush(0, 0, 2, 1); n == 0 {
		t.Error("expected brush clipped at the field edge to still apply")
	}
}

func TestFlatten(t *testing.T) {
	s := buildSurface(t, flatField(t, 33, 4), DefaultOptions())
	e := s.Editor()

	if n := e.Flatten(10, 10, 4, 4); n != 0 {
		t.Errorf("expected flattening to the current height to change nothing, got %d", n)
	}
	e.Flatten(10, 10, 4, 0)
	if h, _ := e.Height(10, 10); h != 0 {
		t.Errorf("expected center flattened to 0, got %v", h)
	}
}
