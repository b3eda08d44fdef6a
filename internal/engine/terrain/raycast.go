package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/internal/engine/picking"
)

// RayHit is the first point where a ray meets the full-resolution surface.
type RayHit struct {
	Position mgl32.Vec3
	SampleX  int // Nearest sample column
	SampleY  int // Nearest sample row
	Distance float32
	Patch    *Patch
}

// Raycast finds the first intersection of r with the terrain. Candidate
// patches come from the quadtree nearest first; each is marched in half-sample
// steps and the crossing refined by bisection.
func (s *Surface) Raycast(r picking.Ray) (RayHit, bool) {
	step := s.hf.spacing * 0.5
	for _, h := range s.tree.rayPatches(r, step) {
		prev := h.enter
		if s.above(r, prev) <= 0 {
			return s.hit(r, prev, h.patch), true
		}
		for t := h.enter + step; ; t += step {
			if t > h.exit {
				t = h.exit
			}
			if s.above(r, t) <= 0 {
				lo, hi := prev, t
				for i := 0; i < 16; i++ {
					mid := (lo + hi) * 0.5
					if s.above(r, mid) <= 0 {
						hi = mid
					} else {
						lo = mid
					}
				}
				return s.hit(r, hi, h.patch), true
			}
			if t >= h.exit {
				break
			}
			prev = t
		}
	}
	return RayHit{}, false
}

// above returns the ray's height over the terrain at parameter t.
func (s *Surface) above(r picking.Ray, t float32) float32 {
	p := r.At(t)
	return p[1] - s.hf.Interpolated(p[0], p[2])
}

func (s *Surface) hit(r picking.Ray, t float32, patch *Patch) RayHit {
	p := r.At(t)
	sx := int(p[0]/s.hf.spacing + 0.5)
	sy := int(p[2]/s.hf.spacing + 0.5)
	return RayHit{
		Position: p,
		SampleX:  clampi(sx, 0, s.hf.size-1),
		SampleY:  clampi(sy, 0, s.hf.size-1),
		Distance: t,
		Patch:    patch,
	}
}
