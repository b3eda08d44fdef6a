// Package picking provides ray construction and ray/box tests for aiming
// terrain edits.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay normalizes dir. A zero direction yields a zero ray that hits nothing.
func NewRay(origin, dir mgl32.Vec3) Ray {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at parameter t.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay converts pixel coordinates to a world-space ray through the
// near and far planes. viewProj is projection*view.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, viewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH

	inv := viewProj.Inv()
	near := unproject(inv, mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(inv, mgl32.Vec4{ndcX, ndcY, 1, 1})
	return NewRay(near, far.Sub(near))
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec4) mgl32.Vec3 {
	w := inv.Mul4x1(ndc)
	if w[3] != 0 {
		return mgl32.Vec3{w[0] / w[3], w[1] / w[3], w[2] / w[3]}
	}
	return w.Vec3()
}

// IntersectAABB returns the entry and exit parameters of the ray through the
// box [min, max]. Entry is clamped to 0 when the origin is inside.
func (r Ray) IntersectAABB(min, max mgl32.Vec3) (tEnter, tExit float32, hit bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for a := 0; a < 3; a++ {
		if r.Direction[a] == 0 {
			if r.Origin[a] < min[a] || r.Origin[a] > max[a] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / r.Direction[a]
		t1 := (min[a] - r.Origin[a]) * inv
		t2 := (max[a] - r.Origin[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, tmax, true
}
