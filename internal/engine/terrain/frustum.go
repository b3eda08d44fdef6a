package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is a half-space a*x + b*y + c*z + d >= 0 with a unit normal.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p mgl32.Vec3) float32 {
	return pl.Normal.Dot(p) + pl.D
}

// Containment is the result of classifying a box against a frustum.
type Containment int

// Classification results.
const (
	Outside Containment = iota
	Intersecting
	Inside
)

// Frustum is six inward-facing planes: left, right, bottom, top, near, far.
type Frustum [6]Plane

// FrustumFromMatrix extracts the view frustum from a combined projection*view
// matrix (Gribb/Hartmann). mgl32 matrices are column-major.
func FrustumFromMatrix(clip mgl32.Mat4) Frustum {
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{clip[i], clip[i+4], clip[i+8], clip[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	return Frustum{
		makePlane(r3.Add(r0)), // left
		makePlane(r3.Sub(r0)), // right
		makePlane(r3.Add(r1)), // bottom
		makePlane(r3.Sub(r1)), // top
		makePlane(r3.Add(r2)), // near
		makePlane(r3.Sub(r2)), // far
	}
}

func makePlane(v mgl32.Vec4) Plane {
	n := mgl32.Vec3{v[0], v[1], v[2]}
	l := n.Len()
	if l == 0 {
		return Plane{Normal: n, D: v[3]}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// Classify tests a box against all planes using the positive/negative vertex
// of each plane. The test is conservative: boxes near frustum corners may be
// reported Intersecting while lying just outside.
func (f *Frustum) Classify(b Bounds) Containment {
	result := Inside
	for i := range f {
		p := &f[i]
		pos, neg := b.Max, b.Min
		for a := 0; a < 3; a++ {
			if p.Normal[a] < 0 {
				pos[a], neg[a] = b.Min[a], b.Max[a]
			}
		}
		if p.Distance(pos) < 0 {
			return Outside
		}
		if p.Distance(neg) < 0 {
			result = Intersecting
		}
	}
	return result
}

// Intersects reports whether any part of b may be inside the frustum.
func (f *Frustum) Intersects(b Bounds) bool {
	return f.Classify(b) != Outside
}

// View is the per-frame camera input to the selector.
type View struct {
	Viewpoint    mgl32.Vec3
	Frustum      Frustum
	ScreenHeight float32 // Viewport height in pixels
	FovY         float32 // Vertical field of view in radians
}

// NewView builds a view from a camera pose and a perspective projection.
func NewView(eye, target, up mgl32.Vec3, fovY, aspect, near, far, screenHeight float32) View {
	proj := mgl32.Perspective(fovY, aspect, near, far)
	look := mgl32.LookAtV(eye, target, up)
	return View{
		Viewpoint:    eye,
		Frustum:      FrustumFromMatrix(proj.Mul4(look)),
		ScreenHeight: screenHeight,
		FovY:         fovY,
	}
}

// projectionScale converts world-space error at unit distance into pixels:
// screenHeight / (2 * tan(fovY/2)).
func (v View) projectionScale() float32 {
	t := math.Tan(float64(v.FovY) / 2)
	if t <= 0 {
		return 0
	}
	return float32(float64(v.ScreenHeight) / (2 * t))
}
