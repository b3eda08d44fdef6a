// Package camera provides an orbit camera that feeds terrain level selection.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/internal/engine/terrain"
)

// Projection holds perspective parameters.
type Projection struct {
	FovY   float32 // Radians
	Aspect float32
	Near   float32
	Far    float32
}

// Matrix returns the perspective matrix.
func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the horizon, radians
	Yaw      float32 // Rotation around +Y, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Minimum clearance kept above the ground by ClampAbove.
	GroundClearance float32

	DragSensitivity float32
	ZoomSensitivity float32

	Projection Projection
}

// NewOrbitCamera creates an orbit camera with a 60 degree vertical field of view.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        200,
		Pitch:           0.5,
		MinDistance:     5,
		MaxDistance:     20000,
		MinPitch:        0.05,
		MaxPitch:        1.55,
		GroundClearance: 2,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Projection: Projection{
			FovY:   mgl32.DegToRad(60),
			Aspect: aspect,
			Near:   0.5,
			Far:    5000,
		},
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := math.Cos(float64(c.Pitch)), math.Sin(float64(c.Pitch))
	cy, sy := math.Cos(float64(c.Yaw)), math.Sin(float64(c.Yaw))
	offset := mgl32.Vec3{
		float32(cp * sy),
		float32(sp),
		float32(cp * cy),
	}
	return c.Center.Add(offset.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection*view.
func (c *OrbitCamera) ViewProjection() mgl32.Mat4 {
	return c.Projection.Matrix().Mul4(c.ViewMatrix())
}

// View returns the selector input for a viewport screenHeight pixels tall.
func (c *OrbitCamera) View(screenHeight float32) terrain.View {
	return terrain.View{
		Viewpoint:    c.Position(),
		Frustum:      terrain.FrustumFromMatrix(c.ViewProjection()),
		ScreenHeight: screenHeight,
		FovY:         c.Projection.FovY,
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.clamp()
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clamp()
}

// Orbit advances the yaw by angle radians.
func (c *OrbitCamera) Orbit(angle float32) {
	c.Yaw += angle
}

// FitToBounds centers the camera on a box and backs off to see all of it.
func (c *OrbitCamera) FitToBounds(b terrain.Bounds) {
	c.Center = b.Center()
	size := b.Max.Sub(b.Min)
	extent := size[0]
	if size[2] > extent {
		extent = size[2]
	}
	c.Distance = extent * 0.75
	c.Pitch = 0.6
	c.clamp()
}

// ClampAbove lifts the center so the camera stays GroundClearance above hf.
func (c *OrbitCamera) ClampAbove(hf *terrain.HeightField) {
	pos := c.Position()
	ground := hf.Interpolated(pos[0], pos[2]) + c.GroundClearance
	if pos[1] < ground {
		c.Center[1] += ground - pos[1]
	}
}

func (c *OrbitCamera) clamp() {
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
