package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/internal/engine/terrain"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera(1)
	c.Center = mgl32.Vec3{10, 0, 10}
	c.Distance = 100
	c.Pitch = 0
	c.Yaw = 0

	got := c.Position()
	want := mgl32.Vec3{10, 0, 110}
	if !got.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("Position() = %v, want %v", got, want)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera(1)
	c.Distance = 10
	c.HandleZoom(100)
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", c.MinDistance, c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera(1)
	c.HandleDrag(0, 10000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected pitch %v, got %v", c.MaxPitch, c.Pitch)
	}
}

func TestViewSeesCenter(t *testing.T) {
	c := NewOrbitCamera(16.0 / 9.0)
	c.Center = mgl32.Vec3{50, 0, 50}
	c.Distance = 80

	v := c.View(720)
	if v.ScreenHeight != 720 {
		t.Errorf("expected screen height 720, got %v", v.ScreenHeight)
	}
	center := terrain.Bounds{Min: mgl32.Vec3{49, -1, 49}, Max: mgl32.Vec3{51, 1, 51}}
	if !v.Frustum.Intersects(center) {
		t.Error("expected orbit center inside the frustum")
	}
	behind := c.Position().Add(c.Position().Sub(c.Center))
	box := terrain.Bounds{Min: behind.Sub(mgl32.Vec3{1, 1, 1}), Max: behind.Add(mgl32.Vec3{1, 1, 1})}
	if v.Frustum.Intersects(box) {
		t.Error("expected point behind the camera to be culled")
	}
}

func TestClampAbove(t *testing.T) {
	samples := make([]float32, 9)
	for i := range samples {
		samples[i] = 500
	}
	hf, err := terrain.NewHeightField(3, 10, samples)
	if err != nil {
		t.Fatalf("NewHeightField failed: %v", err)
	}

	c := NewOrbitCamera(1)
	c.Center = mgl32.Vec3{10, 0, 10}
	c.Distance = 5
	c.Pitch = 0.1
	c.ClampAbove(hf)

	if y := c.Position()[1]; y < 500+c.GroundClearance-1e-3 {
		t.Errorf("expected camera above ground, got y=%v", y)
	}
}
