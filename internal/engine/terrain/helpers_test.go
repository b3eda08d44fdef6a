package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/geomip/pkg/heightmap"
)

func flatField(t *testing.T, size int, h float32) *HeightField {
	t.Helper()
	samples := make([]float32, size*size)
	for i := range samples {
		samples[i] = h
	}
	hf, err := NewHeightField(size, 1, samples)
	if err != nil {
		t.Fatalf("NewHeightField failed: %v", err)
	}
	return hf
}

func noiseField(t *testing.T, size int, seed int64) *HeightField {
	t.Helper()
	hf, err := HeightFieldFromGrid(heightmap.Generate(size, 1, heightmap.DefaultNoiseOptions(seed)))
	if err != nil {
		t.Fatalf("HeightFieldFromGrid failed: %v", err)
	}
	return hf
}

func buildSurface(t *testing.T, hf *HeightField, opts Options) *Surface {
	t.Helper()
	s, err := Build(hf, opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return s
}

func lookAt(eye, target mgl32.Vec3) View {
	up := mgl32.Vec3{0, 1, 0}
	if d := target.Sub(eye); d[0] == 0 && d[2] == 0 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return NewView(eye, target, up, mgl32.DegToRad(60), 16.0/9.0, 0.5, 1000, 720)
}
