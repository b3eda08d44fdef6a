// Package viewer drives a terrain surface frame by frame without a window:
// an orbiting camera feeds level selection, a counting backend consumes the
// draw list and a brush sculpts wherever the camera looks.
package viewer

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/geomip/internal/config"
	"github.com/Faultbox/geomip/internal/engine/camera"
	"github.com/Faultbox/geomip/internal/engine/debug"
	"github.com/Faultbox/geomip/internal/engine/picking"
	"github.com/Faultbox/geomip/internal/engine/terrain"
	"github.com/Faultbox/geomip/internal/logger"
	"github.com/Faultbox/geomip/pkg/heightmap"
)

// Options control a run. Zero values disable the optional features.
type Options struct {
	Frames        int     // Frames to simulate; one full orbit
	EditInterval  int     // Sculpt every N frames
	BrushRadius   float32 // Samples
	BrushStrength float32 // Height added at the brush center
	LevelMapDir   string  // Write a level map PNG every CaptureEvery frames
	CaptureEvery  int
	SavePath      string // Write the edited height field on Close

	// The camera dollies in and tilts up over the first half of the run,
	// then reverses. Units are scroll steps and drag pixels per frame.
	ZoomSweep  float32
	PitchSweep float32
}

// DefaultOptions returns a 360-frame orbit without edits.
func DefaultOptions() Options {
	return Options{
		Frames:        360,
		BrushRadius:   6,
		BrushStrength: 4,
		CaptureEvery:  90,
		ZoomSweep:     0.05,
		PitchSweep:    0.2,
	}
}

// Stats summarize a run.
type Stats struct {
	Frames           int
	Visible          int // Sum over frames
	MaxTriangles     int
	Draws            int
	Edits            int
	Refreshed        int
	Unconverged      int
	LevelMaps        []string
	SelectionTime    time.Duration
	MaxRelaxPasses   int
	FinalHistogram   []int
	AverageVisible   float64
	AverageTriangles float64
	MinDistance      float32 // Closest orbit distance reached
}

// Viewer owns a surface, a camera and the counting backend.
type Viewer struct {
	cfg     *config.Config
	opts    Options
	log     *zap.Logger
	surface *terrain.Surface
	camera  *camera.OrbitCamera
	backend *countingBackend
	capture *debug.LevelMapCapture
}

// New loads or generates the height field and builds the surface.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	log := logger.Named("viewer")

	grid, err := loadGrid(cfg)
	if err != nil {
		return nil, err
	}
	hf, err := terrain.HeightFieldFromGrid(grid)
	if err != nil {
		return nil, fmt.Errorf("height field: %w", err)
	}

	surface, err := terrain.Build(hf, terrain.Options{
		PatchSize:        cfg.Terrain.PatchSize,
		MaxLevel:         cfg.Terrain.MaxLevel,
		ErrorTolerance:   cfg.LOD.ErrorTolerance,
		PlanarErrorScale: cfg.LOD.PlanarErrorScale,
		CheckInvariants:  cfg.LOD.CheckInvariants,
	})
	if err != nil {
		return nil, fmt.Errorf("building surface: %w", err)
	}

	cam := camera.NewOrbitCamera(cfg.View.Aspect())
	cam.Projection.FovY = mgl32.DegToRad(cfg.View.FovYDegrees)
	cam.Projection.Near = cfg.View.Near
	cam.Projection.Far = cfg.View.Far
	cam.FitToBounds(surface.Quadtree().Bounds())

	v := &Viewer{
		cfg:     cfg,
		opts:    opts,
		log:     log,
		surface: surface,
		camera:  cam,
		backend: &countingBackend{},
	}
	if opts.LevelMapDir != "" {
		v.capture = debug.NewLevelMapCapture(opts.LevelMapDir, "levels", 8)
	}

	log.Info("viewer initialized",
		zap.Int("samples", hf.Size()),
		zap.Float32("spacing", hf.Spacing()),
		zap.Int("patches", len(surface.Patches())),
		zap.Float32("tolerance", cfg.LOD.ErrorTolerance))
	return v, nil
}

func loadGrid(cfg *config.Config) (*heightmap.Grid, error) {
	if cfg.Data.Heightmap != "" {
		g, err := heightmap.Load(cfg.Data.Heightmap, cfg.Terrain.Spacing, cfg.Terrain.HeightScale)
		if err != nil {
			return nil, fmt.Errorf("loading heightmap: %w", err)
		}
		return g, nil
	}
	noise := heightmap.DefaultNoiseOptions(cfg.Data.Seed)
	noise.Amplitude *= cfg.Terrain.HeightScale
	return heightmap.Generate(cfg.Data.GenerateSize, cfg.Terrain.Spacing, noise), nil
}

// Surface returns the driven surface.
func (v *Viewer) Surface() *terrain.Surface { return v.surface }

// Camera returns the orbit camera.
func (v *Viewer) Camera() *camera.OrbitCamera { return v.camera }

// Run simulates opts.Frames frames of one camera orbit.
func (v *Viewer) Run() (*Stats, error) {
	frames := v.opts.Frames
	if frames <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", frames)
	}
	step := float32(2*math.Pi) / float32(frames)
	screenH := float32(v.cfg.View.ScreenHeight)

	stats := &Stats{MinDistance: v.camera.Distance}
	v.log.Info("starting run", zap.Int("frames", frames))

	for i := 0; i < frames; i++ {
		v.camera.Orbit(step)
		v.sweep(i, frames)
		if v.camera.Distance < stats.MinDistance {
			stats.MinDistance = v.camera.Distance
		}
		v.camera.ClampAbove(v.surface.HeightField())

		start := time.Now()
		res := v.surface.Update(v.camera.View(screenH))
		stats.SelectionTime += time.Since(start)

		v.backend.reset()
		v.surface.Draw(v.backend)

		stats.Frames++
		stats.Visible += len(res.Visible)
		stats.Draws += v.backend.draws
		stats.Refreshed += len(res.Refreshed)
		if res.Triangles > stats.MaxTriangles {
			stats.MaxTriangles = res.Triangles
		}
		if res.RelaxPasses > stats.MaxRelaxPasses {
			stats.MaxRelaxPasses = res.RelaxPasses
		}
		if !res.Converged {
			stats.Unconverged++
		}

		v.log.Debug("frame",
			zap.Uint64("frame", res.Frame),
			zap.Int("visible", len(res.Visible)),
			zap.Int("fringe", res.FringeCount),
			zap.Int("triangles", res.Triangles),
			zap.Int("relaxPasses", res.RelaxPasses),
			zap.Ints("levels", res.LevelHistogram))

		if v.opts.EditInterval > 0 && (i+1)%v.opts.EditInterval == 0 {
			if v.sculpt() {
				stats.Edits++
			}
		}
		if v.capture != nil && v.opts.CaptureEvery > 0 && i%v.opts.CaptureEvery == 0 {
			name, err := v.capture.Capture(v.surface, res.Visible)
			if err != nil {
				return stats, fmt.Errorf("level map: %w", err)
			}
			stats.LevelMaps = append(stats.LevelMaps, name)
		}

		if i == frames-1 {
			stats.FinalHistogram = append([]int(nil), res.LevelHistogram...)
		}
	}

	stats.AverageVisible = float64(stats.Visible) / float64(stats.Frames)
	stats.AverageTriangles = float64(v.backend.totalTriangles) / float64(stats.Frames)

	v.log.Info("run complete",
		zap.Int("frames", stats.Frames),
		zap.Float64("avgVisible", stats.AverageVisible),
		zap.Float64("avgTriangles", stats.AverageTriangles),
		zap.Int("maxTriangles", stats.MaxTriangles),
		zap.Int("edits", stats.Edits),
		zap.Int("unconverged", stats.Unconverged),
		zap.Duration("selection", stats.SelectionTime))
	return stats, nil
}

// sweep zooms and tilts the camera through the same input path a mouse
// would use.
func (v *Viewer) sweep(frame, frames int) {
	zoom, pitch := v.opts.ZoomSweep, v.opts.PitchSweep
	if frame >= frames/2 {
		zoom, pitch = -zoom, -pitch
	}
	if zoom != 0 {
		v.camera.HandleZoom(zoom)
	}
	if pitch != 0 {
		v.camera.HandleDrag(0, pitch)
	}
}

// sculpt raises the terrain under the screen center.
func (v *Viewer) sculpt() bool {
	w, h := float32(v.cfg.View.ScreenWidth), float32(v.cfg.View.ScreenHeight)
	ray := picking.ScreenToRay(w/2, h/2, w, h, v.camera.ViewProjection())

	hit, ok := v.surface.Raycast(ray)
	if !ok {
		return false
	}
	n := v.surface.Editor().ApplyBrush(hit.SampleX, hit.SampleY, v.opts.BrushRadius, v.opts.BrushStrength)
	v.log.Debug("sculpted",
		zap.Int("x", hit.SampleX),
		zap.Int("y", hit.SampleY),
		zap.Int("samples", n),
		zap.Int("dirty", v.surface.DirtyCount()))
	return n > 0
}

// Close writes the edited height field when a save path is set.
func (v *Viewer) Close() error {
	v.log.Info("closing viewer")
	if v.opts.SavePath == "" {
		return nil
	}
	if err := heightmap.Save(v.opts.SavePath, v.surface.Snapshot()); err != nil {
		return fmt.Errorf("saving %s: %w", v.opts.SavePath, err)
	}
	v.log.Info("height field saved", zap.String("path", v.opts.SavePath))
	return nil
}
