package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/geomip/internal/engine/terrain"
)

// LevelMapCapture writes top-down images of the active level per patch.
type LevelMapCapture struct {
	outputDir string
	prefix    string
	cellSize  int // Pixels per patch side
}

// NewLevelMapCapture creates a new level map writer.
func NewLevelMapCapture(outputDir, prefix string, cellSize int) *LevelMapCapture {
	if cellSize < 1 {
		cellSize = 1
	}
	return &LevelMapCapture{
		outputDir: outputDir,
		prefix:    prefix,
		cellSize:  cellSize,
	}
}

// Render draws the surface's patch levels. Patches not in visible are drawn dark.
func (lc *LevelMapCapture) Render(s *terrain.Surface, visible []*terrain.Patch) *image.RGBA {
	n := s.PatchesPerSide()
	img := image.NewRGBA(image.Rect(0, 0, n*lc.cellSize, n*lc.cellSize))

	shown := make([]bool, n*n)
	for _, p := range visible {
		shown[p.Index()] = true
	}

	for _, p := range s.Patches() {
		c := LevelColor(p.ActiveLevel)
		scale := float32(255)
		if !shown[p.Index()] {
			scale = 60
		}
		fill := color.RGBA{uint8(c[0] * scale), uint8(c[1] * scale), uint8(c[2] * scale), 255}
		for dy := 0; dy < lc.cellSize; dy++ {
			for dx := 0; dx < lc.cellSize; dx++ {
				img.SetRGBA(p.X*lc.cellSize+dx, p.Y*lc.cellSize+dy, fill)
			}
		}
	}
	return img
}

// Capture renders and saves a level map, returning the file name.
func (lc *LevelMapCapture) Capture(s *terrain.Surface, visible []*terrain.Patch) (string, error) {
	if lc.outputDir != "" {
		if err := os.MkdirAll(lc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := lc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, lc.Render(s, visible)); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename generates a level map filename without saving.
func (lc *LevelMapCapture) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", lc.prefix, timestamp)
	if lc.outputDir != "" {
		filename = filepath.Join(lc.outputDir, filename)
	}
	return filename
}
