// Package config handles terrain viewer configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	LOD     LODConfig     `yaml:"lod"`
	View    ViewConfig    `yaml:"view"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds surface layout settings.
type TerrainConfig struct {
	PatchSize   int     `yaml:"patch_size"` // Cells per patch side, power of two
	MaxLevel    int     `yaml:"max_level"`
	Spacing     float32 `yaml:"spacing"`      // World units between samples
	HeightScale float32 `yaml:"height_scale"` // Image heightmaps map [0,1] to [0,HeightScale]
}

// LODConfig holds level selection settings.
type LODConfig struct {
	ErrorTolerance   float32 `yaml:"error_tolerance"` // Pixels
	PlanarErrorScale float32 `yaml:"planar_error_scale"`
	CheckInvariants  bool    `yaml:"check_invariants"`
}

// ViewConfig holds viewport and projection settings.
type ViewConfig struct {
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	FovYDegrees  float32 `yaml:"fov_y_degrees"`
	Near         float32 `yaml:"near"`
	Far          float32 `yaml:"far"`
}

// DataConfig holds height data settings.
type DataConfig struct {
	Heightmap    string `yaml:"heightmap"`     // Snapshot (.ghf) or image; empty generates one
	GenerateSize int    `yaml:"generate_size"` // Samples per side when generating
	Seed         int64  `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			PatchSize:   16,
			MaxLevel:    4,
			Spacing:     1.0,
			HeightScale: 1.0,
		},
		LOD: LODConfig{
			ErrorTolerance:   2.0,
			PlanarErrorScale: 0.5,
			CheckInvariants:  false,
		},
		View: ViewConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			FovYDegrees:  60,
			Near:         0.5,
			Far:          5000,
		},
		Data: DataConfig{
			Heightmap:    "",
			GenerateSize: 257,
			Seed:         1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Aspect returns the viewport aspect ratio.
func (v ViewConfig) Aspect() float32 {
	if v.ScreenHeight == 0 {
		return 1
	}
	return float32(v.ScreenWidth) / float32(v.ScreenHeight)
}
