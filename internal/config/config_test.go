package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Terrain defaults
	if cfg.Terrain.PatchSize != 16 {
		t.Errorf("expected patch size 16, got %d", cfg.Terrain.PatchSize)
	}
	if cfg.Terrain.MaxLevel != 4 {
		t.Errorf("expected max level 4, got %d", cfg.Terrain.MaxLevel)
	}
	if cfg.Terrain.Spacing != 1.0 {
		t.Errorf("expected spacing 1.0, got %f", cfg.Terrain.Spacing)
	}

	// LOD defaults
	if cfg.LOD.ErrorTolerance != 2.0 {
		t.Errorf("expected tolerance 2.0, got %f", cfg.LOD.ErrorTolerance)
	}
	if cfg.LOD.PlanarErrorScale != 0.5 {
		t.Errorf("expected planar error scale 0.5, got %f", cfg.LOD.PlanarErrorScale)
	}
	if cfg.LOD.CheckInvariants {
		t.Error("expected invariant checks to be off by default")
	}

	// View defaults
	if cfg.View.ScreenWidth != 1280 || cfg.View.ScreenHeight != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.View.ScreenWidth, cfg.View.ScreenHeight)
	}
	if cfg.View.FovYDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.View.FovYDegrees)
	}

	// Data defaults
	if cfg.Data.Heightmap != "" {
		t.Errorf("expected empty heightmap, got %s", cfg.Data.Heightmap)
	}
	if cfg.Data.GenerateSize != 257 {
		t.Errorf("expected generate size 257, got %d", cfg.Data.GenerateSize)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  patch_size: 32
  max_level: 5
  spacing: 2.5
  height_scale: 300

lod:
  error_tolerance: 4
  check_invariants: true

view:
  screen_width: 1920
  screen_height: 1080

data:
  heightmap: "maps/alps.ghf"
  seed: 42

logging:
  level: "debug"
  log_file: "terrain.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.PatchSize != 32 {
		t.Errorf("expected patch size 32, got %d", cfg.Terrain.PatchSize)
	}
	if cfg.Terrain.MaxLevel != 5 {
		t.Errorf("expected max level 5, got %d", cfg.Terrain.MaxLevel)
	}
	if cfg.Terrain.Spacing != 2.5 {
		t.Errorf("expected spacing 2.5, got %f", cfg.Terrain.Spacing)
	}
	if cfg.Terrain.HeightScale != 300 {
		t.Errorf("expected height scale 300, got %f", cfg.Terrain.HeightScale)
	}
	if cfg.LOD.ErrorTolerance != 4 {
		t.Errorf("expected tolerance 4, got %f", cfg.LOD.ErrorTolerance)
	}
	if !cfg.LOD.CheckInvariants {
		t.Error("expected check_invariants to be true")
	}
	// Untouched keys keep their defaults
	if cfg.LOD.PlanarErrorScale != 0.5 {
		t.Errorf("expected default planar error scale 0.5, got %f", cfg.LOD.PlanarErrorScale)
	}
	if cfg.View.ScreenWidth != 1920 || cfg.View.ScreenHeight != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.View.ScreenWidth, cfg.View.ScreenHeight)
	}
	if cfg.Data.Heightmap != "maps/alps.ghf" {
		t.Errorf("expected heightmap maps/alps.ghf, got %s", cfg.Data.Heightmap)
	}
	if cfg.Data.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Data.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "terrain.log" {
		t.Errorf("expected log file 'terrain.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
terrain:
  patch_size: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := decodeFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("lod:\n  tolerance: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := decodeFile(Default(), configPath); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile with empty path failed: %v", err)
	}
	if cfg.Terrain.PatchSize != Default().Terrain.PatchSize {
		t.Errorf("expected defaults, got patch size %d", cfg.Terrain.PatchSize)
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFile(configPath); err != nil {
		t.Errorf("expected empty file to load as defaults, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := decodeFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"patch size not power of two", func(c *Config) { c.Terrain.PatchSize = 12 }, false},
		{"max level too large", func(c *Config) { c.Terrain.MaxLevel = 5 }, false},
		{"negative max level", func(c *Config) { c.Terrain.MaxLevel = -1 }, false},
		{"huge max level", func(c *Config) { c.Terrain.MaxLevel = 64 }, false},
		{"max level at patch size", func(c *Config) { c.Terrain.MaxLevel = 4 }, true},
		{"generate size of one", func(c *Config) { c.Data.GenerateSize = 1 }, false},
		{"generate size of one patch", func(c *Config) { c.Data.GenerateSize = 17 }, true},
		{"zero spacing", func(c *Config) { c.Terrain.Spacing = 0 }, false},
		{"zero tolerance", func(c *Config) { c.LOD.ErrorTolerance = 0 }, false},
		{"fov out of range", func(c *Config) { c.View.FovYDegrees = 180 }, false},
		{"far before near", func(c *Config) { c.View.Far = 0.1 }, false},
		{"generate size mismatch", func(c *Config) { c.Data.GenerateSize = 100 }, false},
		{"generate size ignored with heightmap", func(c *Config) {
			c.Data.GenerateSize = 100
			c.Data.Heightmap = "a.png"
		}, true},
		{"larger patches", func(c *Config) {
			c.Terrain.PatchSize = 64
			c.Terrain.MaxLevel = 6
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Error("expected validation error, got nil")
				} else if !errors.Is(err, ErrInvalid) {
					t.Errorf("expected ErrInvalid, got %v", err)
				}
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  patch_size: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.LOD.ErrorTolerance = 3.5
	cfg.Data.Heightmap = "valley.png"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := decodeFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.LOD.ErrorTolerance != 3.5 {
		t.Errorf("expected tolerance 3.5, got %f", loaded.LOD.ErrorTolerance)
	}
	if loaded.Data.Heightmap != "valley.png" {
		t.Errorf("expected heightmap valley.png, got %s", loaded.Data.Heightmap)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.LOD.CheckInvariants {
					t.Error("expected invariant checks enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "heightmap flag",
			setup: func() { *flagHeightmap = "peaks.ghf" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Data.Heightmap != "peaks.ghf" {
					t.Errorf("expected heightmap peaks.ghf, got %s", cfg.Data.Heightmap)
				}
			},
			teardown: func() { *flagHeightmap = "" },
		},
		{
			name:  "tolerance flag",
			setup: func() { *flagTolerance = 8 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.LOD.ErrorTolerance != 8 {
					t.Errorf("expected tolerance 8, got %f", cfg.LOD.ErrorTolerance)
				}
			},
			teardown: func() { *flagTolerance = 0 },
		},
		{
			name: "patch size and max level flags",
			setup: func() {
				*flagPatchSize = 32
				*flagMaxLevel = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Terrain.PatchSize != 32 {
					t.Errorf("expected patch size 32, got %d", cfg.Terrain.PatchSize)
				}
				if cfg.Terrain.MaxLevel != 0 {
					t.Errorf("expected max level 0, got %d", cfg.Terrain.MaxLevel)
				}
			},
			teardown: func() {
				*flagPatchSize = 0
				*flagMaxLevel = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
lod:
  error_tolerance: 6
view:
  screen_height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTolerance = 1.5
	defer func() {
		*flagConfig = ""
		*flagTolerance = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Tolerance from flag, not file
	if cfg.LOD.ErrorTolerance != 1.5 {
		t.Errorf("expected tolerance 1.5 from flag, got %f", cfg.LOD.ErrorTolerance)
	}
	// Screen height from file
	if cfg.View.ScreenHeight != 900 {
		t.Errorf("expected screen height 900 from file, got %d", cfg.View.ScreenHeight)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("terrain:\n  patch_size: 12\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
