package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging and invariant checks")
	flagHeightmap = flag.String("heightmap", "", "Heightmap snapshot or image")
	flagTolerance = flag.Float64("tolerance", 0, "Screen-space error tolerance in pixels")
	flagPatchSize = flag.Int("patch-size", 0, "Cells per patch side")
	flagMaxLevel  = flag.Int("max-level", -1, "Coarsest level")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.LOD.CheckInvariants = true
	}
	if *flagHeightmap != "" {
		cfg.Data.Heightmap = *flagHeightmap
	}
	if *flagTolerance > 0 {
		cfg.LOD.ErrorTolerance = float32(*flagTolerance)
	}
	if *flagPatchSize > 0 {
		cfg.Terrain.PatchSize = *flagPatchSize
	}
	if *flagMaxLevel >= 0 {
		cfg.Terrain.MaxLevel = *flagMaxLevel
	}
}
