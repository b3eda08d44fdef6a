// Package main runs a headless geomipmapping session: it loads or generates
// a height field, orbits a camera around it and reports level selection stats.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/geomip/internal/config"
	"github.com/Faultbox/geomip/internal/logger"
	"github.com/Faultbox/geomip/internal/viewer"
)

var (
	flagFrames   = flag.Int("frames", 360, "Frames to simulate (one orbit)")
	flagEdit     = flag.Int("edit-every", 0, "Sculpt under the screen center every N frames (0 = never)")
	flagLevelMap = flag.String("levelmap", "", "Directory for level map PNGs")
	flagSave     = flag.String("save", "", "Write the edited height field to this snapshot file")
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== geomip terrain LOD ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	opts := viewer.DefaultOptions()
	opts.Frames = *flagFrames
	opts.EditInterval = *flagEdit
	opts.LevelMapDir = *flagLevelMap
	opts.SavePath = *flagSave

	v, err := viewer.New(cfg, opts)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}

	stats, err := v.Run()
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		v.Close()
		os.Exit(1)
	}
	if err := v.Close(); err != nil {
		logger.Error("close failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Frames:         %d\n", stats.Frames)
	fmt.Printf("Avg visible:    %.1f patches\n", stats.AverageVisible)
	fmt.Printf("Avg triangles:  %.0f\n", stats.AverageTriangles)
	fmt.Printf("Max triangles:  %d\n", stats.MaxTriangles)
	fmt.Printf("Edits:          %d\n", stats.Edits)
	fmt.Printf("Relax passes:   %d max, %d unconverged frames\n", stats.MaxRelaxPasses, stats.Unconverged)
	fmt.Printf("Selection time: %v total\n", stats.SelectionTime)
	fmt.Printf("Final levels:   %v\n", stats.FinalHistogram)
	for _, name := range stats.LevelMaps {
		fmt.Printf("Level map:      %s\n", name)
	}
}
