package config

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks values that would make the surface or view unusable.
func (c *Config) Validate() error {
	ps := c.Terrain.PatchSize
	if ps < 1 || ps&(ps-1) != 0 {
		return fmt.Errorf("%w: terrain.patch_size %d is not a power of two", ErrInvalid, ps)
	}
	if c.Terrain.MaxLevel < 0 || c.Terrain.MaxLevel > bits.Len(uint(ps))-1 {
		return fmt.Errorf("%w: terrain.max_level %d out of range for patch size %d", ErrInvalid, c.Terrain.MaxLevel, ps)
	}
	if !(c.Terrain.Spacing > 0) {
		return fmt.Errorf("%w: terrain.spacing must be positive", ErrInvalid)
	}
	if !(c.LOD.ErrorTolerance > 0) {
		return fmt.Errorf("%w: lod.error_tolerance must be positive", ErrInvalid)
	}
	if c.LOD.PlanarErrorScale < 0 {
		return fmt.Errorf("%w: lod.planar_error_scale must not be negative", ErrInvalid)
	}
	if c.View.ScreenWidth <= 0 || c.View.ScreenHeight <= 0 {
		return fmt.Errorf("%w: view.screen_width and view.screen_height must be positive", ErrInvalid)
	}
	if c.View.FovYDegrees <= 0 || c.View.FovYDegrees >= 180 {
		return fmt.Errorf("%w: view.fov_y_degrees %v out of range", ErrInvalid, c.View.FovYDegrees)
	}
	if !(c.View.Near > 0) || c.View.Far <= c.View.Near {
		return fmt.Errorf("%w: view.near/view.far must satisfy 0 < near < far", ErrInvalid)
	}
	if c.Data.Heightmap == "" && (c.Data.GenerateSize <= ps || (c.Data.GenerateSize-1)%ps != 0) {
		return fmt.Errorf("%w: data.generate_size %d is not a multiple of %d plus one", ErrInvalid, c.Data.GenerateSize, ps)
	}
	return nil
}
