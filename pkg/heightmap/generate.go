package heightmap

import "math"

// NoiseOptions controls procedural generation.
type NoiseOptions struct {
	Seed        int64
	Octaves     int
	Frequency   float64 // Lattice cells per sample at the first octave
	Persistence float64 // Amplitude falloff per octave
	Lacunarity  float64 // Frequency growth per octave
	Amplitude   float32 // Output height range is [0, Amplitude]
}

// DefaultNoiseOptions returns settings that produce rolling hills.
func DefaultNoiseOptions(seed int64) NoiseOptions {
	return NoiseOptions{
		Seed:        seed,
		Octaves:     5,
		Frequency:   1.0 / 64,
		Persistence: 0.5,
		Lacunarity:  2.0,
		Amplitude:   64,
	}
}

// Generate builds a deterministic fractal value-noise grid.
func Generate(size int, spacing float32, opts NoiseOptions) *Grid {
	g := NewGrid(size, spacing)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := octaveNoise(float64(x)*opts.Frequency, float64(y)*opts.Frequency, opts)
			g.Samples[y*size+x] = float32(n) * opts.Amplitude
		}
	}
	return g
}

func octaveNoise(x, y float64, opts NoiseOptions) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum, norm := 0.0, 0.0
	for i := 0; i < opts.Octaves; i++ {
		sum += valueNoise(x*frequency, y*frequency, opts.Seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= opts.Persistence
		frequency *= opts.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// valueNoise returns smoothly interpolated lattice noise in [0,1].
func valueNoise(x, y float64, seed int64) float64 {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := fade(x-x0), fade(y-y0)
	ix, iy := int64(x0), int64(y0)

	v00 := lattice(ix, iy, seed)
	v10 := lattice(ix+1, iy, seed)
	v01 := lattice(ix, iy+1, seed)
	v11 := lattice(ix+1, iy+1, seed)

	i0 := v00 + fx*(v10-v00)
	i1 := v01 + fx*(v11-v01)
	return i0 + fy*(i1-i0)
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// lattice hashes integer coordinates to [0,1] (SplitMix64 finalizer).
func lattice(x, y, seed int64) float64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v ^= v >> 31
	return float64(v&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
