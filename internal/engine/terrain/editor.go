package terrain

import (
	"fmt"
	"math"
)

// Editor applies height edits. Edits only mark patches dirty; bounds and
// errors are recomputed once by the next Selector.Update regardless of how
// many edits were made.
type Editor struct {
	surface *Surface
}

// SetHeight stores v at sample (x, y) and marks dirty every patch that
// contains the sample, including patches sharing it on their boundary.
// Out-of-range coordinates return ErrOutOfBounds and change nothing.
func (e *Editor) SetHeight(x, y int, v float32) error {
	hf := e.surface.hf
	if !hf.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, hf.size, hf.size)
	}
	hf.set(x, y, v)
	e.markSample(x, y)
	return nil
}

// Height returns the sample at (x, y), or ErrOutOfBounds.
func (e *Editor) Height(x, y int) (float32, error) {
	hf := e.surface.hf
	if !hf.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, hf.size, hf.size)
	}
	return hf.At(x, y), nil
}

// ApplyBrush adds delta to every sample within radius of (cx, cy), weighted
// by a smooth falloff that reaches zero at the rim. It returns the number of
// samples changed.
func (e *Editor) ApplyBrush(cx, cy int, radius, delta float32) int {
	return e.brush(cx, cy, radius, func(h, w float32) float32 {
		return h + delta*w
	})
}

// Flatten pulls samples within radius of (cx, cy) toward height using the
// same falloff as ApplyBrush. It returns the number of samples changed.
func (e *Editor) Flatten(cx, cy int, radius, height float32) int {
	return e.brush(cx, cy, radius, func(h, w float32) float32 {
		return h + (height-h)*w
	})
}

func (e *Editor) brush(cx, cy int, radius float32, apply func(h, w float32) float32) int {
	if !(radius > 0) {
		return 0
	}
	hf := e.surface.hf
	r := int(math.Ceil(float64(radius)))
	changed := 0

	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !hf.InBounds(x, y) {
				continue
			}
			dx, dy := float32(x-cx), float32(y-cy)
			t := (dx*dx + dy*dy) / (radius * radius)
			if t >= 1 {
				continue
			}
			w := (1 - t) * (1 - t)
			old := hf.At(x, y)
			v := apply(old, w)
			if v == old {
				continue
			}
			hf.set(x, y, v)
			e.markSample(x, y)
			changed++
		}
	}
	return changed
}

// markSample marks the one to four patches whose sub-rectangle holds (x, y).
func (e *Editor) markSample(x, y int) {
	s := e.surface
	size := s.opts.PatchSize

	xs := patchSpan(x, size, s.cols)
	ys := patchSpan(y, size, s.cols)
	for _, py := range ys {
		if py < 0 {
			continue
		}
		for _, px := range xs {
			if px < 0 {
				continue
			}
			s.markDirty(s.patches[py*s.cols+px])
		}
	}
}

// patchSpan returns the patch columns containing sample coordinate c: the one
// it falls in and, on a shared boundary, the one before. Missing entries are -1.
func patchSpan(c, patchSize, cols int) [2]int {
	span := [2]int{-1, -1}
	p := c / patchSize
	if p < cols {
		span[0] = p
	}
	if c%patchSize == 0 && p > 0 {
		span[1] = p - 1
	}
	return span
}
