package terrain

import (
	"sort"

	"go.uber.org/zap"
)

// minViewDistance keeps the error projection finite when the viewpoint sits
// on a patch center.
const minViewDistance = 1e-3

// FrameResult is the output of one Selector.Update. Its slices are reused by
// the next update.
type FrameResult struct {
	Frame          uint64
	Visible        []*Patch // Nearest first, each with a consistent ActiveLevel
	Refreshed      []*Patch // Patches recomputed after edits; re-upload their vertices
	FringeCount    int      // Culled patches adjacent to a visible one
	RelaxPasses    int
	Converged      bool
	Triangles      int
	LevelHistogram []int // Visible patches per level
}

// Selector picks a level for each visible patch every frame.
type Selector struct {
	surface   *Surface
	tolerance float32
	maxPasses int
	frame     uint64

	levels  []int // Working level per patch; maxLevel when not touched
	touched []int // Patches whose state was written last frame
	visible []*Patch
	result  FrameResult
}

func newSelector(s *Surface) *Selector {
	sel := &Selector{
		surface:   s,
		tolerance: s.opts.ErrorTolerance,
		maxPasses: s.opts.MaxLevel + 2,
		levels:    make([]int, len(s.patches)),
	}
	for i := range sel.levels {
		sel.levels[i] = s.opts.MaxLevel
	}
	sel.result.LevelHistogram = make([]int, s.opts.MaxLevel+1)
	return sel
}

// Tolerance returns the screen-space error budget in pixels.
func (sel *Selector) Tolerance() float32 { return sel.tolerance }

// SetTolerance changes the screen-space error budget in pixels.
func (sel *Selector) SetTolerance(pixels float32) { sel.tolerance = pixels }

// Update refreshes edited patches, culls with the quadtree, picks each visible
// patch's coarsest level within the error budget, then relaxes levels until
// every pair of adjacent patches differs by at most one. Culled patches keep
// the coarsest level.
func (sel *Selector) Update(view View) *FrameResult {
	s := sel.surface
	maxLevel := s.opts.MaxLevel
	sel.frame++
	frame := sel.frame

	res := &sel.result
	res.Frame = frame
	res.Refreshed = s.refreshDirty()

	for _, idx := range sel.touched {
		p := s.patches[idx]
		sel.levels[idx] = maxLevel
		p.ActiveLevel = maxLevel
		p.NeighborLevel = [4]int{maxLevel, maxLevel, maxLevel, maxLevel}
	}
	sel.touched = sel.touched[:0]

	sel.visible = sel.visible[:0]
	s.tree.Query(&view.Frustum, func(p *Patch) {
		if p.frame == frame {
			return
		}
		p.frame = frame
		p.distance = view.Viewpoint.Sub(p.Center()).Len()
		sel.visible = append(sel.visible, p)
	})
	sort.SliceStable(sel.visible, func(i, j int) bool {
		a, b := sel.visible[i], sel.visible[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		return a.index < b.index
	})

	scale := view.projectionScale()
	for _, p := range sel.visible {
		p.DesiredLevel = sel.desiredLevel(p, scale)
		sel.levels[p.index] = p.DesiredLevel
		sel.touched = append(sel.touched, p.index)
	}

	fringe := 0
	for _, p := range sel.visible {
		for d := North; d <= West; d++ {
			n := s.neighborIndex(p, d)
			if n < 0 {
				continue
			}
			np := s.patches[n]
			if np.frame == frame || np.fringe == frame {
				continue
			}
			np.fringe = frame
			np.DesiredLevel = maxLevel
			sel.touched = append(sel.touched, n)
			fringe++
		}
	}
	res.FringeCount = fringe

	res.RelaxPasses, res.Converged = sel.relax()
	if !res.Converged {
		s.log.Warn("level relaxation hit pass limit",
			zap.Uint64("frame", frame),
			zap.Int("passes", res.RelaxPasses),
			zap.Int("visible", len(sel.visible)))
	}

	for _, idx := range sel.touched {
		s.patches[idx].ActiveLevel = sel.levels[idx]
	}
	for _, p := range sel.visible {
		for d := North; d <= West; d++ {
			n := s.neighborIndex(p, d)
			if n < 0 {
				p.NeighborLevel[d] = p.ActiveLevel
				continue
			}
			p.NeighborLevel[d] = sel.levels[n]
			s.patches[n].NeighborLevel[d.Opposite()] = p.ActiveLevel
		}
	}

	for i := range res.LevelHistogram {
		res.LevelHistogram[i] = 0
	}
	res.Triangles = 0
	for _, p := range sel.visible {
		res.LevelHistogram[p.ActiveLevel]++
		res.Triangles += s.stitcher.Resolve(p).Triangles()
	}
	res.Visible = sel.visible

	if s.opts.CheckInvariants {
		s.checkInvariants()
	}
	return res
}

// desiredLevel returns the largest level whose projected error fits the budget.
// Errors are non-decreasing in level, so the scan stops at the first miss.
func (sel *Selector) desiredLevel(p *Patch, scale float32) int {
	dist := p.distance
	if dist < minViewDistance {
		dist = minViewDistance
	}
	level := 0
	for l := 1; l < len(p.ErrorPerLevel); l++ {
		if p.ErrorPerLevel[l]*scale/dist > sel.tolerance {
			break
		}
		level = l
	}
	return level
}

// relax raises the level of the finer patch of any adjacent pair differing by
// more than one. Levels only grow, so it terminates; propagation reaches at
// most maxLevel patches away, so maxLevel+1 passes suffice.
// Culled neighbors count at maxLevel, so a visible patch bordering one is
// drawn no finer than maxLevel-1 even right under the viewpoint.
func (sel *Selector) relax() (passes int, converged bool) {
	s := sel.surface
	for passes < sel.maxPasses {
		passes++
		changed := false
		for _, p := range sel.visible {
			lv := sel.levels[p.index]
			for d := North; d <= West; d++ {
				n := s.neighborIndex(p, d)
				if n < 0 {
					continue
				}
				if nl := sel.levels[n]; nl-lv > 1 {
					lv = nl - 1
					changed = true
				}
			}
			sel.levels[p.index] = lv
		}
		if !changed {
			return passes, true
		}
	}
	return passes, false
}

// ScreenSpaceError projects a world-space error at distance into pixels.
func (v View) ScreenSpaceError(worldError, distance float32) float32 {
	if distance < minViewDistance {
		distance = minViewDistance
	}
	return worldError * v.projectionScale() / distance
}
