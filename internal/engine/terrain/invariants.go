package terrain

import (
	"fmt"

	"go.uber.org/zap"
)

// CheckInvariants verifies monotonic error rows, quadtree containment and
// neighbor level consistency. It returns the first violation found.
func (s *Surface) CheckInvariants() error {
	for _, p := range s.patches {
		for l := 1; l < len(p.ErrorPerLevel); l++ {
			if p.ErrorPerLevel[l] < p.ErrorPerLevel[l-1] {
				return fmt.Errorf("patch (%d,%d) error decreases at level %d: %v < %v",
					p.X, p.Y, l, p.ErrorPerLevel[l], p.ErrorPerLevel[l-1])
			}
		}
	}

	if len(s.dirty) == 0 {
		if err := s.tree.validate(); err != nil {
			return err
		}
	}

	for _, p := range s.patches {
		for _, d := range [2]Direction{East, South} {
			n := s.Neighbor(p, d)
			if n == nil {
				continue
			}
			diff := p.ActiveLevel - n.ActiveLevel
			if diff > 1 || diff < -1 {
				return fmt.Errorf("patches (%d,%d) and (%d,%d) differ by %d levels",
					p.X, p.Y, n.X, n.Y, diff)
			}
		}
	}
	return nil
}

// checkInvariants logs violations instead of returning them.
func (s *Surface) checkInvariants() {
	if err := s.CheckInvariants(); err != nil {
		s.log.Error("terrain invariant violated", zap.Error(err))
	}
}
