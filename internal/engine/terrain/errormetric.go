package terrain

// ErrorMetricTable stores, for every patch, the geometric error of each level
// in world units. Rows are non-decreasing in level.
type ErrorMetricTable struct {
	levels      int
	planarScale float32
	values      []float32
}

func newErrorMetricTable(patchCount, maxLevel int, planarScale float32) *ErrorMetricTable {
	return &ErrorMetricTable{
		levels:      maxLevel + 1,
		planarScale: planarScale,
		values:      make([]float32, patchCount*(maxLevel+1)),
	}
}

// Row returns the per-level errors of a patch. The slice aliases the table.
func (t *ErrorMetricTable) Row(patchIndex int) []float32 {
	return t.values[patchIndex*t.levels : (patchIndex+1)*t.levels : (patchIndex+1)*t.levels]
}

// Error returns the geometric error of a patch at level.
func (t *ErrorMetricTable) Error(patchIndex, level int) float32 {
	return t.values[patchIndex*t.levels+level]
}

// Levels returns the number of levels per row.
func (t *ErrorMetricTable) Levels() int { return t.levels }

// compute fills row with the errors of the patch whose first sample is
// (ox, oy). Level 0 is exact. For each coarser level the error is the largest
// vertical distance between any full-resolution sample and the level's
// triangulated surface, floored by the planar term, and never less than the
// previous level's error.
func (t *ErrorMetricTable) compute(hf *HeightField, ox, oy, patchSize int, row []float32) {
	row[0] = 0
	for level := 1; level < len(row); level++ {
		step := 1 << level
		var worst float32
		for ly := 0; ly <= patchSize; ly++ {
			for lx := 0; lx <= patchSize; lx++ {
				if lx%step == 0 && ly%step == 0 {
					continue
				}
				d := hf.At(ox+lx, oy+ly) - levelHeight(hf, ox, oy, patchSize, step, lx, ly)
				if d < 0 {
					d = -d
				}
				if d > worst {
					worst = d
				}
			}
		}
		if planar := t.planarScale * hf.spacing * float32(step-1); planar > worst {
			worst = planar
		}
		if prev := row[level-1]; prev > worst {
			worst = prev
		}
		row[level] = worst
	}
}

// levelHeight interpolates the level surface with vertex step at local sample
// (lx, ly). Each cell is split along the diagonal through the corner whose
// cell coordinates are both odd, matching the fans built by the geometry cache.
func levelHeight(hf *HeightField, ox, oy, patchSize, step, lx, ly int) float32 {
	cells := patchSize / step
	i := lx / step
	j := ly / step
	if i >= cells {
		i = cells - 1
	}
	if j >= cells {
		j = cells - 1
	}

	x0, y0 := ox+i*step, oy+j*step
	u := float32(lx-i*step) / float32(step)
	v := float32(ly-j*step) / float32(step)

	h00 := hf.At(x0, y0)
	h10 := hf.At(x0+step, y0)
	h01 := hf.At(x0, y0+step)
	h11 := hf.At(x0+step, y0+step)

	if (i%2 == 1) == (j%2 == 1) {
		// Diagonal from (0,0) to (1,1).
		if u >= v {
			return h00 + u*(h10-h00) + v*(h11-h10)
		}
		return h00 + v*(h01-h00) + u*(h11-h01)
	}
	// Diagonal from (1,0) to (0,1).
	if u+v <= 1 {
		return h00 + u*(h10-h00) + v*(h01-h00)
	}
	return h11 + (1-u)*(h01-h11) + (1-v)*(h10-h11)
}
