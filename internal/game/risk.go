package game

import "math"

// RiskParams shapes a risk field.
type RiskParams struct {
	Baseline     float64
	Falloff      float64
	CoverDamping float64
}

// RiskParams extracts the risk-field parameters from a rule set.
func (r Rules) RiskParams() RiskParams {
	return RiskParams{Baseline: r.RiskBaseline, Falloff: r.RiskFalloff, CoverDamping: r.CoverDamping}
}

// RiskField is a per-cell threat estimate with the same indexing as Grid.
// It is built for one decision cycle and then dropped.
type RiskField struct {
	cols, rows int
	cells      []float64
}

// riskContribution is the addend one enemy source gives a cell at Euclidean
// distance d: full within 1, falling linearly to zero at falloff.
func riskContribution(d, falloff float64) float64 {
	if d < 1 {
		return 1.0
	}
	if falloff <= 1 {
		return 0
	}
	return math.Max(0, 1-(d-1)/(falloff-1))
}

// BuildRiskField seeds every cell with the baseline, adds each enemy's
// distance-decayed contribution and then damps cover cells.
func BuildRiskField(g *Grid, enemies []Cell, p RiskParams) *RiskField {
	rf := &RiskField{cols: g.Cols, rows: g.Rows, cells: make([]float64, g.Size())}
	for i := range rf.cells {
		rf.cells[i] = p.Baseline
	}
	for _, e := range enemies {
		for y := 0; y < g.Rows; y++ {
			dy := float64(y - e.Y)
			for x := 0; x < g.Cols; x++ {
				dx := float64(x - e.X)
				add := riskContribution(math.Hypot(dx, dy), p.Falloff)
				if add > 0 {
					rf.cells[y*g.Cols+x] += add
				}
			}
		}
	}
	for i := range rf.cells {
		if g.IsCover(g.CellAt(i)) {
			rf.cells[i] *= p.CoverDamping
		}
	}
	return rf
}

// At returns the risk at c. Off-grid cells read as zero.
func (rf *RiskField) At(c Cell) float64 {
	if rf == nil || c.X < 0 || c.Y < 0 || c.X >= rf.cols || c.Y >= rf.rows {
		return 0
	}
	return rf.cells[c.Y*rf.cols+c.X]
}
