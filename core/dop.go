package core

import (
	"math"

	"github.com/signalsfoundry/navhealth/model"
)

// dopQualityBands maps GDOP to a qualitative grade, evaluated low-to-high.
var dopQualityBands = []struct {
	upper float64
	label string
}{
	{2, "Excellent"},
	{4, "Good"},
	{6, "Moderate"},
	{8, "Fair"},
}

// DOPQuality grades a GDOP value against the standard threshold table.
func DOPQuality(gdop float64) string {
	for _, band := range dopQualityBands {
		if gdop < band.upper {
			return band.label
		}
	}
	return "Poor"
}

// SolveDOP forms the normal equations M = HᵀH from the design matrix and
// extracts the dilution-of-precision metrics from Q = M⁻¹. It returns nil
// when fewer than four rows exist or M is singular; degenerate geometry is
// an undefined result, not an error.
func SolveDOP(rows []DesignMatrixRow) *model.DOPResult {
	if len(rows) < 4 {
		return nil
	}

	var m [4][4]float64
	for _, r := range rows {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				m[i][j] += r[i] * r[j]
			}
		}
	}

	q, ok := invert4(m)
	if !ok {
		return nil
	}

	trace := q[0][0] + q[1][1] + q[2][2] + q[3][3]
	return &model.DOPResult{
		GDOP: math.Sqrt(trace),
		PDOP: math.Sqrt(q[0][0] + q[1][1] + q[2][2]),
		HDOP: math.Sqrt(q[0][0] + q[1][1]),
		VDOP: math.Sqrt(q[2][2]),
		TDOP: math.Sqrt(q[3][3]),
	}
}

// invert4 inverts a 4×4 matrix by Gauss-Jordan elimination with partial
// pivoting. ok is false for a singular (or numerically singular) matrix.
func invert4(m [4][4]float64) (inv [4][4]float64, ok bool) {
	// Augment with the identity.
	var a [4][8]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			a[i][j] = m[i][j]
		}
		a[i][4+i] = 1
	}

	const pivotEps = 1e-12
	for col := 0; col < 4; col++ {
		// Pick the largest remaining pivot in this column.
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEps {
			return inv, false
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for j := 0; j < 8; j++ {
			a[col][j] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			f := a[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 8; j++ {
				a[r][j] -= f * a[col][j]
			}
		}
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			inv[i][j] = a[i][4+j]
		}
	}
	return inv, true
}
