package core

import (
	"math"
	"testing"
)

func floatsClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMedian_OddEvenAndMissing(t *testing.T) {
	if got := median([]float64{3, 1, 2}); !floatsClose(got, 2) {
		t.Errorf("odd-length median = %v, want 2", got)
	}
	if got := median([]float64{4, 1, 3, 2}); !floatsClose(got, 2.5) {
		t.Errorf("even-length median = %v, want 2.5", got)
	}
	// Missing samples are ignored, not treated as zeros.
	if got := median([]float64{math.NaN(), 5, math.NaN(), 7}); !floatsClose(got, 6) {
		t.Errorf("median with missing = %v, want 6", got)
	}
	if got := median([]float64{math.NaN()}); !math.IsNaN(got) {
		t.Errorf("all-missing median = %v, want NaN", got)
	}
}

func TestRollingMedian_CenteredWindow(t *testing.T) {
	xs := []float64{1, 100, 1, 1, 1}
	got := rollingMedian(xs, 3)

	// The centered window absorbs the single spike.
	want := []float64{50.5, 1, 1, 1, 1}
	for i := range want {
		if !floatsClose(got[i], want[i]) {
			t.Errorf("rollingMedian[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRollingMedian_EdgesUsePartialWindows(t *testing.T) {
	xs := []float64{2, 4, 6}
	got := rollingMedian(xs, 3)

	if !floatsClose(got[0], 3) {
		t.Errorf("leading edge = %v, want 3 (median of first two)", got[0])
	}
	if !floatsClose(got[2], 5) {
		t.Errorf("trailing edge = %v, want 5 (median of last two)", got[2])
	}
}

func TestSampleStdVsPopStd(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	if got := popStd(xs); !floatsClose(got, 2) {
		t.Errorf("popStd = %v, want 2", got)
	}
	// Sample std uses the n-1 denominator, so it is strictly larger.
	if got := sampleStd(xs); got <= 2 {
		t.Errorf("sampleStd = %v, want > popStd", got)
	}
	if got := sampleStd([]float64{5}); got != 0 {
		t.Errorf("sampleStd of one sample = %v, want 0", got)
	}
}

func TestMadZScores_RobustPath(t *testing.T) {
	xs := []float64{10, 10, 10, 10, 11, 10, 10, 10, 10}
	z := madZScores(xs)

	// MAD is zero here, so the scores fall back to mean/std.
	var nonZero int
	for _, v := range z {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		t.Fatalf("expected fallback z-scores, got all zeros: %v", z)
	}

	// With a nondegenerate MAD the outlier dominates.
	xs = []float64{1, 2, 1, 2, 1, 2, 50, 1, 2}
	z = madZScores(xs)
	maxIdx := 0
	for i, v := range z {
		if math.Abs(v) > math.Abs(z[maxIdx]) {
			maxIdx = i
		}
	}
	if maxIdx != 6 {
		t.Errorf("largest |z| at index %d, want 6", maxIdx)
	}
	if math.Abs(z[6]) < 3.5 {
		t.Errorf("outlier z = %v, want |z| >= 3.5", z[6])
	}
}

func TestMadZScores_ConstantSeries(t *testing.T) {
	z := madZScores([]float64{7, 7, 7, 7})
	for i, v := range z {
		if v != 0 {
			t.Errorf("z[%d] = %v on constant series, want 0", i, v)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-5, 0, 100); got != 0 {
		t.Errorf("clamp(-5) = %v, want 0", got)
	}
	if got := clamp(150, 0, 100); got != 100 {
		t.Errorf("clamp(150) = %v, want 100", got)
	}
	if got := clamp(42, 0, 100); got != 42 {
		t.Errorf("clamp(42) = %v, want 42", got)
	}
}
