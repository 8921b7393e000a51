package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/navhealth/model"
)

// DetectorConfig holds the maneuver-detection thresholds.
type DetectorConfig struct {
	ZThreshold      float64 // robust z-score threshold (sigmas)
	SMAThresholdKm  float64 // absolute semimajor-axis step threshold
	IncThresholdDeg float64 // absolute inclination step threshold
	PersistWindow   int     // samples per side for persistence confirmation
}

// DefaultDetectorConfig returns the standard detection thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ZThreshold:      3.5,
		SMAThresholdKm:  0.5,
		IncThresholdDeg: 0.01,
		PersistWindow:   2,
	}
}

// smoothingWindow is the centered rolling-median window applied before
// differencing.
const smoothingWindow = 3

// DetectManeuvers runs the robust change-point pipeline over one satellite
// series: rolling-median smoothing, first differences, MAD z-scores,
// absolute+z candidate flags, and persistence confirmation against a
// before/after median level shift. Semimajor-axis steps confirm east-west
// maneuvers, inclination steps north-south ones.
func DetectManeuvers(series *model.OrbitalSeries, cfg DetectorConfig) []model.ManeuverEvent {
	n := len(series.Records)
	if n == 0 {
		return nil
	}

	sma := make([]float64, n)
	inc := make([]float64, n)
	for i, r := range series.Records {
		sma[i] = math.NaN()
		if r.SemimajorAxisKm != nil {
			sma[i] = *r.SemimajorAxisKm
		}
		inc[i] = r.InclinationDeg
	}

	smaSmooth := rollingMedian(sma, smoothingWindow)
	incSmooth := rollingMedian(inc, smoothingWindow)

	dSMA := diff(smaSmooth)
	dInc := diff(incSmooth)

	zSMA := madZScores(zeroFilled(dSMA))
	zInc := madZScores(zeroFilled(dInc))

	var events []model.ManeuverEvent
	for i := 1; i < n; i++ {
		smaCandidate := !isMissing(dSMA[i]) &&
			math.Abs(dSMA[i]) >= cfg.SMAThresholdKm &&
			math.Abs(zSMA[i]) >= cfg.ZThreshold
		incCandidate := !isMissing(dInc[i]) &&
			math.Abs(dInc[i]) >= cfg.IncThresholdDeg &&
			math.Abs(zInc[i]) >= cfg.ZThreshold

		ew := smaCandidate && confirmStep(smaSmooth, i, cfg.PersistWindow, cfg.SMAThresholdKm)
		ns := incCandidate && confirmStep(incSmooth, i, cfg.PersistWindow, cfg.IncThresholdDeg)
		if !ew && !ns {
			continue
		}

		events = append(events, model.ManeuverEvent{
			SatelliteID: series.SatelliteID,
			Epoch:       series.Records[i].Epoch,
			EastWest:    ew,
			NorthSouth:  ns,
			DeltaSMAKm:  zeroIfMissing(dSMA[i]),
			DeltaIncDeg: zeroIfMissing(dInc[i]),
			ZSMASigma:   zSMA[i],
			ZIncSigma:   zInc[i],
		})
	}
	return events
}

// confirmStep checks that the candidate at index i corresponds to a
// sustained level shift: the medians of the window samples before i and the
// window samples from i onward must differ by at least threshold. Indices
// within window of either series end have an undefined step size and are
// never confirmed.
func confirmStep(smooth []float64, i, window int, threshold float64) bool {
	if window < 1 || i < window || i+window > len(smooth) {
		return false
	}
	pre := median(smooth[i-window : i])
	post := median(smooth[i : i+window])
	if isMissing(pre) || isMissing(post) {
		return false
	}
	return math.Abs(post-pre) >= threshold
}

// ManeuverUniformity returns the coefficient of variation (population std /
// mean) of the day-gaps between consecutive confirmed maneuvers, or nil when
// fewer than two events exist or the mean gap is zero.
func ManeuverUniformity(events []model.ManeuverEvent) *float64 {
	if len(events) < 2 {
		return nil
	}
	epochs := make([]float64, len(events))
	for i, e := range events {
		epochs[i] = float64(e.Epoch.Unix())
	}
	sort.Float64s(epochs)

	const secondsPerDay = 86400.0
	gaps := make([]float64, len(epochs)-1)
	for i := 1; i < len(epochs); i++ {
		gaps[i-1] = (epochs[i] - epochs[i-1]) / secondsPerDay
	}

	m := mean(gaps)
	if m == 0 {
		return nil
	}
	cov := popStd(gaps) / m
	return &cov
}

// diff returns first differences aligned by index; index 0 and positions
// with a missing operand carry the missing sentinel.
func diff(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(xs); i++ {
		if isMissing(xs[i]) || isMissing(xs[i-1]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = xs[i] - xs[i-1]
	}
	return out
}

// zeroFilled replaces missing samples with zero so the z-score population
// matches the differenced series length.
func zeroFilled(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if !isMissing(x) {
			out[i] = x
		}
	}
	return out
}

func zeroIfMissing(x float64) float64 {
	if isMissing(x) {
		return 0
	}
	return x
}
