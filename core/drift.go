package core

import (
	"math"

	"github.com/signalsfoundry/navhealth/model"
)

// Default station-keeping drift tolerances in degrees/day.
const (
	DefaultDriftToleranceGSO  = 0.05
	DefaultDriftToleranceIGSO = 2.0
)

// driftTrendWindow is the number of recent/early samples compared when
// estimating whether drift magnitude is growing.
const driftTrendWindow = 7

// DriftAssessment is the banded drift-health verdict for one satellite.
type DriftAssessment struct {
	Score    float64
	Status   string
	AbsDrift float64
}

// driftBand scores |drift| ≤ factor·tolerance. Bands are evaluated in
// order; the floor applies beyond the last band.
type driftBand struct {
	factor float64
	score  float64
	status string
}

var (
	gsoDriftBands = []driftBand{
		{0.3, 100, "Excellent"},
		{1, 80, "Good"},
		{2, 60, "Fair"},
		{5, 40, "Poor"},
	}
	gsoDriftFloor = driftBand{score: 0, status: "Critical"}

	igsoDriftBands = []driftBand{
		{1, 100, "Normal"},
		{2, 70, "Elevated"},
	}
	igsoDriftFloor = driftBand{score: 40, status: "High"}
)

// AssessDriftHealth scores longitudinal drift against the tolerance bands
// for the satellite's orbit class. Satellites that are not GSO are held to
// the looser IGSO bands.
func AssessDriftHealth(driftDegPerDay float64, satType model.SatelliteType, tolGSO, tolIGSO float64) DriftAssessment {
	absDrift := math.Abs(driftDegPerDay)

	bands, floor, tol := igsoDriftBands, igsoDriftFloor, tolIGSO
	if satType == model.TypeGSO {
		bands, floor, tol = gsoDriftBands, gsoDriftFloor, tolGSO
	}

	for _, b := range bands {
		if absDrift <= b.factor*tol {
			return DriftAssessment{Score: b.score, Status: b.status, AbsDrift: absDrift}
		}
	}
	return DriftAssessment{Score: floor.score, Status: floor.status, AbsDrift: absDrift}
}

// DriftTrend compares the mean drift magnitude of the most recent samples
// against the earliest ones. Positive means the drift magnitude is growing.
// Series with at least twice the trend window use full windows; shorter
// series are split in half.
func DriftTrend(drifts []float64) float64 {
	n := len(drifts)
	if n < 2 {
		return 0
	}
	w := driftTrendWindow
	if n < 2*driftTrendWindow {
		w = n / 2
	}
	early := mean(drifts[:w])
	recent := mean(drifts[n-w:])
	return math.Abs(recent) - math.Abs(early)
}
