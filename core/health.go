package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/navhealth/model"
)

// HealthConfig carries the thresholds the aggregator scores against.
type HealthConfig struct {
	InclinationToleranceDeg float64
	MinManeuversPerMonth    float64
	MaxManeuversPerMonth    float64
	UniformityThreshold     float64
	DriftToleranceGSO       float64
	DriftToleranceIGSO      float64
}

// DefaultHealthConfig returns the standard assessment thresholds.
func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		InclinationToleranceDeg: 1.0,
		MinManeuversPerMonth:    1,
		MaxManeuversPerMonth:    8,
		UniformityThreshold:     0.8,
		DriftToleranceGSO:       DefaultDriftToleranceGSO,
		DriftToleranceIGSO:      DefaultDriftToleranceIGSO,
	}
}

// statusBands classify the composite score, evaluated high-to-low.
var statusBands = []struct {
	lower float64
	label string
}{
	{85, "Excellent"},
	{70, "Good"},
	{50, "Fair"},
}

func healthStatus(score float64) string {
	for _, band := range statusBands {
		if score >= band.lower {
			return band.label
		}
	}
	return "Needs Attention"
}

// AssessHealth combines inclination statistics, maneuver history, and drift
// behavior into one composite per-satellite assessment. Sub-scores that
// cannot be computed (no published target inclination, no drift data) stay
// nil and the composite weighting shifts to the available factors. The
// result is deterministic for identical inputs.
func AssessHealth(series *model.OrbitalSeries, events []model.ManeuverEvent, targetInclinationDeg *float64, cfg HealthConfig) model.HealthAssessment {
	a := model.HealthAssessment{
		SatelliteID:          series.SatelliteID,
		Type:                 series.Type,
		TargetInclinationDeg: targetInclinationDeg,
		MeanInclinationDeg:   series.MeanInclinationDeg,
		DriftStatus:          "N/A",
	}

	stdInc := sampleStd(series.Inclinations())

	months := float64(series.SpanDays()) / 30.0
	if months > 0 {
		a.ManeuversPerMonth = float64(len(events)) / months
	}
	for _, e := range events {
		if e.EastWest {
			a.EWManeuvers++
		}
		if e.NorthSouth {
			a.NSManeuvers++
		}
	}

	// Inclination score: deviation from the target plus a stability
	// penalty for an unsteady inclination history.
	if targetInclinationDeg != nil {
		dev := math.Abs(series.MeanInclinationDeg - *targetInclinationDeg)
		a.InclinationDevDeg = &dev
		penalty := math.Min(20, stdInc*10)
		score := clamp(100-(dev/cfg.InclinationToleranceDeg)*100-penalty, 0, 100)
		a.InclinationScore = &score
	}

	a.MaintenanceScore = maintenanceScore(a.ManeuversPerMonth, cfg.MinManeuversPerMonth, cfg.MaxManeuversPerMonth)
	a.UniformityScore, a.UniformityCoV = uniformityScore(events, cfg.UniformityThreshold)

	drifts := series.Drifts()
	if len(drifts) > 0 {
		meanDrift := mean(drifts)
		stdDrift := sampleStd(drifts)
		current := drifts[len(drifts)-1]
		trend := DriftTrend(drifts)

		a.MeanDriftDegPerDay = &meanDrift
		a.CurrentDriftDegPerDay = &current
		a.DriftTrendDegPerDay = &trend

		assessment := AssessDriftHealth(meanDrift, series.Type, cfg.DriftToleranceGSO, cfg.DriftToleranceIGSO)
		a.DriftStatus = assessment.Status
		score := assessment.Score

		// Stability penalty: erratic drift means unstable station-keeping
		// even when the mean is inside tolerance.
		switch series.Type {
		case model.TypeGSO:
			if ratio := stdDrift / cfg.DriftToleranceGSO; ratio > 2 {
				score -= math.Min(30, (ratio-2)*10)
			}
		case model.TypeIGSO:
			if ratio := stdDrift / 2.0; ratio > 1 {
				score -= math.Min(20, (ratio-1)*10)
			}
		}

		if trend > 0.01 {
			score -= 10
		} else if trend < -0.01 {
			score += 5
		}
		score = clamp(score, 0, 100)
		a.DriftScore = &score
	}

	a.OverallScore = compositeScore(a)
	a.Status = healthStatus(a.OverallScore)
	a.Remarks = buildRemarks(&a, stdDrift(drifts), stdInc, cfg)
	return a
}

func stdDrift(drifts []float64) *float64 {
	if len(drifts) == 0 {
		return nil
	}
	sd := sampleStd(drifts)
	return &sd
}

func maintenanceScore(rate, min, max float64) float64 {
	switch {
	case min > 0 && rate < min:
		return clamp(30+(rate/min)*40, 0, 100)
	case max > 0 && rate > max:
		return 100 - math.Min(40, (rate-max)/max*60)
	default:
		return 100
	}
}

func uniformityScore(events []model.ManeuverEvent, threshold float64) (float64, *float64) {
	switch len(events) {
	case 0:
		return 0, nil
	case 1:
		return 50, nil
	}
	cov := ManeuverUniformity(events)
	if cov == nil {
		// Degenerate spacing (zero mean gap): treat like an unknown pattern.
		return 50, nil
	}
	if *cov <= threshold {
		return 100, cov
	}
	excess := *cov - threshold
	return 100 - math.Min(50, excess/threshold*50), cov
}

// compositeScore weights the available sub-scores. The weighting shifts
// discontinuously with availability; maintenance and uniformity are always
// computable, so exactly four cases exist.
func compositeScore(a model.HealthAssessment) float64 {
	switch {
	case a.InclinationScore != nil && a.DriftScore != nil:
		return *a.InclinationScore*0.35 + a.MaintenanceScore*0.25 + a.UniformityScore*0.15 + *a.DriftScore*0.25
	case a.InclinationScore != nil:
		return *a.InclinationScore*0.5 + a.MaintenanceScore*0.3 + a.UniformityScore*0.2
	case a.DriftScore != nil:
		return a.MaintenanceScore*0.4 + a.UniformityScore*0.2 + *a.DriftScore*0.4
	default:
		return a.MaintenanceScore*0.6 + a.UniformityScore*0.4
	}
}

// buildRemarks renders the ordered advisory remark list: inclination, drift
// band, drift direction, trend, drift stability, maintenance, uniformity,
// overall parameter stability.
func buildRemarks(a *model.HealthAssessment, driftStd *float64, stdInc float64, cfg HealthConfig) []string {
	var remarks []string

	if a.InclinationScore != nil && a.InclinationDevDeg != nil {
		dev := *a.InclinationDevDeg
		switch {
		case dev <= cfg.InclinationToleranceDeg*0.3:
			remarks = append(remarks, fmt.Sprintf("Excellent inclination control (±%.2f°)", dev))
		case dev <= cfg.InclinationToleranceDeg:
			remarks = append(remarks, fmt.Sprintf("Inclination within tolerance (±%.2f°)", dev))
		default:
			remarks = append(remarks, fmt.Sprintf("Inclination deviation exceeds tolerance (%.2f°)", dev))
		}
	}

	if a.DriftScore != nil && a.MeanDriftDegPerDay != nil {
		absDrift := math.Abs(*a.MeanDriftDegPerDay)
		switch a.Type {
		case model.TypeGSO:
			switch a.DriftStatus {
			case "Excellent":
				remarks = append(remarks, fmt.Sprintf("Excellent station-keeping (drift %.3f°/day)", absDrift))
			case "Good":
				remarks = append(remarks, fmt.Sprintf("Good drift control (%.3f°/day)", absDrift))
			case "Fair":
				remarks = append(remarks, fmt.Sprintf("Moderate drift detected (%.3f°/day)", absDrift))
			case "Poor":
				remarks = append(remarks, fmt.Sprintf("High drift, requires correction (%.3f°/day)", absDrift))
			default:
				remarks = append(remarks, fmt.Sprintf("Critical drift, immediate attention needed (%.3f°/day)", absDrift))
			}
			if *a.MeanDriftDegPerDay > 0 {
				remarks = append(remarks, fmt.Sprintf("Drifting eastward at %.3f°/day", absDrift))
			} else if *a.MeanDriftDegPerDay < 0 {
				remarks = append(remarks, fmt.Sprintf("Drifting westward at %.3f°/day", absDrift))
			}
		case model.TypeIGSO:
			switch a.DriftStatus {
			case "Normal":
				remarks = append(remarks, fmt.Sprintf("Normal IGSO drift (%.3f°/day)", absDrift))
			case "Elevated":
				remarks = append(remarks, fmt.Sprintf("Elevated IGSO drift (%.3f°/day)", absDrift))
			default:
				remarks = append(remarks, fmt.Sprintf("High IGSO drift (%.3f°/day)", absDrift))
			}
		}

		if a.DriftTrendDegPerDay != nil {
			if *a.DriftTrendDegPerDay > 0.01 {
				remarks = append(remarks, fmt.Sprintf("Drift magnitude increasing (trend +%.3f°/day)", *a.DriftTrendDegPerDay))
			} else if *a.DriftTrendDegPerDay < -0.01 {
				remarks = append(remarks, fmt.Sprintf("Drift magnitude decreasing (trend %.3f°/day)", *a.DriftTrendDegPerDay))
			}
		}

		if a.Type == model.TypeGSO && driftStd != nil {
			if *driftStd > cfg.DriftToleranceGSO {
				remarks = append(remarks, fmt.Sprintf("Unstable drift (std dev %.3f°/day)", *driftStd))
			} else if *driftStd > cfg.DriftToleranceGSO*0.5 {
				remarks = append(remarks, fmt.Sprintf("Moderate drift variability (std dev %.3f°/day)", *driftStd))
			}
		}
	}

	switch {
	case cfg.MinManeuversPerMonth > 0 && a.ManeuversPerMonth < cfg.MinManeuversPerMonth:
		remarks = append(remarks, fmt.Sprintf("Low maintenance activity (%.1f/month)", a.ManeuversPerMonth))
	case cfg.MaxManeuversPerMonth > 0 && a.ManeuversPerMonth > cfg.MaxManeuversPerMonth:
		remarks = append(remarks, fmt.Sprintf("High correction frequency (%.1f/month)", a.ManeuversPerMonth))
	default:
		remarks = append(remarks, fmt.Sprintf("Active maintenance (%.1f maneuvers/month)", a.ManeuversPerMonth))
	}

	if a.UniformityCoV != nil {
		if *a.UniformityCoV <= cfg.UniformityThreshold {
			remarks = append(remarks, "Regular maneuver pattern detected")
		} else {
			remarks = append(remarks, "Irregular maneuver spacing")
		}
	}

	if stdInc < 0.1 {
		remarks = append(remarks, "Stable orbital parameters")
	}
	return remarks
}
