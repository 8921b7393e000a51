package core

import (
	"sort"

	"github.com/signalsfoundry/navhealth/model"
)

// GeosyncMeanMotion is the mean motion of a perfect geostationary orbit in
// revolutions per sidereal day.
const GeosyncMeanMotion = 1.002737909

// LongitudinalDrift converts mean motion (rev/day) to longitudinal drift in
// degrees per day. Positive is eastward, negative westward.
func LongitudinalDrift(meanMotion float64) float64 {
	return (meanMotion - GeosyncMeanMotion) * 360
}

// DriftDirection labels the sign of a drift value.
func DriftDirection(drift float64) string {
	switch {
	case drift > 0:
		return "Eastward"
	case drift < 0:
		return "Westward"
	default:
		return "Stationary"
	}
}

// ClassifyType assigns the orbit class from the series mean inclination.
func ClassifyType(meanInclinationDeg float64) model.SatelliteType {
	switch {
	case meanInclinationDeg > 0 && meanInclinationDeg < 10:
		return model.TypeGSO
	case meanInclinationDeg >= 10:
		return model.TypeIGSO
	default:
		return model.TypeUnclassified
	}
}

// NormalizeSeries orders raw element records by epoch, optionally keeps only
// the first record of each UTC calendar day, derives altitude and
// longitudinal drift where the source fields are available, and classifies
// the satellite from its mean inclination. The input slice is not mutated.
func NormalizeSeries(satelliteID string, records []model.OrbitalRecord, dailyOnly bool) *model.OrbitalSeries {
	recs := make([]model.OrbitalRecord, len(records))
	copy(recs, records)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Epoch.Before(recs[j].Epoch) })

	if dailyOnly {
		deduped := recs[:0]
		var lastDay string
		for _, r := range recs {
			day := r.Epoch.UTC().Format("2006-01-02")
			if day == lastDay {
				continue
			}
			lastDay = day
			deduped = append(deduped, r)
		}
		recs = deduped
	}

	incSum := 0.0
	for i := range recs {
		recs[i].SatelliteID = satelliteID
		recs[i].Epoch = recs[i].Epoch.UTC()

		if sma := recs[i].SemimajorAxisKm; sma != nil {
			alt := *sma - EarthRadiusKm
			recs[i].AltitudeKm = &alt
		}
		if mm := recs[i].MeanMotionRevPerDay; mm != nil {
			drift := LongitudinalDrift(*mm)
			recs[i].DriftDegPerDay = &drift
		}
		incSum += recs[i].InclinationDeg
	}

	meanInc := 0.0
	if len(recs) > 0 {
		meanInc = incSum / float64(len(recs))
	}

	return &model.OrbitalSeries{
		SatelliteID:        satelliteID,
		Type:               ClassifyType(meanInc),
		MeanInclinationDeg: meanInc,
		Records:            recs,
	}
}
