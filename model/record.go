package model

import "time"

// OrbitalRecord is one per-epoch orbital element sample for a satellite.
// SemimajorAxisKm and MeanMotionRevPerDay are optional in the upstream
// catalog; nil means "not available" and propagates downstream as such.
// AltitudeKm and DriftDegPerDay are derived during series normalization.
type OrbitalRecord struct {
	SatelliteID string
	Epoch       time.Time

	InclinationDeg      float64
	SemimajorAxisKm     *float64
	MeanMotionRevPerDay *float64

	AltitudeKm     *float64
	DriftDegPerDay *float64
}

// OrbitalSeries is the normalized, epoch-ascending element history of one
// satellite. It is rebuilt per analysis run and never mutated afterwards.
type OrbitalSeries struct {
	SatelliteID        string
	Type               SatelliteType
	MeanInclinationDeg float64
	Records            []OrbitalRecord
}

// Len returns the number of records in the series.
func (s *OrbitalSeries) Len() int { return len(s.Records) }

// SpanDays returns the observation span in whole days between the first and
// last epoch, or 0 for series shorter than two records.
func (s *OrbitalSeries) SpanDays() int {
	if len(s.Records) < 2 {
		return 0
	}
	first := s.Records[0].Epoch
	last := s.Records[len(s.Records)-1].Epoch
	return int(last.Sub(first).Hours() / 24)
}

// Drifts returns the drift samples that are available, in epoch order.
func (s *OrbitalSeries) Drifts() []float64 {
	out := make([]float64, 0, len(s.Records))
	for _, r := range s.Records {
		if r.DriftDegPerDay != nil {
			out = append(out, *r.DriftDegPerDay)
		}
	}
	return out
}

// Inclinations returns the inclination samples in epoch order.
func (s *OrbitalSeries) Inclinations() []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.InclinationDeg
	}
	return out
}
