package model

import "time"

// GroundTrackEnvelope summarizes the geographic footprint of one satellite
// propagated over a future window.
type GroundTrackEnvelope struct {
	SatelliteID string

	Times      []time.Time
	Latitudes  []float64
	Longitudes []float64

	MinLatDeg  float64
	MaxLatDeg  float64
	MeanLatDeg float64
	MinLonDeg  float64
	MaxLonDeg  float64
	MeanLonDeg float64
}
