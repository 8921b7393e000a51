package model

// Observer is a ground location in geodetic degrees, altitude in km.
type Observer struct {
	Name   string
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// SatellitePosition is a topocentric look from an observer at one instant.
// A position is only produced when the ephemeris model could be evaluated;
// callers receive (position, ok) pairs and treat !ok as "unknown".
type SatellitePosition struct {
	SatelliteID string
	AltitudeDeg float64 // elevation above the local horizon
	AzimuthDeg  float64 // clockwise from north
	RangeKm     float64
}
