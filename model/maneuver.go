package model

import "time"

// ManeuverEvent is one confirmed orbit-correction event. A record counts as
// a maneuver iff EastWest or NorthSouth is set.
type ManeuverEvent struct {
	SatelliteID string
	Epoch       time.Time

	EastWest   bool // semimajor-axis step (station-keeping along-track burn)
	NorthSouth bool // inclination step (cross-track burn)

	DeltaSMAKm  float64
	DeltaIncDeg float64
	ZSMASigma   float64
	ZIncSigma   float64
}

// IsManeuver reports whether the event is a confirmed maneuver of any kind.
func (e ManeuverEvent) IsManeuver() bool { return e.EastWest || e.NorthSouth }
