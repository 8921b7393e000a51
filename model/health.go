package model

// HealthAssessment is the composite per-satellite health verdict. Sub-scores
// that could not be computed (unknown target inclination, no drift data) are
// nil and excluded from the composite weighting.
type HealthAssessment struct {
	SatelliteID string
	Type        SatelliteType

	InclinationScore *float64
	MaintenanceScore float64
	UniformityScore  float64
	DriftScore       *float64

	OverallScore float64 // clamped to [0,100]
	Status       string

	// Supporting statistics surfaced for reporting.
	TargetInclinationDeg *float64
	MeanInclinationDeg   float64
	InclinationDevDeg    *float64
	MeanDriftDegPerDay   *float64
	CurrentDriftDegPerDay *float64
	DriftStatus          string
	DriftTrendDegPerDay  *float64
	ManeuversPerMonth    float64
	EWManeuvers          int
	NSManeuvers          int
	UniformityCoV        *float64

	Remarks []string
}
