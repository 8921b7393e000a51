package model

// SatelliteType classifies a satellite by its mean orbital inclination.
type SatelliteType int

const (
	TypeUnclassified SatelliteType = iota
	TypeGSO                        // geostationary (0° < mean inclination < 10°)
	TypeIGSO                       // inclined geosynchronous (mean inclination ≥ 10°)
)

// String returns the short classification label.
func (t SatelliteType) String() string {
	switch t {
	case TypeGSO:
		return "GSO"
	case TypeIGSO:
		return "IGSO"
	default:
		return "Unclassified"
	}
}

// ServiceRequirement describes the target slot a satellite is expected to
// hold. Either field may be absent when no requirement is published.
type ServiceRequirement struct {
	LongitudeDeg   *float64
	InclinationDeg *float64
}

// SatelliteEntry identifies one constellation member in the catalog.
type SatelliteEntry struct {
	Name    string
	NoradID int
	Active  bool

	Requirement ServiceRequirement
}
