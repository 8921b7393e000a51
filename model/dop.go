package model

// DOPResult carries the dilution-of-precision metrics for one observer
// location at one instant. A nil *DOPResult means the geometry was
// undefined (fewer than four usable satellites or a singular normal
// matrix); the visible-satellite count is still reported by the caller.
type DOPResult struct {
	GDOP float64
	PDOP float64
	HDOP float64
	VDOP float64
	TDOP float64

	VisibleSatellites []string
	Quality           string
}
