package core

import (
	"math"

	"github.com/signalsfoundry/navhealth/model"
)

// DesignMatrixRow is one satellite's contribution to the positioning normal
// equations: unit line-of-sight direction cosines plus the clock column.
type DesignMatrixRow [4]float64

// BuildDesignMatrix converts the positions above the elevation mask into
// design-matrix rows. Satellites at or below the mask contribute nothing;
// row order carries no meaning.
func BuildDesignMatrix(positions []model.SatellitePosition, elevationMaskDeg float64) []DesignMatrixRow {
	rows := make([]DesignMatrixRow, 0, len(positions))
	for _, pos := range positions {
		if pos.AltitudeDeg <= elevationMaskDeg {
			continue
		}
		az := pos.AzimuthDeg * deg2Rad
		el := pos.AltitudeDeg * deg2Rad

		rows = append(rows, DesignMatrixRow{
			math.Cos(el) * math.Sin(az),
			math.Cos(el) * math.Cos(az),
			math.Sin(el),
			1,
		})
	}
	return rows
}

// VisibleSatellites returns the IDs of the positions above the mask, in
// input order.
func VisibleSatellites(positions []model.SatellitePosition, elevationMaskDeg float64) []string {
	ids := make([]string, 0, len(positions))
	for _, pos := range positions {
		if pos.AltitudeDeg > elevationMaskDeg {
			ids = append(ids, pos.SatelliteID)
		}
	}
	return ids
}
