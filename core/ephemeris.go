package core

import (
	"errors"
	"math"
	"sync"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/navhealth/model"
)

// ErrPropagation is returned when the SGP4 model cannot be evaluated at the
// requested time (stale elements or numerical divergence).
var ErrPropagation = errors.New("ephemeris propagation failed")

// EphemerisModel evaluates a satellite's position. Observe degrades to
// (zero, false) on evaluation failure; failure is local and never aborts a
// batch.
type EphemerisModel interface {
	// Observe returns the topocentric look from obs at time t.
	Observe(obs model.Observer, t time.Time) (model.SatellitePosition, bool)
	// Subpoint returns the subsatellite geodetic point at time t.
	Subpoint(t time.Time) (latDeg, lonDeg float64, err error)
}

// SGP4Ephemeris propagates a satellite from its two-line elements using
// SGP4. Evaluation is side-effect free, so the ECEF state is memoized per
// propagation time within a run; the model is safe for concurrent use.
type SGP4Ephemeris struct {
	satelliteID string
	sat         satellite.Satellite

	mu    sync.Mutex
	cache map[int64]Vec3
}

// NewSGP4Ephemeris constructs an ephemeris model from TLE lines. The WGS-72
// gravity model is the standard pairing for two-line element sets.
func NewSGP4Ephemeris(satelliteID, line1, line2 string) *SGP4Ephemeris {
	return &SGP4Ephemeris{
		satelliteID: satelliteID,
		sat:         satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
		cache:       make(map[int64]Vec3),
	}
}

// SatelliteID returns the catalog name this model was built for.
func (e *SGP4Ephemeris) SatelliteID() string { return e.satelliteID }

// positionECEF propagates to t and rotates the ECI state into ECEF.
// SGP4 signals failure through NaN output, which callers see as !ok.
func (e *SGP4Ephemeris) positionECEF(t time.Time) (Vec3, bool) {
	key := t.Unix()

	e.mu.Lock()
	if p, ok := e.cache[key]; ok {
		e.mu.Unlock()
		return p, !math.IsNaN(p.X)
	}
	e.mu.Unlock()

	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(e.sat, year, int(month), day, hour, min, sec)
	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, min, sec)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	p := Vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}

	e.mu.Lock()
	e.cache[key] = p
	e.mu.Unlock()

	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
		return Vec3{}, false
	}
	return p, true
}

// Observe implements EphemerisModel.
func (e *SGP4Ephemeris) Observe(obs model.Observer, t time.Time) (model.SatellitePosition, bool) {
	p, ok := e.positionECEF(t)
	if !ok {
		return model.SatellitePosition{}, false
	}
	az, el, rng := topocentricAER(obs.LatDeg, obs.LonDeg, obs.AltKm, p)
	return model.SatellitePosition{
		SatelliteID: e.satelliteID,
		AltitudeDeg: el,
		AzimuthDeg:  az,
		RangeKm:     rng,
	}, true
}

// Subpoint implements EphemerisModel.
func (e *SGP4Ephemeris) Subpoint(t time.Time) (float64, float64, error) {
	p, ok := e.positionECEF(t)
	if !ok {
		return 0, 0, ErrPropagation
	}
	lat, lon := ecefToGeodetic(p)
	return lat, lon, nil
}
