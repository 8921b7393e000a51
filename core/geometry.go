package core

import "math"

// EarthRadiusKm is the mean Earth radius used when deriving altitude from
// the semimajor axis (kilometres).
const EarthRadiusKm = 6371.0

// WGS-84 ellipsoid constants (kilometres).
const (
	wgs84A  = 6378.137
	wgs84F  = 1.0 / 298.257223563
	wgs84E2 = 2*wgs84F - wgs84F*wgs84F
)

const (
	deg2Rad = math.Pi / 180.0
	rad2Deg = 180.0 / math.Pi
)

// Vec3 is an ECEF-style vector in kilometres.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// geodeticToECEF converts geodetic latitude/longitude (degrees) and
// altitude (km) to an ECEF position on the WGS-84 ellipsoid.
func geodeticToECEF(latDeg, lonDeg, altKm float64) Vec3 {
	lat := latDeg * deg2Rad
	lon := lonDeg * deg2Rad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)

	return Vec3{
		X: (n + altKm) * cosLat * math.Cos(lon),
		Y: (n + altKm) * cosLat * math.Sin(lon),
		Z: (n*(1.0-wgs84E2) + altKm) * sinLat,
	}
}

// ecefToGeodetic converts an ECEF position to geodetic latitude/longitude in
// degrees using Bowring's iteration.
func ecefToGeodetic(p Vec3) (latDeg, lonDeg float64) {
	lon := math.Atan2(p.Y, p.X)
	rho := math.Sqrt(p.X*p.X + p.Y*p.Y)
	lat := math.Atan2(p.Z, rho*(1.0-wgs84E2))

	const maxIter = 10
	const tol = 1e-12
	for iter := 0; iter < maxIter; iter++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)
		next := math.Atan2(p.Z+wgs84E2*n*sinLat, rho)
		if math.Abs(next-lat) < tol {
			lat = next
			break
		}
		lat = next
	}
	return lat * rad2Deg, lon * rad2Deg
}

// topocentricAER computes azimuth/elevation (degrees) and range (km) of a
// target ECEF position as seen from an observer at geodetic lat/lon/alt.
// Azimuth is measured clockwise from north in [0, 360).
func topocentricAER(obsLatDeg, obsLonDeg, obsAltKm float64, target Vec3) (azDeg, elDeg, rangeKm float64) {
	obs := geodeticToECEF(obsLatDeg, obsLonDeg, obsAltKm)
	d := target.Sub(obs)
	rng := d.Norm()

	lat := obsLatDeg * deg2Rad
	lon := obsLonDeg * deg2Rad
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	// ECEF → ENU rotation at the observer.
	e := -sinLon*d.X + cosLon*d.Y
	n := -sinLat*cosLon*d.X - sinLat*sinLon*d.Y + cosLat*d.Z
	u := cosLat*cosLon*d.X + cosLat*sinLon*d.Y + sinLat*d.Z

	el := math.Asin(u / rng)
	az := math.Atan2(e, n)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az * rad2Deg, el * rad2Deg, rng
}
