// Package geo computes great-circle distances for geofence checks.
//
// Distances use a spherical earth model with a fixed radius, which is
// within ~0.3% of the WGS84 ellipsoid. Geofence radii are tens to
// hundreds of meters, so the error is well below GPS noise.
package geo

import (
	"math"
	"net/http"

	"fieldwatch/internal/shared/apperror"
)

const earthRadiusMeters = 6371000.0

var ErrInvalidCoordinate = apperror.New(
	apperror.CodeInvalidInput,
	"latitude must be in [-90,90] and longitude in [-180,180]",
	http.StatusBadRequest,
)

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return ErrInvalidCoordinate
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return ErrInvalidCoordinate
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// DistanceMeters returns the haversine great-circle distance between two
// points in meters. Inputs are assumed valid; callers reject out-of-range
// coordinates via Validate before getting here.
func DistanceMeters(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(h))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
