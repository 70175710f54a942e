package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	p := Point{Latitude: 12.9716, Longitude: 77.5946}
	assert.Equal(t, 0.0, DistanceMeters(p, p))
}

func TestDistanceMeters_OneDegreeLongitudeAtEquator(t *testing.T) {
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 0, Longitude: 1}

	got := DistanceMeters(a, b)
	assert.InDelta(t, 111195, got, 50)
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := Point{Latitude: 12.9716, Longitude: 77.5946}
	b := Point{Latitude: 13.0827, Longitude: 80.2707}

	assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-9)
}

func TestDistanceMeters_ShortRange(t *testing.T) {
	// Two points roughly 500m apart along a meridian: 1 deg lat ~ 111.2km,
	// so 0.0045 deg ~ 500m.
	center := Point{Latitude: 12.9716, Longitude: 77.5946}
	outside := Point{Latitude: 12.9761, Longitude: 77.5946}

	got := DistanceMeters(center, outside)
	assert.InDelta(t, 500, got, 10)
}

func TestPoint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantErr bool
	}{
		{"valid", Point{12.9716, 77.5946}, false},
		{"lat north pole", Point{90, 0}, false},
		{"lat too high", Point{90.0001, 0}, true},
		{"lat too low", Point{-91, 0}, true},
		{"lon wraps", Point{0, 180.5}, true},
		{"lon too low", Point{0, -181}, true},
		{"nan latitude", Point{math.NaN(), 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.point.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
