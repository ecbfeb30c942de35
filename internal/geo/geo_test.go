package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	assert.Zero(t, Distance(17.4326, 78.4071, 17.4326, 78.4071))
	assert.Zero(t, Distance(0, 0, 0, 0))
	assert.Zero(t, Distance(-45.5, 170.25, -45.5, 170.25))
}

func TestDistance_Symmetry(t *testing.T) {
	points := [][4]float64{
		{0, 0, 0, 1},
		{17.4326, 78.4071, 12.9716, 77.5946},
		{51.5074, -0.1278, 40.7128, -74.0060},
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}

	for _, p := range points {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestDistance_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	// One degree of arc on a 6371 km sphere is about 111.19 km.
	assert.InDelta(t, 111.19, Distance(0, 0, 0, 1), 0.5)
}

func TestDistance_KnownCityPair(t *testing.T) {
	// Hyderabad to Bangalore, roughly 500 km.
	d := Distance(17.4326, 78.4071, 12.9716, 77.5946)
	assert.InDelta(t, 500, d, 10)
}
