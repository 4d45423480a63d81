package geodist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestHaversineKM(t *testing.T) {
	// City center to the City of Arts and Sciences, roughly 3.5 km.
	center := DefaultReferences().Center
	arts := DefaultReferences().ArtsSciences

	d := HaversineKM(center.Y(), center.X(), arts.Y(), arts.X())
	assert.InDelta(t, 3.5, d, 1.0)
}

func TestHaversineKMSymmetric(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{"valencia pair", 39.4697, -0.3773, 39.4821, -0.3489},
		{"across equator", 10.5, 20.25, -33.9, 151.2},
		{"antimeridian", 35.0, 179.9, 35.0, -179.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := HaversineKM(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			ba := HaversineKM(tt.lat2, tt.lng2, tt.lat1, tt.lng1)
			assert.InDelta(t, ab, ba, 1e-9)
			assert.Greater(t, ab, 0.0)
		})
	}
}

func TestHaversineKMZeroIffEqual(t *testing.T) {
	d := HaversineKM(39.4697, -0.3773, 39.4697, -0.3773)
	assert.InDelta(t, 0, d, 1e-9)

	d = HaversineKM(39.4697, -0.3773, 39.4698, -0.3773)
	assert.Greater(t, d, 0.0)
}

func TestHaversineKMNaNPropagates(t *testing.T) {
	d := HaversineKM(math.NaN(), -0.3773, 39.4697, -0.3773)
	assert.True(t, math.IsNaN(d))
}

func TestNearestKM(t *testing.T) {
	set := []geom.Coord{
		{-0.3250, 39.4650}, // ~4.5 km east of center
		{-0.3773, 39.4797}, // ~1.1 km north of center
	}

	d := NearestKM(39.4697, -0.3773, set)
	want := HaversineKM(39.4697, -0.3773, 39.4797, -0.3773)
	assert.InDelta(t, want, d, 1e-9)
}

func TestNearestKMEmptySet(t *testing.T) {
	d := NearestKM(39.4697, -0.3773, nil)
	assert.True(t, math.IsNaN(d))
}

func TestDefaultReferences(t *testing.T) {
	refs := DefaultReferences()
	require.NotNil(t, refs)

	assert.NotEmpty(t, refs.Beach)
	assert.NotEmpty(t, refs.Turia)
	assert.NotEmpty(t, refs.Metro)

	// Every reference point must sit inside the city's bounding box.
	all := append([]geom.Coord{refs.Center, refs.ArtsSciences, refs.UPV, refs.MetroXativa}, refs.Beach...)
	all = append(all, refs.Turia...)
	all = append(all, refs.Metro...)
	for _, p := range all {
		assert.InDelta(t, 39.45, p.Y(), 0.15, "latitude %v", p)
		assert.InDelta(t, -0.37, p.X(), 0.15, "longitude %v", p)
	}
}
