package geodist

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePointShapefile(t *testing.T, path string, points []shp.Point) {
	t.Helper()
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	for i := range points {
		w.Write(&points[i])
	}
	w.Close()
}

func TestLoadPointSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metro.shp")
	writePointShapefile(t, path, []shp.Point{
		{X: -0.3767, Y: 39.4671},
		{X: -0.3710, Y: 39.4702},
	})

	set, err := LoadPointSet(path)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.InDelta(t, -0.3767, set[0].X(), 0.0001)
	assert.InDelta(t, 39.4671, set[0].Y(), 0.0001)
}

func TestLoadPointSetPolyLineVertices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turia.shp")
	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	line := shp.NewPolyLine([][]shp.Point{{
		{X: -0.4024, Y: 39.4887},
		{X: -0.3898, Y: 39.4798},
		{X: -0.3790, Y: 39.4741},
	}})
	w.Write(line)
	w.Close()

	set, err := LoadPointSet(path)
	require.NoError(t, err)
	assert.Len(t, set, 3)
}

func TestLoadPointSetMissingFile(t *testing.T) {
	_, err := LoadPointSet(filepath.Join(t.TempDir(), "absent.shp"))
	assert.Error(t, err)
}
