package nnpde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		name          string
		low, up, step float64
		want          int
		last          float64
	}{
		{"unit interval tenths", 0, 1, 0.1, 11, 1},
		{"endpoint not on the grid", 0, 1, 0.3, 4, 0.9},
		{"offset interval", -1, 1, 0.5, 5, 1},
		{"single step", 0, 2, 2, 2, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			xs := span(test.low, test.up, test.step)
			require.Len(t, xs, test.want)
			assert.Equal(t, test.low, xs[0])
			assert.InDelta(t, test.last, xs[len(xs)-1], 1e-12)
		})
	}
}

func TestGridCardinality(t *testing.T) {
	// D axes over [0,1] at step 0.1 make an 11^D grid.
	for dims := 1; dims <= 3; dims++ {
		axes := make([][]float64, dims)
		for d := range axes {
			axes[d] = span(0, 1, 0.1)
		}
		pts := cartesian(axes)
		want := int(math.Pow(11, float64(dims)))
		assert.Len(t, pts, want, "dims=%v", dims)
	}
}

func TestCartesianOrderingAndDegenerateCases(t *testing.T) {
	pts := cartesian([][]float64{{0, 1}, {10, 20}})
	assert.Equal(t, [][]float64{{0, 10}, {0, 20}, {1, 10}, {1, 20}}, pts)

	// The empty product is a single empty point, so fully pinned
	// boundary conditions still get one collocation point.
	assert.Equal(t, [][]float64{{}}, cartesian(nil))
}

func TestGridSetsInteriorExcludesBoundaryPoints(t *testing.T) {
	indep := []IndependentVar{
		{Name: "x", Low: 0, Up: 1},
		{Name: "t", Low: 0, Up: 1},
	}
	axes := []*bcAxes{
		{free: []string{"t"}, fixed: map[string]float64{"x": 0}},
		{free: []string{"t"}, fixed: map[string]float64{"x": 1}},
		{free: []string{"x"}, fixed: map[string]float64{"t": 0}},
	}
	interior, boundary := gridSets(indep, 0.1, axes)

	// 11 x-values lose x=0 and x=1, 11 t-values lose t=0.
	assert.Len(t, interior, 9*10)
	for _, x := range interior {
		assert.NotEqual(t, 0.0, x[0])
		assert.NotEqual(t, 1.0, x[0])
		assert.NotEqual(t, 0.0, x[1])
	}

	require.Len(t, boundary, 3)
	for _, b := range boundary {
		assert.Len(t, b, 11)
		assert.Len(t, b[0], 1)
	}
}

func TestGridSetsPerVariableStepOverride(t *testing.T) {
	indep := []IndependentVar{
		{Name: "x", Low: 0, Up: 1, Step: 0.5},
		{Name: "t", Low: 0, Up: 1},
	}
	interior, _ := gridSets(indep, 0.1, nil)
	assert.Len(t, interior, 3*11)
}

func TestBoundSets(t *testing.T) {
	indep := []IndependentVar{
		{Name: "x", Low: -1, Up: 1},
		{Name: "t", Low: 0, Up: 2},
	}
	axes := []*bcAxes{
		{free: []string{"t"}, fixed: map[string]float64{"x": -1}},
		{free: nil, fixed: map[string]float64{"x": -1, "t": 0}},
	}
	full, boundary := boundSets(indep, axes)

	assert.Equal(t, []float64{-1, 0}, full.low)
	assert.Equal(t, []float64{1, 2}, full.up)
	assert.Equal(t, 2, full.dims())
	assert.InDelta(t, 4.0, full.volume(), 1e-12)

	require.Len(t, boundary, 2)
	assert.Equal(t, []float64{0}, boundary[0].low)
	assert.Equal(t, []float64{2}, boundary[0].up)
	assert.Equal(t, 0, boundary[1].dims())

	iv := full.intervals()
	require.Len(t, iv, 2)
	assert.Equal(t, -1.0, iv[0].Min)
	assert.Equal(t, 2.0, iv[1].Max)
}
