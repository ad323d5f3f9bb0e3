package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalerStandardizes(t *testing.T) {
	X := [][]float64{
		{0, 10},
		{2, 10},
		{4, 10},
	}
	sc := fitScaler(X)

	assert.InDelta(t, 2.0, sc.mean[0], 1e-9)
	assert.InDelta(t, math.Sqrt(8.0/3.0), sc.std[0], 1e-9)
	// Constant column keeps std 1 so transformed values are exactly zero.
	assert.Equal(t, 1.0, sc.std[1])

	row := sc.transform([]float64{4, 10})
	assert.InDelta(t, 2.0/math.Sqrt(8.0/3.0), row[0], 1e-9)
	assert.Equal(t, 0.0, row[1])
}

func TestFitOLSRecoversExactLine(t *testing.T) {
	// y = 2 + 3x, noiseless, so the fit must be exact.
	X := [][]float64{{0}, {1}, {2}, {3}, {4}}
	y := []float64{2, 5, 8, 11, 14}

	model := fitOLS(X, y)

	assert.InDelta(t, 2.0, model.intercept, 1e-9)
	assert.InDelta(t, 3.0, model.coef[0], 1e-9)
	assert.InDelta(t, 17.0, model.predict([]float64{5}), 1e-9)
}

func TestFitOLSTwoFeatures(t *testing.T) {
	// y = 1 + 2a - b over a grid of points.
	X := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 3}}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 1 + 2*row[0] - row[1]
	}

	model := fitOLS(X, y)

	assert.InDelta(t, 1.0, model.intercept, 1e-9)
	assert.InDelta(t, 2.0, model.coef[0], 1e-9)
	assert.InDelta(t, -1.0, model.coef[1], 1e-9)
}

func TestFitOLSDegenerateFeature(t *testing.T) {
	// Second feature is constant; the solver must leave its coefficient at
	// zero instead of dividing by a vanishing pivot.
	X := [][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	y := []float64{1, 3, 5, 7}

	model := fitOLS(X, y)

	assert.InDelta(t, 2.0, model.coef[0], 1e-9)
	assert.Equal(t, 0.0, model.coef[1])
	assert.InDelta(t, 9.0, model.predict([]float64{4, 0}), 1e-9)
}

func TestSolveLinearSystemPivoting(t *testing.T) {
	// First pivot is zero, so the solver must swap rows.
	A := [][]float64{
		{0, 1},
		{2, 0},
	}
	b := []float64{3, 4}

	w := solveLinearSystem(A, b)

	assert.InDelta(t, 2.0, w[0], 1e-9)
	assert.InDelta(t, 3.0, w[1], 1e-9)
}
