package ai

import "math"

// Plain least-squares machinery for the sales forecaster. The feature space
// is tiny (four calendar features) so the normal equations are solved
// directly; the fit is fully deterministic.

// scaler standardizes features to zero mean and unit variance, fitted on the
// observed set only. A constant feature keeps a scale of 1 so transforming it
// yields zero rather than dividing by zero.
type scaler struct {
	mean []float64
	std  []float64
}

func fitScaler(X [][]float64) *scaler {
	n := len(X)
	dims := len(X[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)

	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / float64(n))
		if std[j] == 0 {
			std[j] = 1
		}
	}
	return &scaler{mean: mean, std: std}
}

func (s *scaler) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.mean[j]) / s.std[j]
	}
	return out
}

// linearModel is an ordinary least-squares fit with intercept.
type linearModel struct {
	intercept float64
	coef      []float64
}

// fitOLS solves the normal equations for y ~ [1 | X]. Degenerate directions
// (for example a feature that is constant across the observed window) get a
// zero coefficient instead of blowing up the solve.
func fitOLS(X [][]float64, y []float64) *linearModel {
	n := len(X)
	dims := len(X[0]) + 1 // leading intercept column

	// A = M^T M, b = M^T y where M is the design matrix with intercept.
	A := make([][]float64, dims)
	for i := range A {
		A[i] = make([]float64, dims)
	}
	b := make([]float64, dims)

	row := make([]float64, dims)
	for k := 0; k < n; k++ {
		row[0] = 1
		copy(row[1:], X[k])
		for i := 0; i < dims; i++ {
			for j := 0; j < dims; j++ {
				A[i][j] += row[i] * row[j]
			}
			b[i] += row[i] * y[k]
		}
	}

	w := solveLinearSystem(A, b)
	return &linearModel{intercept: w[0], coef: w[1:]}
}

func (m *linearModel) predict(x []float64) float64 {
	v := m.intercept
	for j, c := range m.coef {
		v += c * x[j]
	}
	return v
}

// solveLinearSystem performs Gaussian elimination with partial pivoting.
// Near-zero pivots leave the corresponding unknown at zero.
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)
	const eps = 1e-12

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < eps {
			continue
		}
		A[col], A[pivot] = A[pivot], A[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := A[r][col] / A[col][col]
			for c := col; c < n; c++ {
				A[r][c] -= f * A[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	w := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if math.Abs(A[i][i]) < eps {
			w[i] = 0
			continue
		}
		v := b[i]
		for j := i + 1; j < n; j++ {
			v -= A[i][j] * w[j]
		}
		w[i] = v / A[i][i]
	}
	return w
}
