package ransac

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NewPointSet builds an N×D point set from rows of coordinates.
// All rows must have the same, non-zero length.
func NewPointSet(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty point set", ErrInsufficientData)
	}
	d := len(rows[0])
	if d == 0 {
		return nil, fmt.Errorf("%w: points have no coordinates", ErrInvalidParams)
	}
	data := make([]float64, 0, len(rows)*d)
	for i, r := range rows {
		if len(r) != d {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, want %d", ErrInvalidParams, i, len(r), d)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), d, data), nil
}

// Rows copies the rows at idx into a new matrix.
func Rows(points mat.Matrix, idx []int) *mat.Dense {
	_, d := points.Dims()
	out := mat.NewDense(len(idx), d, nil)
	for i, j := range idx {
		for k := 0; k < d; k++ {
			out.Set(i, k, points.At(j, k))
		}
	}
	return out
}

// Select returns the indices of rows whose mask entry equals want, and a copy of
// those rows. The matrix is nil when no row matches.
func Select(points mat.Matrix, mask []bool, want bool) ([]int, *mat.Dense) {
	idx := make([]int, 0, len(mask))
	for i, m := range mask {
		if m == want {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return idx, nil
	}
	return idx, Rows(points, idx)
}
