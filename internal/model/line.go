package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// ErrParallel is returned by Line.Predict when the line never reaches the
// requested coordinate value.
var ErrParallel = errors.New("model: line is parallel to the requested axis")

// Line is an infinite line through Origin along the unit vector Direction.
type Line struct {
	Origin    []float64 `json:"origin"`
	Direction []float64 `json:"direction"`
}

// LineFamily fits Line models. Its minimal sample is two points.
type LineFamily struct{}

// MinSamples implements ransac.Family.
func (LineFamily) MinSamples() int { return 2 }

// Estimate implements ransac.Family.
func (LineFamily) Estimate(sample mat.Matrix) (*Line, error) {
	return FitLine(sample)
}

// FitLine fits a line to two or more points.
//
// The origin is the centroid. For two points the direction is their
// difference; for more points it is the first principal axis of the centered
// data, which makes the fit a total least-squares fit. Coincident points are
// degenerate.
func FitLine(points mat.Matrix) (*Line, error) {
	n, d := points.Dims()
	if d < 2 {
		return nil, fmt.Errorf("model: line needs at least 2 dimensions, got %d", d)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: line needs 2 points, got %d", ransac.ErrDegenerate, n)
	}

	origin := make([]float64, d)
	col := make([]float64, n)
	for k := 0; k < d; k++ {
		origin[k] = stat.Mean(mat.Col(col, k, points), nil)
	}

	var direction []float64
	if n == 2 {
		direction = make([]float64, d)
		for k := 0; k < d; k++ {
			direction[k] = points.At(1, k) - points.At(0, k)
		}
	} else {
		centered := mat.NewDense(n, d, nil)
		for i := 0; i < n; i++ {
			for k := 0; k < d; k++ {
				centered.Set(i, k, points.At(i, k)-origin[k])
			}
		}
		var svd mat.SVD
		if !svd.Factorize(centered, mat.SVDThinV) {
			return nil, fmt.Errorf("%w: singular value decomposition failed", ransac.ErrDegenerate)
		}
		if svd.Values(nil)[0] == 0 {
			return nil, fmt.Errorf("%w: all points coincide", ransac.ErrDegenerate)
		}
		var v mat.Dense
		svd.VTo(&v)
		direction = mat.Col(nil, 0, &v)
	}

	norm := floats.Norm(direction, 2)
	if norm == 0 || math.IsNaN(norm) {
		return nil, fmt.Errorf("%w: points coincide", ransac.ErrDegenerate)
	}
	floats.Scale(1/norm, direction)
	return &Line{Origin: origin, Direction: direction}, nil
}

// Residuals returns the perpendicular distance of every point to the line.
// Points whose dimension differs from the line's get +Inf.
func (l *Line) Residuals(points mat.Matrix) []float64 {
	n, d := points.Dims()
	out := make([]float64, n)
	if d != len(l.Origin) {
		for i := range out {
			out[i] = math.Inf(1)
		}
		return out
	}
	v := make([]float64, d)
	for i := 0; i < n; i++ {
		for k := 0; k < d; k++ {
			v[k] = points.At(i, k) - l.Origin[k]
		}
		floats.AddScaled(v, -floats.Dot(v, l.Direction), l.Direction)
		out[i] = floats.Norm(v, 2)
	}
	return out
}

// Project returns the signed position of the point's projection along the
// line, measured from Origin.
func (l *Line) Project(point []float64) float64 {
	var t float64
	for k, dk := range l.Direction {
		t += (point[k] - l.Origin[k]) * dk
	}
	return t
}

// At returns the point at signed position t along the line.
func (l *Line) At(t float64) []float64 {
	out := make([]float64, len(l.Origin))
	floats.AddScaledTo(out, l.Origin, t, l.Direction)
	return out
}

// Predict returns the point on the line whose coordinate on axis equals x.
func (l *Line) Predict(x float64, axis int) ([]float64, error) {
	if axis < 0 || axis >= len(l.Origin) {
		return nil, fmt.Errorf("model: axis %d out of range for %d-D line", axis, len(l.Origin))
	}
	if l.Direction[axis] == 0 {
		return nil, ErrParallel
	}
	p := l.At((x - l.Origin[axis]) / l.Direction[axis])
	p[axis] = x
	return p, nil
}

// PredictY returns y for the given x on a line in the plane.
func (l *Line) PredictY(x float64) (float64, error) {
	p, err := l.Predict(x, 0)
	if err != nil {
		return 0, err
	}
	return p[1], nil
}

// PredictX returns x for the given y on a line in the plane.
func (l *Line) PredictX(y float64) (float64, error) {
	if len(l.Origin) < 2 {
		return 0, fmt.Errorf("model: line has no Y axis")
	}
	p, err := l.Predict(y, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// AngleDegrees returns the direction of a planar line in degrees within
// (-90, 90]. Zero is horizontal; with Y pointing down, positive angles slope
// downward to the right.
func (l *Line) AngleDegrees() float64 {
	x, y := l.Direction[0], l.Direction[1]
	if x < 0 || (x == 0 && y < 0) {
		x, y = -x, -y
	}
	a := math.Atan2(y, x) * 180 / math.Pi
	if a <= -90 {
		a += 180
	}
	return a
}
