package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// collinearTolerance bounds the ratio of the scatter determinant to the
// squared scatter trace below which points count as collinear.
const collinearTolerance = 1e-12

// Circle is a circle in the plane.
type Circle struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`
}

// CircleFamily fits Circle models. Its minimal sample is three points.
type CircleFamily struct{}

// MinSamples implements ransac.Family.
func (CircleFamily) MinSamples() int { return 3 }

// Estimate implements ransac.Family.
func (CircleFamily) Estimate(sample mat.Matrix) (*Circle, error) {
	return FitCircle(sample)
}

// FitCircle fits a circle to three or more planar points.
//
// The circle equation x² + y² + D·x + E·y + F = 0 is linear in D, E and F.
// Three points give a square system with an exact solution; more points are
// solved in the least-squares sense. Collinear points have no finite circle and
// are degenerate.
func FitCircle(points mat.Matrix) (*Circle, error) {
	n, d := points.Dims()
	if d != 2 {
		return nil, fmt.Errorf("model: circle needs 2-D points, got %d-D", d)
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: circle needs 3 points, got %d", ransac.ErrDegenerate, n)
	}

	// Centering keeps the system well conditioned for pixel coordinates.
	xs := mat.Col(nil, 0, points)
	ys := mat.Col(nil, 1, points)
	mx, my := stat.Mean(xs, nil), stat.Mean(ys, nil)
	if collinear(xs, ys, mx, my) {
		return nil, fmt.Errorf("%w: points are collinear", ransac.ErrDegenerate)
	}

	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		x, y := xs[i]-mx, ys[i]-my
		a.Set(i, 0, x)
		a.Set(i, 1, y)
		a.Set(i, 2, 1)
		b.SetVec(i, -(x*x + y*y))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ransac.ErrDegenerate, err)
	}
	cx, cy := -sol.AtVec(0)/2, -sol.AtVec(1)/2
	r2 := cx*cx + cy*cy - sol.AtVec(2)
	if !(r2 > 0) || math.IsInf(r2, 0) {
		return nil, fmt.Errorf("%w: no finite circle", ransac.ErrDegenerate)
	}
	return &Circle{CenterX: cx + mx, CenterY: cy + my, Radius: math.Sqrt(r2)}, nil
}

// collinear reports whether the scatter matrix of the centered points is
// singular relative to its scale.
func collinear(xs, ys []float64, mx, my float64) bool {
	var sxx, syy, sxy float64
	for i := range xs {
		x, y := xs[i]-mx, ys[i]-my
		sxx += x * x
		syy += y * y
		sxy += x * y
	}
	trace := sxx + syy
	if trace == 0 {
		return true
	}
	return sxx*syy-sxy*sxy <= collinearTolerance*trace*trace
}

// Residuals returns |distance to center - radius| for every point.
// Points that are not 2-D get +Inf.
func (c *Circle) Residuals(points mat.Matrix) []float64 {
	n, d := points.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if d != 2 {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = math.Abs(math.Hypot(points.At(i, 0)-c.CenterX, points.At(i, 1)-c.CenterY) - c.Radius)
	}
	return out
}

// PredictXY returns the points on the circle at the given angles in radians,
// one row per angle. It returns nil for no angles.
func (c *Circle) PredictXY(angles []float64) *mat.Dense {
	if len(angles) == 0 {
		return nil
	}
	out := mat.NewDense(len(angles), 2, nil)
	for i, t := range angles {
		out.Set(i, 0, c.CenterX+c.Radius*math.Cos(t))
		out.Set(i, 1, c.CenterY+c.Radius*math.Sin(t))
	}
	return out
}
