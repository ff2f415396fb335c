package detection

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-ransac-mcp/internal/model"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

const (
	// curveSegments is the number of chords used to draw a circle.
	curveSegments = 360

	// coverageBins splits the circumference into 10 degree arcs.
	coverageBins = 36
)

// CircleFit is a robustly fitted circle.
type CircleFit struct {
	Circle *model.Circle `json:"circle"`

	// Coverage is the fraction of 10 degree arcs of the circumference, in
	// [0, 1], that contain at least one inlier.
	Coverage float64 `json:"coverage"`

	FitStats

	// Inliers is the consensus mask over the input points.
	Inliers []bool `json:"-"`
}

// FitCircle fits one circle to planar points.
func FitCircle(points *mat.Dense, opts Options) (*CircleFit, error) {
	res, err := ransac.Estimate(points, model.CircleFamily{}, opts.params())
	if err != nil {
		return nil, err
	}
	return &CircleFit{
		Circle:   res.Model,
		Coverage: coverage(points, res.Model, res.Inliers),
		FitStats: statsOf(res),
		Inliers:  res.Inliers,
	}, nil
}

func coverage(points mat.Matrix, c *model.Circle, mask []bool) float64 {
	var bins [coverageBins]bool
	for i, in := range mask {
		if !in {
			continue
		}
		a := math.Atan2(points.At(i, 1)-c.CenterY, points.At(i, 0)-c.CenterX)
		b := int(math.Floor((a + math.Pi) / (2 * math.Pi) * coverageBins))
		bins[min(b, coverageBins-1)] = true
	}
	n := 0
	for _, hit := range bins {
		if hit {
			n++
		}
	}
	return float64(n) / coverageBins
}

// Mask returns the consensus mask over the input points.
func (f *CircleFit) Mask() []bool { return f.Inliers }

// Curve returns a closed polyline around the circle.
func (f *CircleFit) Curve(image.Rectangle) *mat.Dense {
	angles := make([]float64, curveSegments+1)
	floats.Span(angles, 0, 2*math.Pi)
	return f.Circle.PredictXY(angles)
}
