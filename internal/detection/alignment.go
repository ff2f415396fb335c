package detection

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-ransac-mcp/internal/model"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// Point is a point in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AlignmentResult contains alignment check information
type AlignmentResult struct {
	// Collinear is true when every point lies within tolerance of the line
	// through some pair of the points (after refitting, when enabled). Sets
	// that only fit a line passing between the points, like a zigzag, are not
	// collinear.
	Collinear           bool    `json:"collinear"`
	HorizontallyAligned bool    `json:"horizontally_aligned"`
	VerticallyAligned   bool    `json:"vertically_aligned"`
	AngleDegrees        float64 `json:"angle_degrees"`
	MaxDeviation        float64 `json:"max_deviation"`
	HorizontalVariance  float64 `json:"horizontal_variance"`
	VerticalVariance    float64 `json:"vertical_variance"`
	AverageY            float64 `json:"average_y"`
	AverageX            float64 `json:"average_x"`

	// Outliers lists the indices of points off the best line.
	Outliers []int `json:"outliers"`
}

// CheckAlignment fits a robust line through points with tolerance as the inlier
// distance and reports which points stray from it. The spread statistics are
// population standard deviations of the inliers; a set is horizontally aligned
// when it is collinear and its Y spread is within tolerance, and likewise for
// vertical alignment and X.
func CheckAlignment(points []Point, tolerance float64, opts Options) (*AlignmentResult, error) {
	if tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance %v", ransac.ErrInvalidParams, tolerance)
	}
	if len(points) < 2 {
		res := &AlignmentResult{Collinear: true, HorizontallyAligned: true, VerticallyAligned: true, Outliers: []int{}}
		if len(points) == 1 {
			res.AverageX, res.AverageY = points[0].X, points[0].Y
		}
		return res, nil
	}

	rows := make([][]float64, len(points))
	for i, p := range points {
		rows[i] = []float64{p.X, p.Y}
	}
	set, err := ransac.NewPointSet(rows)
	if err != nil {
		return nil, err
	}

	opts.ResidualThreshold = tolerance
	opts.StopInliers = len(points)
	fit, err := ransac.Estimate(set, model.LineFamily{}, opts.params())
	switch {
	case errors.Is(err, ransac.ErrNoConsensus):
		// Every sample was degenerate: all points coincide.
		return &AlignmentResult{
			Collinear: true, HorizontallyAligned: true, VerticallyAligned: true,
			AverageX: round2(points[0].X), AverageY: round2(points[0].Y),
			Outliers: []int{},
		}, nil
	case err != nil:
		return nil, err
	}

	var xs, ys []float64
	for i, in := range fit.Inliers {
		if in {
			xs = append(xs, points[i].X)
			ys = append(ys, points[i].Y)
		}
	}

	maxDev := 0.0
	for i, r := range fit.Model.Residuals(set) {
		if fit.Inliers[i] {
			maxDev = math.Max(maxDev, r)
		}
	}

	collinear := fit.InlierCount == len(points)
	sdX, sdY := stat.PopStdDev(xs, nil), stat.PopStdDev(ys, nil)

	return &AlignmentResult{
		Collinear:           collinear,
		HorizontallyAligned: collinear && sdY <= tolerance,
		VerticallyAligned:   collinear && sdX <= tolerance,
		AngleDegrees:        math.Round(fit.Model.AngleDegrees()*10) / 10,
		MaxDeviation:        round2(maxDev),
		HorizontalVariance:  round2(sdY),
		VerticalVariance:    round2(sdX),
		AverageY:            round2(stat.Mean(ys, nil)),
		AverageX:            round2(stat.Mean(xs, nil)),
		Outliers:            fit.OutlierIndices(),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
