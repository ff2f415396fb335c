package detection

import (
	"image"
	"io"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-ransac-mcp/internal/imaging"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// Options holds the estimator settings shared by all detectors.
type Options struct {
	ResidualThreshold float64
	MaxTrials         int
	StopProbability   float64

	// StopInliers ends a fit early once this many inliers are found.
	StopInliers int

	Workers int
	Seed    int64
	Refit   bool
	Logger  *slog.Logger
}

func (o Options) params() ransac.Params {
	var src rand.Source
	if o.Seed != 0 {
		src = rand.NewSource(o.Seed)
	}
	return ransac.Params{
		ResidualThreshold: o.ResidualThreshold,
		MaxTrials:         o.MaxTrials,
		StopProbability:   o.StopProbability,
		StopSampleNum:     o.StopInliers,
		Refit:             o.Refit,
		Workers:           o.Workers,
		Source:            src,
		Logger:            o.Logger,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// FitStats summarizes an estimation run.
type FitStats struct {
	InlierCount      int  `json:"inlier_count"`
	TotalPoints      int  `json:"total_points"`
	Trials           int  `json:"trials"`
	DegenerateTrials int  `json:"degenerate_trials"`
	Refined          bool `json:"refined"`
}

func statsOf[M ransac.Model](res *ransac.Result[M]) FitStats {
	return FitStats{
		InlierCount:      res.InlierCount,
		TotalPoints:      len(res.Inliers),
		Trials:           res.Trials,
		DegenerateTrials: res.Degenerate,
		Refined:          res.Refined,
	}
}

// EdgeOptions selects the edge pixels of an image that become fit points.
type EdgeOptions struct {
	ThresholdLow  int
	ThresholdHigh int
	Sigma         float64

	// Region restricts detection to a rectangle. It wins over RegionName.
	Region *imaging.Region

	// RegionName is a named region such as "top-left" or "center".
	RegionName string
}

// EdgePoints returns the Canny edge pixels of img inside the selected region,
// in full-image coordinates, along with the region used.
func EdgePoints(img image.Image, e EdgeOptions) (*mat.Dense, image.Rectangle, error) {
	rect, err := imaging.ResolveRegion(img.Bounds(), e.Region, e.RegionName)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	cropped, offset := imaging.CropRegion(img, rect)
	points, err := imaging.EdgePoints(imaging.EdgeMap(cropped, e.ThresholdLow, e.ThresholdHigh, e.Sigma), offset)
	if err != nil {
		return nil, rect, err
	}
	return points, rect, nil
}
