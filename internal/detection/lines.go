package detection

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-ransac-mcp/internal/model"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// LineFit is a robustly fitted line.
type LineFit struct {
	Line *model.Line `json:"line"`

	// AngleDegrees is set for planar lines only. See model.Line.AngleDegrees.
	AngleDegrees *float64 `json:"angle_degrees,omitempty"`

	// Start and End bound the projections of the inliers onto the line.
	Start  []float64 `json:"start"`
	End    []float64 `json:"end"`
	Length float64   `json:"length"`

	FitStats

	// Inliers is the consensus mask over the input points.
	Inliers []bool `json:"-"`
}

// LinesResult contains lines found by sequential extraction.
type LinesResult struct {
	Lines []*LineFit `json:"lines"`
	Count int        `json:"count"`

	// Unassigned is the number of points not claimed by any line.
	Unassigned  int `json:"unassigned_points"`
	TotalPoints int `json:"total_points"`
	Trials      int `json:"trials"`
}

// FitLine fits one line to points, which may have any dimension of two or more.
func FitLine(points *mat.Dense, opts Options) (*LineFit, error) {
	res, err := ransac.Estimate(points, model.LineFamily{}, opts.params())
	if err != nil {
		return nil, err
	}
	return newLineFit(points, res.Model, res.Inliers, statsOf(res)), nil
}

// FitLines extracts up to maxLines lines. After each fit its inliers are removed
// and the next line is fitted to the remaining points. Extraction stops early
// when fewer than two points remain, no consensus is found, or the best line
// has fewer than minInliers inliers. Failing to find any consensus at all is an
// error; a first line below minInliers is not.
func FitLines(points *mat.Dense, maxLines, minInliers int, opts Options) (*LinesResult, error) {
	if maxLines < 1 {
		return nil, fmt.Errorf("%w: max lines %d", ransac.ErrInvalidParams, maxLines)
	}
	total, _ := points.Dims()
	log := opts.logger()

	result := &LinesResult{Lines: []*LineFit{}, TotalPoints: total, Unassigned: total}
	remaining := points
	index := make([]int, total)
	for i := range index {
		index[i] = i
	}

	for len(result.Lines) < maxLines && remaining != nil {
		if n, _ := remaining.Dims(); n < 2 {
			break
		}

		res, err := ransac.Estimate(remaining, model.LineFamily{}, opts.params())
		result.Trials += trialsOf(res, err)
		if err != nil {
			if errors.Is(err, ransac.ErrNoConsensus) && len(result.Lines) > 0 {
				log.Debug("line extraction ended without consensus", "found", len(result.Lines))
				break
			}
			return nil, fmt.Errorf("line %d: %w", len(result.Lines)+1, err)
		}
		if res.InlierCount < minInliers {
			log.Debug("line extraction ended below minimum support",
				"found", len(result.Lines), "inliers", res.InlierCount, "min_inliers", minInliers)
			break
		}

		// Map the consensus set back onto the original points.
		mask := make([]bool, total)
		for _, i := range res.InlierIndices() {
			mask[index[i]] = true
		}
		stats := statsOf(res)
		stats.TotalPoints = total
		result.Lines = append(result.Lines, newLineFit(points, res.Model, mask, stats))
		result.Unassigned -= res.InlierCount
		log.Debug("extracted line", "line", len(result.Lines), "inliers", res.InlierCount, "remaining", result.Unassigned)

		keep, rest := ransac.Select(remaining, res.Inliers, false)
		next := make([]int, len(keep))
		for j, i := range keep {
			next[j] = index[i]
		}
		index, remaining = next, rest
	}

	result.Count = len(result.Lines)
	return result, nil
}

func trialsOf[M ransac.Model](res *ransac.Result[M], err error) int {
	if err != nil || res == nil {
		return 0
	}
	return res.Trials
}

func newLineFit(points mat.Matrix, l *model.Line, mask []bool, stats FitStats) *LineFit {
	fit := &LineFit{Line: l, FitStats: stats, Inliers: mask}
	if len(l.Direction) == 2 {
		a := l.AngleDegrees()
		fit.AngleDegrees = &a
	}

	tMin, tMax := math.Inf(1), math.Inf(-1)
	_, d := points.Dims()
	p := make([]float64, d)
	for i, in := range mask {
		if !in {
			continue
		}
		mat.Row(p, i, points)
		t := l.Project(p)
		tMin = math.Min(tMin, t)
		tMax = math.Max(tMax, t)
	}
	if tMin > tMax {
		tMin, tMax = 0, 0
	}
	fit.Start = l.At(tMin)
	fit.End = l.At(tMax)
	fit.Length = floats.Distance(fit.Start, fit.End, 2)
	return fit
}

// Mask returns the consensus mask over the input points.
func (f *LineFit) Mask() []bool { return f.Inliers }

// Curve returns the part of a planar line that spans bounds, as two rows.
// It returns nil for lines that are not planar.
func (f *LineFit) Curve(bounds image.Rectangle) *mat.Dense {
	if len(f.Line.Origin) != 2 {
		return nil
	}
	corners := [][]float64{
		{float64(bounds.Min.X), float64(bounds.Min.Y)},
		{float64(bounds.Max.X - 1), float64(bounds.Min.Y)},
		{float64(bounds.Min.X), float64(bounds.Max.Y - 1)},
		{float64(bounds.Max.X - 1), float64(bounds.Max.Y - 1)},
	}
	tMin, tMax := math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		t := f.Line.Project(c)
		tMin = math.Min(tMin, t)
		tMax = math.Max(tMax, t)
	}
	start, end := f.Line.At(tMin), f.Line.At(tMax)
	return mat.NewDense(2, 2, []float64{start[0], start[1], end[0], end[1]})
}
