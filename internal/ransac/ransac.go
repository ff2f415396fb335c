package ransac

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Model is a fitted model instance. Residuals returns one non-negative distance
// per row of points and must be a pure function of the model and the point.
type Model interface {
	Residuals(points mat.Matrix) []float64
}

// Family builds models of one kind from point samples.
type Family[M Model] interface {
	// MinSamples is the number of points needed to determine a unique model.
	MinSamples() int

	// Estimate fits a model to the sample. It returns an error wrapping
	// ErrDegenerate when the sample does not determine a unique model.
	Estimate(sample mat.Matrix) (M, error)
}

// Params controls an estimation run.
type Params struct {
	// MinSamples is the sample size per trial. Zero uses the family minimum.
	MinSamples int

	// ResidualThreshold is the largest residual a point may have and still
	// count as an inlier.
	ResidualThreshold float64

	// MaxTrials bounds the number of sampling iterations.
	MaxTrials int

	// StopProbability enables adaptive stopping when it lies in (0, 1). Zero
	// and one both run the full trial budget.
	StopProbability float64

	// StopSampleNum stops the run once the best consensus set has at least
	// this many points. Zero disables it.
	StopSampleNum int

	// Refit re-estimates the winning model from all of its inliers.
	Refit bool

	// Workers is the number of goroutines evaluating trials. Values below two
	// evaluate sequentially.
	Workers int

	// Source seeds the sampler. Nil uses a time-seeded source.
	Source rand.Source

	// Sampler overrides Source when set. It must draw distinct indices from
	// [0, N).
	Sampler Sampler

	// IsSampleValid rejects a sample before fitting. A rejected sample is
	// treated like a degenerate one.
	IsSampleValid func(sample mat.Matrix) bool

	// IsModelValid rejects a fitted candidate. A rejected candidate is treated
	// like a degenerate sample.
	IsModelValid func(model Model, sample mat.Matrix) bool

	// OnTrial is called once per consumed trial, in trial order.
	OnTrial func(TrialReport)

	Logger *slog.Logger
}

// TrialReport describes one consumed trial.
type TrialReport struct {
	Trial       int  // 1-based trial number
	Degenerate  bool // no candidate was produced
	Inliers     int  // inlier count of the candidate, 0 when degenerate
	BestInliers int  // best inlier count after this trial, -1 before any candidate
	Improved    bool // the candidate became the new best
}

// Result is the outcome of a successful run.
type Result[M Model] struct {
	Model       M
	Inliers     []bool
	InlierCount int

	// Trials is the number of trials consumed, including degenerate ones.
	Trials int

	// Degenerate is the number of trials that produced no candidate.
	Degenerate int

	// BestTrial is the 1-based trial that produced the winning candidate.
	BestTrial int

	// Refined reports whether Model was refit on the consensus set.
	Refined bool
}

// InlierIndices returns the indices of the consensus set in ascending order.
func (r *Result[M]) InlierIndices() []int {
	return maskIndices(r.Inliers, true)
}

// OutlierIndices returns the indices of points outside the consensus set.
func (r *Result[M]) OutlierIndices() []int {
	return maskIndices(r.Inliers, false)
}

func maskIndices(mask []bool, want bool) []int {
	out := make([]int, 0, len(mask))
	for i, m := range mask {
		if m == want {
			out = append(out, i)
		}
	}
	return out
}

type candidate[M Model] struct {
	model M
	mask  []bool
	count int
	ok    bool
	err   error
}

// Estimate robustly fits a model of the given family to points.
//
// It returns ErrInsufficientData when points has fewer rows than the sample
// size, ErrNoConsensus when no trial produced a candidate, and
// ErrInvalidParams for out-of-range parameters.
func Estimate[M Model](points *mat.Dense, family Family[M], p Params) (*Result[M], error) {
	if points == nil || family == nil {
		return nil, fmt.Errorf("%w: points and family are required", ErrInvalidParams)
	}
	minSamples, err := validate(family, &p)
	if err != nil {
		return nil, err
	}
	n, _ := points.Dims()
	if n < minSamples {
		return nil, fmt.Errorf("%w: %d points, need at least %d", ErrInsufficientData, n, minSamples)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sampler := p.Sampler
	if sampler == nil {
		sampler = NewRandomSampler(n, p.Source)
	}
	batch := 1
	if p.Workers > 1 {
		batch = p.Workers
	}

	var (
		best       candidate[M]
		bestCount  = -1
		bestTrial  int
		trial      int
		degenerate int
		limit      = p.MaxTrials
	)

	for trial < limit {
		size := min(batch, limit-trial)
		samples := make([][]int, size)
		for i := range samples {
			samples[i] = sampler.Sample(make([]int, minSamples))
		}
		results := evaluate(points, family, &p, samples)

		for i := 0; i < len(results) && trial < limit; i++ {
			c := results[i]
			trial++
			if c.err != nil {
				return nil, fmt.Errorf("ransac: trial %d: %w", trial, c.err)
			}

			report := TrialReport{Trial: trial, Degenerate: !c.ok, Inliers: c.count}
			if !c.ok {
				degenerate++
			} else if c.count > bestCount {
				best, bestCount, bestTrial = c, c.count, trial
				report.Improved = true
				if k := dynamicMaxTrials(bestCount, n, minSamples, p.StopProbability); k < limit {
					limit = max(k, trial)
				}
			}
			report.BestInliers = bestCount
			if p.OnTrial != nil {
				p.OnTrial(report)
			}
			if p.StopSampleNum > 0 && bestCount >= p.StopSampleNum {
				limit = trial
			}
		}
	}

	if !best.ok {
		logger.Debug("ransac finished without consensus", "points", n, "trials", trial, "degenerate", degenerate)
		return nil, fmt.Errorf("%w: %d trials, %d degenerate", ErrNoConsensus, trial, degenerate)
	}

	res := &Result[M]{
		Model:       best.model,
		Inliers:     best.mask,
		InlierCount: best.count,
		Trials:      trial,
		Degenerate:  degenerate,
		BestTrial:   bestTrial,
	}
	if p.Refit && res.InlierCount >= minSamples {
		_, inliers := Select(points, res.Inliers, true)
		refit, err := family.Estimate(inliers)
		switch {
		case err == nil:
			res.Model = refit
			res.Refined = true
		case !errors.Is(err, ErrDegenerate):
			return nil, fmt.Errorf("ransac: refit: %w", err)
		}
	}

	logger.Debug("ransac finished",
		"points", n,
		"trials", trial,
		"degenerate", degenerate,
		"inliers", res.InlierCount,
		"best_trial", bestTrial,
		"refined", res.Refined,
	)
	return res, nil
}

func validate[M Model](family Family[M], p *Params) (int, error) {
	minSamples := family.MinSamples()
	if p.MinSamples != 0 {
		if p.MinSamples < minSamples {
			return 0, fmt.Errorf("%w: min samples %d below model minimum %d", ErrInvalidParams, p.MinSamples, minSamples)
		}
		minSamples = p.MinSamples
	}
	if minSamples < 1 {
		return 0, fmt.Errorf("%w: min samples must be positive", ErrInvalidParams)
	}
	if p.ResidualThreshold < 0 || math.IsNaN(p.ResidualThreshold) {
		return 0, fmt.Errorf("%w: residual threshold %v", ErrInvalidParams, p.ResidualThreshold)
	}
	if p.MaxTrials <= 0 {
		return 0, fmt.Errorf("%w: max trials %d", ErrInvalidParams, p.MaxTrials)
	}
	if p.StopProbability < 0 || p.StopProbability > 1 || math.IsNaN(p.StopProbability) {
		return 0, fmt.Errorf("%w: stop probability %v", ErrInvalidParams, p.StopProbability)
	}
	if p.StopSampleNum < 0 {
		return 0, fmt.Errorf("%w: stop sample num %d", ErrInvalidParams, p.StopSampleNum)
	}
	return minSamples, nil
}

// evaluate scores one candidate per sample. Results are indexed like samples.
func evaluate[M Model](points *mat.Dense, family Family[M], p *Params, samples [][]int) []candidate[M] {
	out := make([]candidate[M], len(samples))
	if len(samples) == 1 {
		out[0] = score(points, family, p, samples[0])
		return out
	}

	var g errgroup.Group
	g.SetLimit(p.Workers)
	for i, idx := range samples {
		i, idx := i, idx
		g.Go(func() error {
			out[i] = score(points, family, p, idx)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func score[M Model](points *mat.Dense, family Family[M], p *Params, idx []int) candidate[M] {
	sample := Rows(points, idx)
	if p.IsSampleValid != nil && !p.IsSampleValid(sample) {
		return candidate[M]{}
	}
	m, err := family.Estimate(sample)
	if err != nil {
		if errors.Is(err, ErrDegenerate) {
			return candidate[M]{}
		}
		return candidate[M]{err: err}
	}
	if p.IsModelValid != nil && !p.IsModelValid(m, sample) {
		return candidate[M]{}
	}

	n, _ := points.Dims()
	residuals := m.Residuals(points)
	if len(residuals) != n {
		return candidate[M]{err: fmt.Errorf("model returned %d residuals for %d points", len(residuals), n)}
	}
	mask := make([]bool, n)
	count := 0
	for i, r := range residuals {
		if r <= p.ResidualThreshold {
			mask[i] = true
			count++
		}
	}
	return candidate[M]{model: m, mask: mask, count: count, ok: true}
}

// dynamicMaxTrials is the number of trials after which a sample free of
// outliers has been drawn with the given probability, assuming the current
// inlier ratio. It returns math.MaxInt when stopping is disabled or no bound
// applies.
func dynamicMaxTrials(inliers, n, minSamples int, probability float64) int {
	if probability <= 0 || probability >= 1 || inliers <= 0 {
		return math.MaxInt
	}
	ratio := float64(inliers) / float64(n)
	denom := 1 - math.Pow(ratio, float64(minSamples))
	switch {
	case denom <= 0:
		return 1
	case denom >= 1:
		return math.MaxInt
	}
	k := math.Ceil(math.Log(1-probability) / math.Log(denom))
	if k >= math.MaxInt32 {
		return math.MaxInt
	}
	return max(int(k), 1)
}
