// Package ransac implements RANdom SAmple Consensus, a robust estimator that
// fits a parametric model to a point set containing outliers.
//
// The estimator repeatedly draws a minimal sample of distinct points, fits a
// candidate model to it, and scores the candidate by the number of points whose
// residual is within a threshold. The candidate with the largest consensus set
// wins; ties keep the candidate that was found first.
//
// # Models
//
// The estimator knows nothing about geometry. A model family supplies the
// minimal sample size and a way to build a model from a sample:
//
//	type Family[M Model] interface {
//	    MinSamples() int
//	    Estimate(sample mat.Matrix) (M, error)
//	}
//
// and the model reports one residual per point. Families signal a sample that
// does not determine a unique model (two identical points for a line, three
// collinear points for a circle) by returning an error wrapping ErrDegenerate.
// Such trials are skipped silently but still consume the trial budget. Any other
// error from a family aborts the run.
//
// # Point Sets
//
// Point sets are gonum matrices with one point per row and one coordinate per
// column. The estimator never modifies the input.
//
// # Reproducibility
//
// Sampling draws from a single random source that is created once per call.
// With a fixed Params.Source the result is fully deterministic, including when
// trials are evaluated on several workers: samples are always drawn in trial
// order and the reduction over candidates runs in trial order as well.
//
// # Stopping
//
// MaxTrials is the hard bound. StopProbability in (0, 1) enables the usual
// adaptive bound on the number of trials, and StopSampleNum ends the run as
// soon as a consensus set of that size is found. Neither is enabled by default.
package ransac
