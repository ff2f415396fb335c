package ransac

import "errors"

var (
	// ErrInsufficientData is returned when the point set has fewer points than
	// the minimal sample size.
	ErrInsufficientData = errors.New("ransac: insufficient data")

	// ErrNoConsensus is returned when the trial budget is exhausted without a
	// single valid candidate model.
	ErrNoConsensus = errors.New("ransac: no consensus model found")

	// ErrDegenerate is returned by model families when a sample does not
	// determine a unique model.
	ErrDegenerate = errors.New("ransac: degenerate sample")

	// ErrInvalidParams is returned for out-of-range estimator parameters.
	ErrInvalidParams = errors.New("ransac: invalid parameters")
)
