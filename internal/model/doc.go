// Package model provides the geometric model families fitted by the ransac
// estimator.
//
//   - Line: an infinite line in N dimensions, parameterized by an origin and a
//     unit direction. Unlike slope/intercept it represents vertical lines.
//   - Circle: a circle in the plane, parameterized by center and radius.
//
// Each family's Estimate accepts any number of points at or above its minimal
// sample size. With a minimal sample the fit is exact; with more points it is a
// least-squares fit, which is what the estimator uses to refine the winning
// model on its consensus set.
//
// Coordinates follow the image convention used by the imaging package: column 0
// is X (rightward), column 1 is Y (downward).
package model
