// Package detection finds lines and circles in images and point sets with
// RANSAC.
//
// Every detector follows the same pipeline:
//
//  1. Point extraction: Canny edge pixels from an image (EdgePoints), or
//     caller-supplied coordinates
//  2. Robust fitting: ransac.Estimate with a model family from package model
//  3. Result formatting: model parameters, consensus statistics and an inlier
//     mask relative to the input points
//
// FitLines extracts several lines by fitting, removing the consensus set and
// fitting again on what is left, until the requested count is reached or the
// remaining points no longer support a line.
//
// # Coordinate System
//
// Image coordinates put the origin at the top-left corner with X increasing
// rightward and Y increasing downward, so positive line angles slope
// downward to the right.
//
// # Reproducibility
//
// Options.Seed fixes the sampler seed. Two runs with the same seed, points
// and options return identical results regardless of Options.Workers. A zero
// seed draws from the clock.
package detection
