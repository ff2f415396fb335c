// Package imaging turns image files into point sets for robust fitting and
// renders fitted models back onto images.
//
// The pipeline is: load an image through ImageCache, optionally restrict it to
// a region of interest, compute a Canny edge map with EdgeMap, and collect the
// edge pixels with EdgePoints as an N×2 gonum matrix whose rows are (x, y).
// Fits produced from those points can be drawn with RenderOverlay, optionally
// over a labelled coordinate Grid.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Edge points taken from a cropped region are shifted back into the
// coordinates of the full image, so fits can be compared across regions.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Edge detection and overlay
// rendering never modify their input image and can run concurrently.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - Images without any edge pixels (ErrNoEdges)
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
