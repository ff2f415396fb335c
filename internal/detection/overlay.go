package detection

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/image-ransac-mcp/internal/imaging"
	"github.com/ironsheep/image-ransac-mcp/internal/ransac"
)

// Fit is a fitted model that can be drawn over the points it was fitted to.
type Fit interface {
	Mask() []bool
	Curve(bounds image.Rectangle) *mat.Dense
}

// OverlayStyle sets the colors used by RenderOverlay.
type OverlayStyle struct {
	Inlier  color.Color
	Outlier color.Color
	Model   color.Color

	// GridSpacing draws a labelled coordinate grid under the points when
	// positive.
	GridSpacing int
	Grid        color.Color
}

// DefaultOverlayStyle draws inliers green, outliers red and models blue,
// without a grid.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Inlier:  color.NRGBA{0, 200, 0, 255},
		Outlier: color.NRGBA{255, 0, 0, 255},
		Model:   color.NRGBA{0, 100, 255, 255},
		Grid:    color.NRGBA{128, 128, 128, 128},
	}
}

// RenderOverlay draws points and fits on a copy of img. Points claimed by no
// fit use the outlier color. A single fit's inliers use the inlier color;
// with several fits each gets its own palette color. Model curves are clipped
// to bounds and drawn last.
func RenderOverlay(img image.Image, points *mat.Dense, fits []Fit, bounds image.Rectangle, style OverlayStyle) (*imaging.OverlayResult, error) {
	n, _ := points.Dims()
	claimed := make([]bool, n)
	for _, f := range fits {
		for i, in := range f.Mask() {
			claimed[i] = claimed[i] || in
		}
	}

	colors := []color.Color{style.Inlier}
	if len(fits) > 1 {
		colors = imaging.Palette(len(fits))
	}

	layers := make([]imaging.Layer, 0, 2*len(fits)+2)
	if style.GridSpacing > 0 {
		layers = append(layers, imaging.Layer{Grid: &imaging.Grid{Spacing: style.GridSpacing, Labels: true}, Color: style.Grid})
	}
	if _, outliers := ransac.Select(points, claimed, false); outliers != nil {
		layers = append(layers, imaging.Layer{Points: outliers, Color: style.Outlier})
	}
	for i, f := range fits {
		if _, inliers := ransac.Select(points, f.Mask(), true); inliers != nil {
			layers = append(layers, imaging.Layer{Points: inliers, Color: colors[i]})
		}
	}
	for _, f := range fits {
		if curve := f.Curve(bounds); curve != nil {
			layers = append(layers, imaging.Layer{Curve: curve, Color: style.Model})
		}
	}
	return imaging.RenderOverlay(img, layers)
}
