package detection

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func assertColor(t *testing.T, want color.Color, got color.Color, msgAndArgs ...interface{}) {
	t.Helper()
	wr, wg, wb, _ := want.RGBA()
	gr, gg, gb, _ := got.RGBA()
	assert.Equal(t, [3]uint32{wr, wg, wb}, [3]uint32{gr, gg, gb}, msgAndArgs...)
}

func TestRenderOverlay_SingleLine(t *testing.T) {
	img := createTestImage(20, 20, color.White)
	var data []float64
	for x := 0; x < 10; x++ {
		data = append(data, float64(x), 5)
	}
	data = append(data, 15, 15)
	points := mat.NewDense(len(data)/2, 2, data)

	fit, err := FitLine(points, testOptions(0.5))
	require.NoError(t, err)

	style := DefaultOverlayStyle()
	result, err := RenderOverlay(img, points, []Fit{fit}, img.Bounds(), style)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Width)

	out := decodePNG(t, result.ImageBase64)
	assertColor(t, style.Outlier, out.At(15, 15), "outlier")
	// The model is drawn across the full width, over the inliers.
	assertColor(t, style.Model, out.At(3, 5), "model over inlier")
	assertColor(t, style.Model, out.At(19, 5), "model beyond inliers")
	assertColor(t, color.White, out.At(3, 10), "background")
}

func TestRenderOverlay_MultipleFits(t *testing.T) {
	img := createTestImage(100, 100, color.Black)
	points := twoLines()

	result, err := FitLines(points, 2, 20, testOptions(1))
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)

	fits := []Fit{result.Lines[0], result.Lines[1]}
	style := OverlayStyle{
		Inlier:  color.White,
		Outlier: color.NRGBA{255, 0, 0, 255},
		Model:   color.NRGBA{0, 0, 255, 255},
	}
	overlay, err := RenderOverlay(img, points, fits, img.Bounds(), style)
	require.NoError(t, err)

	out := decodePNG(t, overlay.ImageBase64)
	assertColor(t, style.Outlier, out.At(5, 95), "outlier")
	assertColor(t, style.Model, out.At(50, 10), "first model")
	assertColor(t, style.Model, out.At(50, 90), "second model")
	assertColor(t, color.Black, out.At(30, 30), "background")
}

func TestRenderOverlay_Circle(t *testing.T) {
	img := createTestImage(30, 30, color.White)
	points := mat.NewDense(4, 2, []float64{25, 15, 15, 25, 5, 15, 15, 5})

	fit, err := FitCircle(points, testOptions(0.1))
	require.NoError(t, err)

	style := DefaultOverlayStyle()
	result, err := RenderOverlay(img, points, []Fit{fit}, img.Bounds(), style)
	require.NoError(t, err)

	out := decodePNG(t, result.ImageBase64)
	assertColor(t, style.Model, out.At(25, 15))
	assertColor(t, style.Model, out.At(15, 5))
	assertColor(t, color.White, out.At(15, 15), "center")
}

func TestRenderOverlay_Grid(t *testing.T) {
	img := createTestImage(20, 20, color.White)
	points := mat.NewDense(3, 2, []float64{0, 5, 8, 5, 16, 5})

	fit, err := FitLine(points, testOptions(0.5))
	require.NoError(t, err)

	style := DefaultOverlayStyle()
	style.GridSpacing = 10
	result, err := RenderOverlay(img, points, []Fit{fit}, img.Bounds(), style)
	require.NoError(t, err)

	out := decodePNG(t, result.ImageBase64)
	r, _, _, _ := out.At(10, 15).RGBA()
	assert.Less(t, r, uint32(0xffff), "grid line")
	assertColor(t, color.White, out.At(5, 15), "between grid lines")
	// Models are drawn over the grid.
	assertColor(t, style.Model, out.At(10, 5), "model over grid")
}
