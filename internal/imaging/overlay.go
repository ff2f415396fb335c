package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// Layer is one set of marks drawn by RenderOverlay.
type Layer struct {
	// Points are drawn as single pixels. Rows are (x, y).
	Points mat.Matrix

	// Curve is drawn as a polyline through its rows in order. Rows are (x, y).
	Curve mat.Matrix

	// Grid, when set, blends a coordinate grid in Color over the image.
	Grid *Grid

	Color color.Color
}

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// RenderOverlay draws the layers in order on a copy of img and encodes the
// result as a PNG. Marks outside the image are clipped.
func RenderOverlay(img image.Image, layers []Layer) (*OverlayResult, error) {
	canvas := imaging.Clone(img)
	offset := img.Bounds().Min

	for _, layer := range layers {
		if layer.Grid != nil {
			drawGrid(canvas, offset, layer.Grid, layer.Color)
		}
		c := color.NRGBAModel.Convert(layer.Color).(color.NRGBA)
		if layer.Points != nil {
			n, _ := layer.Points.Dims()
			for i := 0; i < n; i++ {
				x, y := pixel(layer.Points, i, offset)
				setClipped(canvas, x, y, c)
			}
		}
		if layer.Curve != nil {
			n, _ := layer.Curve.Dims()
			for i := 1; i < n; i++ {
				x0, y0 := pixel(layer.Curve, i-1, offset)
				x1, y1 := pixel(layer.Curve, i, offset)
				drawSegment(canvas, x0, y0, x1, y1, c)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	b := canvas.Bounds()
	return &OverlayResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ParseColor parses a hex color like "#FF0000", "FF0000" or "#F00".
func ParseColor(hex string) (color.Color, error) {
	if hex == "" {
		return nil, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ColorOrDefault parses hex, falling back to def when hex is empty or invalid.
func ColorOrDefault(hex string, def color.Color) color.Color {
	c, err := ParseColor(hex)
	if err != nil {
		return def
	}
	return c
}

// Palette returns n well separated, fully saturated colors by spacing hues
// evenly around the HSV wheel, starting at red.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		c := colorful.Hsv(float64(i)*360/float64(n), 0.9, 0.95).Clamped()
		r, g, b := c.RGB255()
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// pixel rounds row i of m to canvas coordinates.
func pixel(m mat.Matrix, i int, offset image.Point) (int, int) {
	return int(math.Round(m.At(i, 0))) - offset.X, int(math.Round(m.At(i, 1))) - offset.Y
}

func setClipped(img *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// drawSegment rasterizes a segment with Bresenham's algorithm.
func drawSegment(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setClipped(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
