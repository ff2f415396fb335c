package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// ErrNoEdges is returned by EdgePoints when the edge map is empty.
var ErrNoEdges = errors.New("no edge pixels found")

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of white pixels in the edge image.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs EdgeMap and encodes the result as a PNG.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int, sigma float64) (*EdgeDetectResult, error) {
	edges := EdgeMap(img, thresholdLow, thresholdHigh, sigma)

	var buf bytes.Buffer
	if err := png.Encode(&buf, edges); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	b := edges.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		EdgePixels:  countEdges(edges),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// EdgeMap performs Canny edge detection and returns a binary edge image whose
// bounds start at (0, 0).
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Low hysteresis threshold (0-255). Typical value: 50.
//   - thresholdHigh: High hysteresis threshold (0-255). Typical value: 150.
//   - sigma: Gaussian smoothing radius. 0 disables smoothing.
//
// # Algorithm
//
//  1. Grayscale conversion with ITU-R BT.601 weights
//  2. Gaussian blur with the given radius
//  3. Sobel gradients, magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: pixels above thresholdHigh are kept; pixels between the
//     thresholds are kept only next to a strong pixel
func EdgeMap(img image.Image, thresholdLow, thresholdHigh int, sigma float64) *image.Gray {
	var smoothed image.Image = imaging.Grayscale(img)
	if sigma > 0 {
		smoothed = blur.Gaussian(smoothed, sigma)
	}

	bounds := smoothed.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			// Channels are equal after grayscale conversion.
			r, _, _, _ := smoothed.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum[y][x] = float64(r>>8) / 255.0
		}
	}

	magnitude, direction := sobel(lum, width, height)
	suppressed := suppressNonMaxima(magnitude, direction, width, height)

	result := image.NewGray(image.Rect(0, 0, width, height))
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				result.SetGray(x, y, color.Gray{255})
			} else if val >= lowThresh && hasStrongNeighbor(suppressed, x, y, width, height, highThresh) {
				result.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return result
}

// EdgePoints collects the edge pixels of an edge map as an N×2 matrix with
// one (x, y) row per pixel, scanning rows top to bottom. offset is added to
// every coordinate.
func EdgePoints(edges *image.Gray, offset image.Point) (*mat.Dense, error) {
	b := edges.Bounds()
	var data []float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if edges.GrayAt(x, y).Y == 0 {
				continue
			}
			data = append(data, float64(x+offset.X), float64(y+offset.Y))
		}
	}
	if len(data) == 0 {
		return nil, ErrNoEdges
	}
	return mat.NewDense(len(data)/2, 2, data), nil
}

func countEdges(edges *image.Gray) int {
	n := 0
	for _, v := range edges.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel returns gradient magnitude and direction with replicated borders.
func sobel(lum [][]float64, width, height int) (magnitude, direction [][]float64) {
	magnitude = make([][]float64, height)
	direction = make([][]float64, height)

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// suppressNonMaxima keeps only pixels that are local maxima along their
// gradient direction. The one-pixel border is always suppressed.
func suppressNonMaxima(magnitude, direction [][]float64, width, height int) [][]float64 {
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}
	return suppressed
}

func hasStrongNeighbor(suppressed [][]float64, x, y, width, height int, highThresh float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if suppressed[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] >= highThresh {
				return true
			}
		}
	}
	return false
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
