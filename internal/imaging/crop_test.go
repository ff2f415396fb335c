package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestResolveRegion(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name   string
		region *Region
		named  string
		want   image.Rectangle
	}{
		{"whole image", nil, "", bounds},
		{"full", nil, "full", bounds},
		{"explicit", &Region{X1: 10, Y1: 20, X2: 30, Y2: 40}, "", image.Rect(10, 20, 30, 40)},
		{"explicit wins", &Region{X1: 0, Y1: 0, X2: 5, Y2: 5}, "center", image.Rect(0, 0, 5, 5)},
		{"top-left", nil, "top-left", image.Rect(0, 0, 50, 40)},
		{"top-right", nil, "top-right", image.Rect(50, 0, 100, 40)},
		{"bottom-left", nil, "bottom-left", image.Rect(0, 40, 50, 80)},
		{"bottom-right", nil, "bottom-right", image.Rect(50, 40, 100, 80)},
		{"top-half", nil, "top-half", image.Rect(0, 0, 100, 40)},
		{"bottom-half", nil, "bottom-half", image.Rect(0, 40, 100, 80)},
		{"left-half", nil, "left-half", image.Rect(0, 0, 50, 80)},
		{"right-half", nil, "right-half", image.Rect(50, 0, 100, 80)},
		{"center", nil, "center", image.Rect(25, 20, 75, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRegion(bounds, tt.region, tt.named)
			if err != nil {
				t.Fatalf("ResolveRegion failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveRegion_Errors(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	tests := []struct {
		name   string
		region *Region
		named  string
	}{
		{"outside", &Region{X1: 50, Y1: 50, X2: 150, Y2: 150}, ""},
		{"negative", &Region{X1: -10, Y1: 0, X2: 10, Y2: 10}, ""},
		{"inverted x", &Region{X1: 50, Y1: 0, X2: 10, Y2: 10}, ""},
		{"empty y", &Region{X1: 0, Y1: 10, X2: 10, Y2: 10}, ""},
		{"unknown name", nil, "middle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ResolveRegion(bounds, tt.region, tt.named); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := ResolveRegion(image.Rect(0, 0, 1, 1), nil, "top-left"); err == nil {
		t.Error("expected error for an empty quadrant of a 1x1 image")
	}
}

func TestCropRegion(t *testing.T) {
	img := solidImage(40, 30, color.White)
	img.Set(25, 12, color.Black)

	cropped, offset := CropRegion(img, image.Rect(20, 10, 30, 20))
	if cropped.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("cropped bounds: got %v", cropped.Bounds())
	}
	if offset != image.Pt(20, 10) {
		t.Errorf("offset: got %v, want (20,10)", offset)
	}

	r, _, _, _ := cropped.At(25-offset.X, 12-offset.Y).RGBA()
	if r != 0 {
		t.Errorf("cropped pixel should be black, got r=%d", r)
	}

	whole, offset := CropRegion(img, img.Bounds())
	if whole != image.Image(img) || offset != (image.Point{}) {
		t.Error("full-bounds crop should return the image unchanged")
	}
}

func TestCropRegion_EdgePointsInImageCoordinates(t *testing.T) {
	img := createEdgeTestImage(100, 100)
	rect := image.Rect(10, 10, 50, 90)

	cropped, offset := CropRegion(img, rect)
	points, err := EdgePoints(EdgeMap(cropped, 50, 150, 0), offset)
	if err != nil {
		t.Fatalf("EdgePoints failed: %v", err)
	}

	n, _ := points.Dims()
	for i := 0; i < n; i++ {
		p := image.Pt(int(points.At(i, 0)), int(points.At(i, 1)))
		if !p.In(rect) {
			t.Fatalf("edge point %v outside region %v", p, rect)
		}
	}
}
