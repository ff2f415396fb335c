package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangle in image coordinates. (X1,Y1) is inclusive and
// (X2,Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// ResolveRegion picks the area of interest inside bounds. An explicit region
// wins over a named one; with neither, the whole image is used.
//
// Named regions are top-left, top-right, bottom-left, bottom-right, top-half,
// bottom-half, left-half, right-half and center (the middle 50%).
func ResolveRegion(bounds image.Rectangle, region *Region, name string) (image.Rectangle, error) {
	if region != nil {
		r := region.Rect()
		if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
			return image.Rectangle{}, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		if !r.In(bounds) {
			return image.Rectangle{}, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		return r, nil
	}
	if name == "" || name == "full" {
		return bounds, nil
	}

	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int
	switch name {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", name)
	}

	r := image.Rect(x1, y1, x2, y2).Add(bounds.Min)
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %s is empty for a %dx%d image", name, w, h)
	}
	return r, nil
}

// CropRegion returns the part of img inside rect and the offset that maps the
// cropped image's coordinates back to img's. The whole image is returned
// unchanged when rect covers it.
func CropRegion(img image.Image, rect image.Rectangle) (image.Image, image.Point) {
	bounds := img.Bounds()
	if rect.Eq(bounds) {
		return img, bounds.Min
	}
	return imaging.Crop(img, rect), rect.Min
}
