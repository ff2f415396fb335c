package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"
)

// Grid is a coordinate grid drawn under fitted models so that pixel positions
// can be read off an overlay.
type Grid struct {
	// Spacing is the distance between grid lines in pixels. Positive values
	// below MinGridSpacing are raised to it.
	Spacing int

	// Labels prints "x,y" at each intersection.
	Labels bool
}

// MinGridSpacing is the closest two grid lines are drawn.
const MinGridSpacing = 10

var (
	labelFG = color.NRGBA{255, 255, 255, 255}
	labelBG = color.NRGBA{0, 0, 0, 180}
)

// drawGrid blends grid lines onto canvas at every multiple of the spacing in
// image coordinates. origin is the image coordinate of the canvas origin.
func drawGrid(canvas *image.NRGBA, origin image.Point, g *Grid, c color.Color) {
	if g.Spacing <= 0 {
		return
	}
	spacing := max(g.Spacing, MinGridSpacing)
	b := canvas.Bounds()
	src := image.NewUniform(c)

	xs := gridLines(origin.X, b.Dx(), spacing)
	ys := gridLines(origin.Y, b.Dy(), spacing)
	for _, x := range xs {
		draw.Draw(canvas, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
	}
	for _, y := range ys {
		draw.Draw(canvas, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	}

	if !g.Labels {
		return
	}
	for _, y := range ys {
		for _, x := range xs {
			label := strconv.Itoa(x+origin.X) + "," + strconv.Itoa(y+origin.Y)
			drawLabel(canvas, x+2, y+2, label)
		}
	}
}

// gridLines returns the canvas positions in [0, size) whose image coordinate
// start+pos is a positive multiple of spacing.
func gridLines(start, size, spacing int) []int {
	first := spacing
	if start > 0 {
		first = (start + spacing - 1) / spacing * spacing
	}
	var out []int
	for v := first; v < start+size; v += spacing {
		out = append(out, v-start)
	}
	return out
}

// 3x5 pixel glyphs for the characters used in grid labels
var glyphs = map[rune][5]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws text on a dark box with its top-left corner at (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string) {
	const charWidth, labelHeight = 4, 7

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+labelHeight)
	draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(labelBG), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		if glyph, ok := glyphs[ch]; ok {
			for row, line := range glyph {
				for col, p := range line {
					if p == '1' {
						setClipped(img, cx+col, y+row, labelFG)
					}
				}
			}
		}
		cx += charWidth
	}
}
