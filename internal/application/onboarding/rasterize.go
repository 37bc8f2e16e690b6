package onboarding

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/incorp/backend/internal/domain/onboarding"
)

// Raster surface dimensions, matching the capture pad aspect ratio
const (
	signatureWidth  = 600
	signatureHeight = 200
	penRadius       = 1
)

// RasterizeStrokes renders the stroke paths of a drawn signature to a PNG.
// Coordinates outside the surface are clamped rather than rejected.
func RasterizeStrokes(strokes []onboarding.Stroke) ([]byte, error) {
	if err := onboarding.ValidateStrokes(strokes); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, signatureWidth, signatureHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	ink := color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	for _, stroke := range strokes {
		points := stroke.Points
		if len(points) == 1 {
			plot(img, clampX(points[0].X), clampY(points[0].Y), ink)
			continue
		}
		for i := 1; i < len(points); i++ {
			drawSegment(img,
				clampX(points[i-1].X), clampY(points[i-1].Y),
				clampX(points[i].X), clampY(points[i].Y),
				ink)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampX(v float64) int {
	return clamp(int(math.Round(v)), 0, signatureWidth-1)
}

func clampY(v float64) int {
	return clamp(int(math.Round(v)), 0, signatureHeight-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawSegment draws a line with the Bresenham algorithm
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
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
		plot(img, x0, y0, c)
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

// plot inks a small disc so the line has pen-like weight
func plot(img *image.RGBA, x, y int, c color.Color) {
	for ox := -penRadius; ox <= penRadius; ox++ {
		for oy := -penRadius; oy <= penRadius; oy++ {
			px, py := x+ox, y+oy
			if px >= 0 && px < signatureWidth && py >= 0 && py < signatureHeight {
				img.Set(px, py, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
