package render

import (
	"image"
	"image/color"
)

// Drawing primitives on 8-bit grayscale buffers. All of them clip to the
// image bounds, so strokes that run off an edge are simply cut.

func fill(img *image.Gray, v uint8) {
	for i := range img.Pix {
		img.Pix[i] = v
	}
}

func fillRow(img *image.Gray, y int, v uint8) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X-1, y)+1]
	for i := range row {
		row[i] = v
	}
}

func fillCol(img *image.Gray, x int, v uint8) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.Pix[img.PixOffset(x, y)] = v
	}
}

// strokeRect outlines the rectangle with corners p0 and p1 (both
// inclusive). The stroke is centred on each edge.
func strokeRect(img *image.Gray, p0, p1 image.Point, thickness int, v uint8) {
	lo := -thickness / 2
	hi := lo + thickness
	c := color.Gray{Y: v}
	for d := lo; d < hi; d++ {
		for x := p0.X + lo; x < p1.X+hi; x++ {
			img.SetGray(x, p0.Y+d, c)
			img.SetGray(x, p1.Y+d, c)
		}
		for y := p0.Y + lo; y < p1.Y+hi; y++ {
			img.SetGray(p0.X+d, y, c)
			img.SetGray(p1.X+d, y, c)
		}
	}
}

// ring draws a circle outline of the given radius whose stroke is
// thickness pixels wide, centred on the radius.
func ring(img *image.Gray, center image.Point, radius, thickness int, v uint8) {
	inner := float64(radius) - float64(thickness)/2
	outer := float64(radius) + float64(thickness)/2
	inner2, outer2 := inner*inner, outer*outer
	reach := radius + thickness
	c := color.Gray{Y: v}
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			d2 := float64(dx*dx + dy*dy)
			if d2 < inner2 || d2 > outer2 {
				continue
			}
			img.SetGray(center.X+dx, center.Y+dy, c)
		}
	}
}

// flipBoth mirrors the image horizontally and vertically.
func flipBoth(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[src.PixOffset(b.Min.X+w-1-x, b.Min.Y+h-1-y)]
		}
	}
	return dst
}

// turnLeft transposes the image and then flips it vertically, which is a
// quarter turn counter-clockwise. Text written left to right on src reads
// bottom to top on the result.
func turnLeft(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[src.PixOffset(b.Min.X+w-1-y, b.Min.Y+x)]
		}
	}
	return dst
}
