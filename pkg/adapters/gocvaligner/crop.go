// Package gocvaligner detects faces with an OpenCV Haar cascade and cuts
// square, padded chips around them. The detector needs the gocv build tag;
// the cropping helpers build without it.
package gocvaligner

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"
)

// ChipFromBox cuts a square chip centred on box. The side is the longer box
// edge grown by padding on every side, so padding 0.75 yields 2.5x the face.
// Regions outside img are black. The result is scaled to size x size.
func ChipFromBox(img image.Image, box image.Rectangle, size int, padding float64) *image.RGBA {
	side := box.Dx()
	if box.Dy() > side {
		side = box.Dy()
	}
	side = int(float64(side) * (1 + 2*padding))
	if side < 1 {
		side = 1
	}

	cx := box.Min.X + box.Dx()/2
	cy := box.Min.Y + box.Dy()/2
	square := image.Rect(cx-side/2, cy-side/2, cx-side/2+side, cy-side/2+side)

	canvas := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	visible := square.Intersect(img.Bounds())
	if !visible.Empty() {
		dst := visible.Sub(square.Min)
		draw.Draw(canvas, dst, img, visible.Min, draw.Src)
	}

	if side == size {
		return canvas
	}
	chip := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(chip, chip.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return chip
}

// SortBoxes orders detections left to right, then top to bottom.
func SortBoxes(boxes []image.Rectangle) {
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].Min.X != boxes[j].Min.X {
			return boxes[i].Min.X < boxes[j].Min.X
		}
		return boxes[i].Min.Y < boxes[j].Min.Y
	})
}
