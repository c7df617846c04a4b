package gocvaligner

import (
	"image"
	"image/color"
	"testing"
)

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestChipFromBox_SizeAndCentre(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	fill(img, img.Bounds(), color.RGBA{B: 255, A: 255})
	face := image.Rect(80, 80, 120, 120)
	fill(img, face, color.RGBA{R: 255, A: 255})

	chip := ChipFromBox(img, face, 100, 0.75)

	if chip.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds = %v", chip.Bounds())
	}
	// Face spans the middle 40% of the chip.
	if c := chip.RGBAAt(50, 50); c.R < 200 || c.B > 50 {
		t.Errorf("centre should be face colour, got %v", c)
	}
	if c := chip.RGBAAt(5, 5); c.B < 200 || c.R > 50 {
		t.Errorf("corner should be background, got %v", c)
	}
}

func TestChipFromBox_EdgeIsBlack(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fill(img, img.Bounds(), color.RGBA{R: 255, G: 255, B: 255, A: 255})

	// Face in the top-left corner: the padded square reaches outside the image.
	chip := ChipFromBox(img, image.Rect(0, 0, 20, 20), 50, 0.75)

	if chip.Bounds().Dx() != 50 || chip.Bounds().Dy() != 50 {
		t.Fatalf("bounds = %v", chip.Bounds())
	}
	if c := chip.RGBAAt(1, 1); c.R > 10 || c.G > 10 || c.B > 10 {
		t.Errorf("outside region should be black, got %v", c)
	}
	if c := chip.RGBAAt(40, 40); c.R < 240 {
		t.Errorf("inside region should be white, got %v", c)
	}
}

func TestChipFromBox_NoScaleWhenSideMatches(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	chip := ChipFromBox(img, image.Rect(22, 22, 42, 42), 50, 0.75)

	if chip.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds = %v", chip.Bounds())
	}
}

func TestSortBoxes(t *testing.T) {
	boxes := []image.Rectangle{
		image.Rect(300, 10, 350, 60),
		image.Rect(10, 200, 60, 250),
		image.Rect(10, 20, 60, 70),
	}
	SortBoxes(boxes)

	want := []image.Point{{10, 20}, {10, 200}, {300, 10}}
	for i, b := range boxes {
		if b.Min != want[i] {
			t.Errorf("boxes[%d].Min = %v, want %v", i, b.Min, want[i])
		}
	}
}
