// SPDX-License-Identifier: AGPL-3.0-or-later

// Package icon renders the placeholder Phoenix app icon: a dark gradient
// background with a glowing fire orb and orbital rings.
package icon

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// DefaultSize matches the 1024x1024 icon the desktop shell expects.
const DefaultSize = 1024

// Generate renders the icon at the given edge length. The canvas is NRGBA so
// the translucent layers keep their straight alpha through PNG encoding.
func Generate(size int) *image.NRGBA {
	if size <= 0 {
		size = DefaultSize
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	// Background gradient, #1a1a2e at the top fading to #16213e.
	for y := 0; y < size; y++ {
		t := float64(y) / float64(size)
		c := color.NRGBA{
			R: uint8(26 + (22-26)*t),
			G: uint8(26 + (33-26)*t),
			B: uint8(46 + (62-46)*t),
			A: 255,
		}
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	center := size / 2
	orbSize := size / 3

	// Outer glow.
	fillCircle(img, center, center, orbSize+20, color.NRGBA{R: 0, G: 255, B: 255, A: 60})

	// Orb: phoenix fire fading out towards the rim.
	for i := orbSize; i > 0; i -= 5 {
		alpha := uint8(255 * (1 - float64(i)/float64(orbSize)))
		fillCircle(img, center, center, i, color.NRGBA{R: 255, G: 200, B: 100, A: alpha})
	}

	// Orbital rings.
	for _, ringRadius := range []int{orbSize + 40, orbSize + 80} {
		strokeCircle(img, center, center, ringRadius, 3, color.NRGBA{R: 0, G: 255, B: 255, A: 100})
	}

	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

func fillCircle(img *image.NRGBA, cx, cy, r int, c color.NRGBA) {
	r2 := r * r
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 && inBounds(img, x, y) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func strokeCircle(img *image.NRGBA, cx, cy, r, width int, c color.NRGBA) {
	outer := r * r
	inner := (r - width) * (r - width)
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			d := dx*dx + dy*dy
			if d <= outer && d >= inner && inBounds(img, x, y) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func inBounds(img *image.NRGBA, x, y int) bool {
	return image.Pt(x, y).In(img.Rect)
}
