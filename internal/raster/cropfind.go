package raster

import (
	"fmt"

	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// FindCropBox returns the bounding box of all pixels exactly matching
// the mask color. The color must have one sample per channel. The
// second return is false when no pixel matches.
func FindCropBox(r *Raster, color []uint16) (left, top, width, height int, found bool, err error) {
	if len(color) != r.Channels {
		return 0, 0, 0, 0, false,
			fmt.Errorf("%w: mask color has %d components, image has %d channels",
				photoscan.ErrValidation, len(color), r.Channels)
	}

	minX, minY := r.Width, r.Height
	maxX, maxY := -1, -1
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !samplesEqual(r.Pixel(x, y), color) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return 0, 0, 0, 0, false, nil
	}
	return minX, minY, maxX - minX + 1, maxY - minY + 1, true, nil
}

func samplesEqual(a, b []uint16) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
