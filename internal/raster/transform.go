package raster

import (
	"fmt"

	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// Transform crops, rotates and flips a raster, in that fixed order.
// Rotation is clockwise and must be a multiple of 90 degrees. A crop
// width or height of 0 means the full remaining extent in that axis.
// The input raster is never modified.
//
// The order is part of the contract: rotate-then-flip does not commute
// with flip-then-rotate, so callers must not assume they can reorder.
func Transform(src *Raster, left, top, width, height, rotateCW int, flipH, flipV bool) (*Raster, error) {
	if width == 0 {
		width = src.Width - left
	}
	if height == 0 {
		height = src.Height - top
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop region size is invalid", photoscan.ErrValidation)
	}
	if left < 0 || top < 0 || src.Width < left+width || src.Height < top+height {
		return nil, fmt.Errorf("%w: crop region is outside image boundaries", photoscan.ErrValidation)
	}
	if rotateCW%90 != 0 {
		return nil, fmt.Errorf("%w: rotate can only be performed by multiple of 90 degrees", photoscan.ErrValidation)
	}

	out := crop(src, left, top, width, height)

	for k := ((rotateCW/90)%4 + 4) % 4; k > 0; k-- {
		out = rotate90CW(out)
	}

	if flipH {
		out = flipHorizontal(out)
	}
	if flipV {
		out = flipVertical(out)
	}

	return out, nil
}

func crop(src *Raster, left, top, width, height int) *Raster {
	out := New(width, height, src.Channels)
	rowLen := width * src.Channels
	for y := 0; y < height; y++ {
		srcOff := src.offset(left, top+y, 0)
		dstOff := y * rowLen
		copy(out.Pix[dstOff:dstOff+rowLen], src.Pix[srcOff:srcOff+rowLen])
	}
	return out
}

// rotate90CW maps source (x, y) to destination (H-1-y, x).
func rotate90CW(src *Raster) *Raster {
	out := New(src.Height, src.Width, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			copy(out.Pixel(src.Height-1-y, x), src.Pixel(x, y))
		}
	}
	return out
}

func flipHorizontal(src *Raster) *Raster {
	out := New(src.Width, src.Height, src.Channels)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			copy(out.Pixel(src.Width-1-x, y), src.Pixel(x, y))
		}
	}
	return out
}

func flipVertical(src *Raster) *Raster {
	out := New(src.Width, src.Height, src.Channels)
	for y := 0; y < src.Height; y++ {
		copy(out.Pix[(src.Height-1-y)*src.Width*src.Channels:(src.Height-y)*src.Width*src.Channels],
			src.Pix[y*src.Width*src.Channels:(y+1)*src.Width*src.Channels])
	}
	return out
}
