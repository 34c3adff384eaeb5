// Package raster holds the in-memory pixel representation used by the
// geometric transform and the crop-box search. Samples are 16-bit;
// 8-bit sources are widened on load by the image I/O layer.
package raster

// Raster is a row-major, channel-interleaved integer image.
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint16
}

// New allocates a zeroed raster of the given dimensions.
func New(width, height, channels int) *Raster {
	return &Raster{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint16, width*height*channels),
	}
}

func (r *Raster) offset(x, y, c int) int {
	return (y*r.Width+x)*r.Channels + c
}

// At returns the sample at (x, y) in channel c.
func (r *Raster) At(x, y, c int) uint16 {
	return r.Pix[r.offset(x, y, c)]
}

// Set stores a sample at (x, y) in channel c.
func (r *Raster) Set(x, y, c int, v uint16) {
	r.Pix[r.offset(x, y, c)] = v
}

// Pixel returns all channel samples at (x, y) as a subslice of Pix.
func (r *Raster) Pixel(x, y int) []uint16 {
	off := r.offset(x, y, 0)
	return r.Pix[off : off+r.Channels]
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := New(r.Width, r.Height, r.Channels)
	copy(out.Pix, r.Pix)
	return out
}

// Equal reports whether two rasters have identical dimensions and samples.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height || r.Channels != o.Channels {
		return false
	}
	for i, v := range r.Pix {
		if o.Pix[i] != v {
			return false
		}
	}
	return true
}
