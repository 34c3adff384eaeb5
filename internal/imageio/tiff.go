// Package imageio reads and writes TIFF rasters. Scanner output is
// grayscale or RGB, 8 or 16 bits per sample; anything else decodes
// through the generic path at 16-bit depth.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/tiff"

	"github.com/ataluts/photo-scan-tools/internal/files/filesystem"
	"github.com/ataluts/photo-scan-tools/internal/raster"
	"github.com/ataluts/photo-scan-tools/pkg/photoscan"
)

// CompressionOptions resolves a compression identifier from transform
// metadata into encoder options. Identifiers follow the common TIFF
// naming; only schemes the encoder supports are accepted.
func CompressionOptions(id string) (*tiff.Options, error) {
	switch id {
	case "", "none":
		return &tiff.Options{Compression: tiff.Uncompressed}, nil
	case "deflate", "zlib", "adobe_deflate":
		return &tiff.Options{Compression: tiff.Deflate, Predictor: true}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported compression %q", photoscan.ErrValidation, id)
	}
}

// Decode parses TIFF data into a raster. The returned bit depth is 8
// or 16 and round-trips through Encode.
func Decode(data []byte) (*raster.Raster, int, error) {
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decoding image: %w", err)
	}
	return fromImage(img)
}

func fromImage(img image.Image) (*raster.Raster, int, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := raster.New(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, 0, uint16(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y))
			}
		}
		return out, 8, nil
	case *image.Gray16:
		out := raster.New(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Set(x, y, 0, src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return out, 16, nil
	case *image.RGBA:
		out := raster.New(w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.RGBAAt(b.Min.X+x, b.Min.Y+y)
				out.Set(x, y, 0, uint16(c.R))
				out.Set(x, y, 1, uint16(c.G))
				out.Set(x, y, 2, uint16(c.B))
			}
		}
		return out, 8, nil
	case *image.NRGBA:
		out := raster.New(w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
				out.Set(x, y, 0, uint16(c.R))
				out.Set(x, y, 1, uint16(c.G))
				out.Set(x, y, 2, uint16(c.B))
			}
		}
		return out, 8, nil
	case *image.RGBA64:
		out := raster.New(w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.RGBA64At(b.Min.X+x, b.Min.Y+y)
				out.Set(x, y, 0, c.R)
				out.Set(x, y, 1, c.G)
				out.Set(x, y, 2, c.B)
			}
		}
		return out, 16, nil
	case *image.NRGBA64:
		out := raster.New(w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.NRGBA64At(b.Min.X+x, b.Min.Y+y)
				out.Set(x, y, 0, c.R)
				out.Set(x, y, 1, c.G)
				out.Set(x, y, 2, c.B)
			}
		}
		return out, 16, nil
	default:
		out := raster.New(w, h, 3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				out.Set(x, y, 0, uint16(cr))
				out.Set(x, y, 1, uint16(cg))
				out.Set(x, y, 2, uint16(cb))
			}
		}
		return out, 16, nil
	}
}

// Encode serializes a raster as TIFF at the given bit depth.
func Encode(r *raster.Raster, bitDepth int, opts *tiff.Options) ([]byte, error) {
	img, err := toImage(r, bitDepth)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

func toImage(r *raster.Raster, bitDepth int) (image.Image, error) {
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch {
	case r.Channels == 1 && bitDepth == 8:
		img := image.NewGray(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: uint8(r.At(x, y, 0))})
			}
		}
		return img, nil
	case r.Channels == 1:
		img := image.NewGray16(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				img.SetGray16(x, y, color.Gray16{Y: r.At(x, y, 0)})
			}
		}
		return img, nil
	case r.Channels == 3 && bitDepth == 8:
		img := image.NewNRGBA(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				p := r.Pixel(x, y)
				img.SetNRGBA(x, y, color.NRGBA{R: uint8(p[0]), G: uint8(p[1]), B: uint8(p[2]), A: 0xff})
			}
		}
		return img, nil
	case r.Channels == 3:
		img := image.NewNRGBA64(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				p := r.Pixel(x, y)
				img.SetNRGBA64(x, y, color.NRGBA64{R: p[0], G: p[1], B: p[2], A: 0xffff})
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: not a grayscale or 3-channel RGB image", photoscan.ErrValidation)
	}
}

// ReadFile decodes a TIFF file through the filesystem provider.
func ReadFile(fs filesystem.Provider, path string) (*raster.Raster, int, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data)
}

// WriteFile encodes a raster and writes it through the filesystem
// provider.
func WriteFile(fs filesystem.Provider, path string, r *raster.Raster, bitDepth int, opts *tiff.Options) error {
	data, err := Encode(r, bitDepth, opts)
	if err != nil {
		return err
	}
	if err := fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Dimensions reads just enough of a TIFF file to report its pixel
// width and height.
func Dimensions(fs filesystem.Provider, path string) (width, height int, err error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := tiff.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
