/*
Image loading and saving
Copyright (C) 2023 Ivan Latunov

This program is free software; you can redistribute it and/or modify it under
the terms of the GNU General Public License as published by the Free Software
Foundation; either version 2 of the License, or (at your option) any later
version.

This program is distributed in the hope that it will be useful, but WITHOUT ANY
WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
PARTICULAR PURPOSE.  See the GNU General Public License for more details.

You should have received a copy of the GNU General Public License along with
this program; if not, write to the Free Software Foundation, Inc., 59 Temple
Place, Suite 330, Boston, MA 02111-1307 USA
*/

package rowblur

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Load decodes the image at path into an opaque RGBA buffer. The alpha
// channel of the source is dropped. The returned string is the format
// name as registered with the image package.
func Load(path string) (*image.RGBA, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not load image %q: %w", path, err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return toOpaqueRGBA(src), format, nil
}

// toOpaqueRGBA keeps the straight (non-premultiplied) color of every
// pixel and forces alpha to 255.
func toOpaqueRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)

	var straight *image.NRGBA
	switch m := src.(type) {
	case *image.NRGBA:
		straight = m
	case *image.NRGBA64:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := m.NRGBA64At(x, y)
				dst.SetRGBA(x, y, color.RGBA{
					R: uint8(c.R >> 8),
					G: uint8(c.G >> 8),
					B: uint8(c.B >> 8),
					A: 0xff,
				})
			}
		}
		return dst
	case *image.Paletted:
		palette := make([]color.RGBA, len(m.Palette))
		for i, c := range m.Palette {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			palette[i] = color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				i := int(m.ColorIndexAt(x, y))
				if i < len(palette) {
					dst.SetRGBA(x, y, palette[i])
				} else {
					dst.SetRGBA(x, y, color.RGBA{A: 0xff})
				}
			}
		}
		return dst
	default:
		straight = image.NewNRGBA(bounds)
		xdraw.Draw(straight, bounds, src, bounds.Min, xdraw.Src)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		s := straight.Pix[straight.PixOffset(bounds.Min.X, y):]
		d := dst.Pix[dst.PixOffset(bounds.Min.X, y):]
		for i := 0; i < bounds.Dx()*4; i += 4 {
			d[i+0] = s[i+0]
			d[i+1] = s[i+1]
			d[i+2] = s[i+2]
			d[i+3] = 0xff
		}
	}
	return dst
}

// CheckFormat reports whether images decoded as format can be saved
// back with [Save].
func CheckFormat(format string) error {
	_, err := encoderFor(format)
	return err
}

// Save encodes img in the given format and replaces the file at path.
// The data is written to a temporary file next to path first, so a
// failed encode leaves the original file intact.
func Save(path string, img image.Image, format string) error {
	encode, err := encoderFor(format)
	if err != nil {
		return fmt.Errorf("could not save image %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not save image %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("could not save image %q: %w", path, err)
	}

	if err := encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("could not encode image %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not save image %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not save image %q: %w", path, err)
	}
	return nil
}

func encoderFor(format string) (func(io.Writer, image.Image) error, error) {
	switch format {
	case "png":
		return png.Encode, nil
	case "jpeg":
		return func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
		}, nil
	case "gif":
		return func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}, nil
	case "bmp":
		return bmp.Encode, nil
	case "tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
