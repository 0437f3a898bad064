/*
Row blur
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

// Package rowblur fills the rows of an image with progressively wider
// horizontal Gaussian blurs of its first row.
//
// Row Y (1 <= Y <= 127 by default) receives row 0 convolved with a
// Gaussian of 4*Y+1 taps. Taps falling outside the image are dropped and
// the remaining weights are renormalized, so edges keep their brightness.
package rowblur

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrTooShort          = errors.New("image has too few rows")
	ErrInvalidParameters = errors.New("invalid parameters")
)

// Parameters are the available parameters for the row blur.
type Parameters struct {
	// First and last target rows, inclusive. Row 0 is the source and
	// can never be a target.
	FirstRow int
	LastRow  int

	// Kernel growth per row: row Y uses Spread*Y+1 taps.
	Spread int

	// Maximum number of rows processed concurrently. Values < 1 mean 1.
	Workers int
}

// DefaultParameters reproduce the classic 128x128 gradient blur.
var DefaultParameters Parameters

func init() {
	DefaultParameters = Parameters{
		FirstRow: 1,
		LastRow:  127,
		Spread:   4,
		Workers:  runtime.NumCPU(),
	}
}

func (p Parameters) validate() error {
	if p.FirstRow < 1 || p.LastRow < p.FirstRow {
		return fmt.Errorf("%w: rows %d..%d", ErrInvalidParameters, p.FirstRow, p.LastRow)
	}
	if p.Spread < 1 {
		return fmt.Errorf("%w: spread %d", ErrInvalidParameters, p.Spread)
	}
	return nil
}

// Blur overwrites rows FirstRow..LastRow of img with blurred copies of
// row 0. img is left untouched when an error is returned.
//
// Passing a nil output_verbose discards logs.
func Blur(img *image.RGBA, args Parameters, output_verbose io.Writer) error {
	if output_verbose == nil {
		output_verbose = io.Discard
	}
	if err := args.validate(); err != nil {
		return err
	}

	size := img.Bounds().Size()
	if size.X <= 0 || size.Y <= 0 {
		return ErrEmptyImage
	}
	if size.Y <= args.LastRow {
		return fmt.Errorf("%w: need %d, have %d", ErrTooShort, args.LastRow+1, size.Y)
	}

	fmt.Fprintf(output_verbose, "Building kernels for rows %d..%d\n", args.FirstRow, args.LastRow)

	kernels := make([]rowKernel, 0, args.LastRow-args.FirstRow+1)
	for y := args.FirstRow; y <= args.LastRow; y++ {
		k := newRowKernel(y, args.Spread)
		fmt.Fprintln(output_verbose, k)
		kernels = append(kernels, k)
	}

	fmt.Fprintf(output_verbose, "Blurring %d rows of width %d\n", len(kernels), size.X)

	workers := args.Workers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, k := range kernels {
		k := k
		g.Go(func() error {
			BlurRow(img, k.y, k.weights)
			return nil
		})
	}
	return g.Wait()
}

// BlurRow writes row 0 of img, convolved with kernel, into row y.
// Row 0 is read only; kernel must have an odd length.
func BlurRow(img *image.RGBA, y int, kernel []float64) {
	bounds := img.Bounds()
	w := bounds.Dx()
	half := len(kernel) / 2

	for x := 0; x < w; x++ {
		var r, g, b, n float64
		for i, weight := range kernel {
			nx := x + i - half
			if nx < 0 || nx >= w {
				continue
			}
			src := img.RGBAAt(bounds.Min.X+nx, bounds.Min.Y)
			n += weight
			r += weight * float64(src.R)
			g += weight * float64(src.G)
			b += weight * float64(src.B)
		}
		if n > 0 {
			r /= n
			g /= n
			b /= n
		}
		img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{
			R: to_channel(r),
			G: to_channel(g),
			B: to_channel(b),
			A: 255,
		})
	}
}
