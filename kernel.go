/*
Gaussian kernel
Copyright (C) 2023 Ivan Latunov

This program is free software; you can redistribute it and/or modify it under
the terms of the GNU General Public License as published by the Free Software
Foundation; either version 2 of the License, or (at your option) any later
version.

This program is distributed in the hope that it will be useful, but WITHOUT ANY
WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
PARTICULAR PURPOSE. See the GNU General Public License for more details.

You should have received a copy of the GNU General Public License along with
this program; if not, write to the Free Software Foundation, Inc., 59 Temple
Place, Suite 330, Boston, MA 02111-1307 USA
*/

package rowblur

import (
	"fmt"
	"math"
)

// The largest size served from the fixed small kernels.
const MAX_SMALL_KERNEL = 7

// GaussianKernel returns a 1D Gaussian of size taps normalized to sum to 1.
// A sigma <= 0 is derived from the size with [AutoSigma].
//
// size must be odd and positive.
func GaussianKernel(size int, sigma float64) []float64 {
	if size <= 0 || size%2 == 0 {
		panic(fmt.Sprintf("rowblur: invalid kernel size %d", size))
	}

	kernel := make([]float64, size)
	if sigma <= 0 && size <= MAX_SMALL_KERNEL {
		copy(kernel, small_kernels[size/2])
		return kernel
	}
	if sigma <= 0 {
		sigma = AutoSigma(size)
	}

	scale := -0.5 / (sigma * sigma)
	center := float64(size-1) * 0.5
	var sum float64
	for i := 0; i < size; i++ {
		x := float64(i) - center
		kernel[i] = math.Exp(scale * x * x)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// rowKernel is the kernel applied to a single target row.
// sigma is 0 when the weights come from the fixed small tables.
type rowKernel struct {
	y       int
	sigma   float64
	weights []float64
}

func newRowKernel(y, spread int) rowKernel {
	size := RowKernelSize(y, spread)
	k := rowKernel{
		y:       y,
		weights: GaussianKernel(size, -1),
	}
	if size > MAX_SMALL_KERNEL {
		k.sigma = AutoSigma(size)
	}
	return k
}

func (k rowKernel) String() string {
	if k.sigma == 0 {
		return fmt.Sprintf("row %d: size %d, fixed table", k.y, len(k.weights))
	}
	return fmt.Sprintf("row %d: size %d, sigma %.4f", k.y, len(k.weights), k.sigma)
}

// WindowWeight returns the sum of the kernel weights whose taps land
// inside [0, width) when the kernel is centered on column x.
func WindowWeight(width, x int, kernel []float64) float64 {
	half := len(kernel) / 2
	var n float64
	for i, w := range kernel {
		nx := x + i - half
		if nx >= 0 && nx < width {
			n += w
		}
	}
	return n
}
