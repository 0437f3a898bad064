/*
Kernel math funcs
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

import "math"

// Fixed kernels used for automatic sigma on the smallest sizes,
// indexed by size/2.
var small_kernels = [4][]float64{
	{1},
	{0.25, 0.5, 0.25},
	{0.0625, 0.25, 0.375, 0.25, 0.0625},
	{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// AutoSigma returns the standard deviation derived from a kernel size
// when none is given explicitly.
func AutoSigma(size int) float64 {
	return 0.3*((float64(size)-1)*0.5-1) + 0.8
}

// RowKernelSize is the number of taps used for target row y.
func RowKernelSize(y, spread int) int {
	return spread*y + 1
}

// to_channel rounds a weighted channel average back to 8 bits.
func to_channel(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
