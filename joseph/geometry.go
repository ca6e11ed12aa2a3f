// Copyright 2025 parallelproj Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package joseph

import "math"

// Traversal holds the result of intersecting a single LOR with an
// image's voxel grid: the principal axis to step along, the signed
// world-space step length per unit advance on that axis, and the
// inclusive voxel-plane range to visit.
type Traversal struct {
	Axis   int     // principal axis index, argmax|d_a|, ties to smallest index
	Step   float32 // world distance traversed per unit advance on Axis
	IMin   int     // first voxel plane to visit (inclusive)
	IMax   int     // last voxel plane to visit (inclusive)
	Length float32 // world length of the full (x0,x1) segment, i.e. |x1-x0|
	Valid  bool    // false if the ray misses the image bounding box entirely
}

// Traverse computes the geometry kernel (spec §4.1) for the LOR
// (x0, x1) against an image with the given voxel dimensions, size and
// origin. Origin is the world coordinate of the center of voxel
// (0,0,0).
func Traverse(x0, x1 [3]float32, dims [3]int, voxsize, origin [3]float32) Traversal {
	var d [3]float32
	for a := 0; a < 3; a++ {
		d[a] = x1[a] - x0[a]
	}

	axis := 0
	best := float32(math.Abs(float64(d[0])))
	for a := 1; a < 3; a++ {
		ad := float32(math.Abs(float64(d[a])))
		if ad > best {
			best = ad
			axis = a
		}
	}

	if best == 0 {
		return Traversal{}
	}

	dlen := float32(math.Sqrt(float64(d[0])*float64(d[0]) + float64(d[1])*float64(d[1]) + float64(d[2])*float64(d[2])))
	step := voxsize[axis] * dlen / best

	// Voxel i's center along axis is origin[axis] + i*voxsize[axis].
	// Solve for the range of integer i for which the ray, parameterized
	// by t in [0,1] from x0 to x1, stays within the half-open voxel
	// extent [-0.5, dims[axis]-0.5] (in voxel units) along axis.
	voxCoord := (x0[axis] - origin[axis]) / voxsize[axis]
	voxStep := d[axis] / voxsize[axis] // change in voxel-coordinate per unit t

	tEntry, tExit := 0.0, 1.0

	// Clip t to the off-axis range (-1, n) in voxel units as well: beyond
	// it every bilinear tap falls outside the image, so a ray that passes
	// beside the image is rejected here.
	for _, a := range offAxes(axis) {
		c0 := float64((x0[a] - origin[a]) / voxsize[a])
		dc := float64(d[a] / voxsize[a])
		if dc == 0 {
			if c0 <= -1 || c0 >= float64(dims[a]) {
				return Traversal{}
			}
			continue
		}
		ta, tb := (-1-c0)/dc, (float64(dims[a])-c0)/dc
		tEntry = math.Max(tEntry, math.Min(ta, tb))
		tExit = math.Min(tExit, math.Max(ta, tb))
	}

	lo, hi := -0.5, float64(dims[axis])-0.5

	if voxStep == 0 {
		if float64(voxCoord) < lo || float64(voxCoord) > hi {
			return Traversal{}
		}
	} else {
		t1 := (lo - float64(voxCoord)) / float64(voxStep)
		t2 := (hi - float64(voxCoord)) / float64(voxStep)
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEntry {
			tEntry = t1
		}
		if t2 < tExit {
			tExit = t2
		}
		if tEntry > tExit {
			return Traversal{}
		}
	}

	coordEntry := float64(voxCoord) + tEntry*float64(voxStep)
	coordExit := float64(voxCoord) + tExit*float64(voxStep)

	iMin := int(math.Ceil(math.Min(coordEntry, coordExit) - 1e-5))
	iMax := int(math.Floor(math.Max(coordEntry, coordExit) + 1e-5))

	if iMin < 0 {
		iMin = 0
	}
	if iMax > dims[axis]-1 {
		iMax = dims[axis] - 1
	}
	if iMin > iMax {
		return Traversal{}
	}

	return Traversal{Axis: axis, Step: step, IMin: iMin, IMax: iMax, Length: dlen, Valid: true}
}

// PlaneParam returns the parametric coordinate t (x(t) = x0 + t*(x1-x0))
// at which the ray crosses the voxel plane Axis = i.
func PlaneParam(x0, x1 [3]float32, axis, i int, voxsize, origin [3]float32) float32 {
	axisCoord0 := (x0[axis] - origin[axis]) / voxsize[axis]
	axisCoordD := (x1[axis] - x0[axis]) / voxsize[axis]
	if axisCoordD == 0 {
		return 0
	}
	return (float32(i) - axisCoord0) / axisCoordD
}

// MidpointOffset returns the signed world-space distance from the LOR
// midpoint to the point at parametric coordinate t, i.e. length*(t-0.5).
func MidpointOffset(length, t float32) float32 {
	return length * (t - 0.5)
}

// PlaneCoords returns the two off-axis fractional voxel coordinates
// (u, v) where the ray crosses the plane Axis = i, for the non-principal
// axes in ascending index order.
func PlaneCoords(x0, x1 [3]float32, tr Traversal, dims [3]int, voxsize, origin [3]float32, i int) (u, v float32, off [2]int) {
	off = offAxes(tr.Axis)
	t := PlaneParam(x0, x1, tr.Axis, i, voxsize, origin)

	u = (x0[off[0]] + t*(x1[off[0]]-x0[off[0]]) - origin[off[0]]) / voxsize[off[0]]
	v = (x0[off[1]] + t*(x1[off[1]]-x0[off[1]]) - origin[off[1]]) / voxsize[off[1]]
	return
}

// offAxes returns the two axis indices other than axis, in ascending
// order.
func offAxes(axis int) [2]int {
	switch axis {
	case 0:
		return [2]int{1, 2}
	case 1:
		return [2]int{0, 2}
	default:
		return [2]int{0, 1}
	}
}

// Bilinear holds the four stencil taps and weights for trilinear
// interpolation of the two off-axis coordinates at a fixed principal
// plane, clipped to nonnegative weight (spec §4.1 off-plane edge
// policy).
type Bilinear struct {
	I0, I1 int // floor/ceil indices along off-axis 0
	J0, J1 int // floor/ceil indices along off-axis 1
	W00, W01, W10, W11 float32
}

// MakeBilinear computes the four-tap bilinear stencil for fractional
// off-axis coordinates (u, v) against off-axis dimensions (n0, n1).
func MakeBilinear(u, v float32, n0, n1 int) Bilinear {
	i0 := int(math.Floor(float64(u)))
	j0 := int(math.Floor(float64(v)))
	fu := u - float32(i0)
	fv := v - float32(j0)

	return Bilinear{
		I0: i0, I1: i0 + 1,
		J0: j0, J1: j0 + 1,
		W00: (1 - fu) * (1 - fv),
		W01: (1 - fu) * fv,
		W10: fu * (1 - fv),
		W11: fu * fv,
	}
}

// Sample evaluates the bilinear stencil against a single principal
// plane of img's Data, treating out-of-image taps as zero. axis is the
// principal axis, i the plane index along it, and strides the row-major
// strides of dims (see Strides).
func (bl Bilinear) Sample(data []float32, dims [3]int, axis int, i int, strides [3]int) float32 {
	off := offAxes(axis)
	var sum float32
	taps := [4]struct {
		i, j int
		w    float32
	}{
		{bl.I0, bl.J0, bl.W00},
		{bl.I0, bl.J1, bl.W01},
		{bl.I1, bl.J0, bl.W10},
		{bl.I1, bl.J1, bl.W11},
	}
	for _, tap := range taps {
		if tap.w == 0 {
			continue
		}
		if tap.i < 0 || tap.i >= dims[off[0]] || tap.j < 0 || tap.j >= dims[off[1]] {
			continue
		}
		idx := i*strides[axis] + tap.i*strides[off[0]] + tap.j*strides[off[1]]
		sum += tap.w * data[idx]
	}
	return sum
}

// Accumulate adds scale*w to img's Data at each in-bounds stencil tap
// for the plane Axis=i (the back-projection counterpart of Sample).
func (bl Bilinear) Accumulate(data []float32, dims [3]int, axis int, i int, strides [3]int, scale float32) {
	off := offAxes(axis)
	taps := [4]struct {
		i, j int
		w    float32
	}{
		{bl.I0, bl.J0, bl.W00},
		{bl.I0, bl.J1, bl.W01},
		{bl.I1, bl.J0, bl.W10},
		{bl.I1, bl.J1, bl.W11},
	}
	for _, tap := range taps {
		if tap.w == 0 {
			continue
		}
		if tap.i < 0 || tap.i >= dims[off[0]] || tap.j < 0 || tap.j >= dims[off[1]] {
			continue
		}
		idx := i*strides[axis] + tap.i*strides[off[0]] + tap.j*strides[off[1]]
		data[idx] += tap.w * scale
	}
}

// Strides returns the row-major strides for an image of the given
// dimensions: stride[a] is the flat-index delta for advancing one
// voxel along axis a.
func Strides(dims [3]int) [3]int {
	return [3]int{dims[1] * dims[2], dims[2], 1}
}
