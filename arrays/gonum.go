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

package arrays

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lukepolson/parallelproj/joseph"
)

// FromDenseSlices builds an Image from a stack of n0 dense 2-D planes
// (one *mat.Dense per index along axis 0), the representation a
// caller working plane-by-plane with gonum/mat is likely to already
// hold. voxsize and origin must be supplied separately since *mat.Dense
// carries no voxel-geometry metadata.
func FromDenseSlices(planes []*mat.Dense, voxsize, origin [3]float32) joseph.Image {
	n0 := len(planes)
	n1, n2 := 0, 0
	if n0 > 0 {
		n1, n2 = planes[0].Dims()
	}
	data := make([]float32, n0*n1*n2)
	strides := joseph.Strides([3]int{n0, n1, n2})
	for i0, plane := range planes {
		for i1 := 0; i1 < n1; i1++ {
			for i2 := 0; i2 < n2; i2++ {
				data[i0*strides[0]+i1*strides[1]+i2*strides[2]] = float32(plane.At(i1, i2))
			}
		}
	}
	return joseph.Image{Dims: [3]int{n0, n1, n2}, VoxSize: voxsize, Origin: origin, Data: data}
}

// ToDenseSlices is the inverse of FromDenseSlices: splits img into one
// *mat.Dense plane per index along axis 0.
func ToDenseSlices(img joseph.Image) []*mat.Dense {
	n0, n1, n2 := img.Dims[0], img.Dims[1], img.Dims[2]
	strides := joseph.Strides(img.Dims)
	planes := make([]*mat.Dense, n0)
	for i0 := 0; i0 < n0; i0++ {
		plane := mat.NewDense(n1, n2, nil)
		for i1 := 0; i1 < n1; i1++ {
			for i2 := 0; i2 < n2; i2++ {
				plane.Set(i1, i2, float64(img.Data[i0*strides[0]+i1*strides[1]+i2*strides[2]]))
			}
		}
		planes[i0] = plane
	}
	return planes
}
