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

import "github.com/lukepolson/parallelproj/joseph"

// ToFloat64 widens img.Data to a []float64 copy, the shape most
// double-precision-only analysis code (including gonum/mat's native
// element type) wants on the way out of the projector.
func ToFloat64(img joseph.Image) []float64 {
	out := make([]float64, len(img.Data))
	for i, v := range img.Data {
		out[i] = float64(v)
	}
	return out
}

// FromFloat64 narrows a []float64 buffer into an Image, truncating to
// float32 on the way in to the projector core.
func FromFloat64(data []float64, dims [3]int, voxsize, origin [3]float32) joseph.Image {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v)
	}
	return joseph.Image{Dims: dims, VoxSize: voxsize, Origin: origin, Data: out}
}
