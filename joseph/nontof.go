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

// ForwardLOR computes the non-TOF Joseph line integral of img along a
// single LOR (x0, x1): spec §4.2.
//
// Panics if len(img.Data) < img.NumVoxels().
func ForwardLOR(x0, x1 [3]float32, img Image) float32 {
	if len(img.Data) < img.NumVoxels() {
		panic("joseph: image data slice too short")
	}

	tr := Traverse(x0, x1, img.Dims, img.VoxSize, img.Origin)
	if !tr.Valid {
		return 0
	}

	off := offAxes(tr.Axis)
	strides := Strides(img.Dims)

	var sum float32
	for i := tr.IMin; i <= tr.IMax; i++ {
		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		sum += bl.Sample(img.Data, img.Dims, tr.Axis, i, strides)
	}
	return tr.Step * sum
}

// BackLOR accumulates the back-projection of scalar value p along a
// single LOR (x0, x1) into img.Data: spec §4.2.
//
// img.Data is accumulated into, not overwritten; callers that need a
// fresh back-projection should zero it first. Not safe to call
// concurrently on the same img from multiple goroutines without
// external synchronization (per-tap accumulation is a plain float add,
// not atomic) — see the cpu package for the race-free batch dispatcher.
func BackLOR(x0, x1 [3]float32, img Image, p float32) {
	if len(img.Data) < img.NumVoxels() {
		panic("joseph: image data slice too short")
	}
	if p == 0 {
		return
	}

	tr := Traverse(x0, x1, img.Dims, img.VoxSize, img.Origin)
	if !tr.Valid {
		return
	}

	off := offAxes(tr.Axis)
	strides := Strides(img.Dims)
	scale := tr.Step * p

	for i := tr.IMin; i <= tr.IMax; i++ {
		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		bl.Accumulate(img.Data, img.Dims, tr.Axis, i, strides, scale)
	}
}
