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

// ForwardTOFListmodeLOR computes the TOF-listmode forward projection
// of a single event: spec §4.5. Unlike the sinogram kernel, only the
// event's own bin is evaluated at each traversed plane.
func ForwardTOFListmodeLOR(x0, x1 [3]float32, img Image, binWidth, centerOffset, sigma, nSigmas float32, bin int16) float32 {
	if len(img.Data) < img.NumVoxels() {
		panic("joseph: image data slice too short")
	}

	tr := Traverse(x0, x1, img.Dims, img.VoxSize, img.Origin)
	if !tr.Valid {
		return 0
	}

	off := offAxes(tr.Axis)
	strides := Strides(img.Dims)
	b := int(bin)

	var sum float32
	for i := tr.IMin; i <= tr.IMax; i++ {
		t := PlaneParam(x0, x1, tr.Axis, i, img.VoxSize, img.Origin)
		ti := MidpointOffset(tr.Length, t)

		if !InTOFRange(ti, b, binWidth, centerOffset, sigma, nSigmas) {
			continue
		}
		w := TOFBinWeight(ti, b, binWidth, centerOffset, sigma)
		if w == 0 {
			continue
		}

		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		sum += tr.Step * w * bl.Sample(img.Data, img.Dims, tr.Axis, i, strides)
	}
	return sum
}

// BackTOFListmodeLOR accumulates the TOF-listmode back-projection of a
// single event's scalar value p into img.Data: spec §4.5. Not safe for
// concurrent accumulation into the same img without external
// synchronization; see the cpu package.
func BackTOFListmodeLOR(x0, x1 [3]float32, img Image, binWidth, centerOffset, sigma, nSigmas float32, bin int16, p float32) {
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
	b := int(bin)

	for i := tr.IMin; i <= tr.IMax; i++ {
		t := PlaneParam(x0, x1, tr.Axis, i, img.VoxSize, img.Origin)
		ti := MidpointOffset(tr.Length, t)

		if !InTOFRange(ti, b, binWidth, centerOffset, sigma, nSigmas) {
			continue
		}
		w := TOFBinWeight(ti, b, binWidth, centerOffset, sigma)
		if w == 0 {
			continue
		}

		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		bl.Accumulate(img.Data, img.Dims, tr.Axis, i, strides, tr.Step*(w*p))
	}
}

