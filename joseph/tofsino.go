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

// ForwardTOFSinoLOR computes the TOF-sinogram forward projection of a
// single LOR: spec §4.4. out must have length >= 2*halfWidth+1 and is
// indexed out[b+halfWidth] for bin b in [-halfWidth, halfWidth].
func ForwardTOFSinoLOR(x0, x1 [3]float32, img Image, binWidth, centerOffset, sigma, nSigmas float32, halfWidth int, out []float32) {
	if len(img.Data) < img.NumVoxels() {
		panic("joseph: image data slice too short")
	}
	if len(out) < 2*halfWidth+1 {
		panic("joseph: tof output slice too short")
	}

	tr := Traverse(x0, x1, img.Dims, img.VoxSize, img.Origin)
	if !tr.Valid {
		return
	}

	off := offAxes(tr.Axis)
	strides := Strides(img.Dims)

	for i := tr.IMin; i <= tr.IMax; i++ {
		t := PlaneParam(x0, x1, tr.Axis, i, img.VoxSize, img.Origin)
		ti := MidpointOffset(tr.Length, t)

		bMin, bMax := BinRange(ti, binWidth, centerOffset, sigma, nSigmas, halfWidth)
		if bMin > bMax {
			continue
		}

		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		sample := bl.Sample(img.Data, img.Dims, tr.Axis, i, strides)
		if sample == 0 {
			continue
		}

		for b := bMin; b <= bMax; b++ {
			w := TOFBinWeight(ti, b, binWidth, centerOffset, sigma)
			out[b+halfWidth] += tr.Step * w * sample
		}
	}
}

// BackTOFSinoLOR accumulates the TOF-sinogram back-projection of
// sino (indexed sino[b+halfWidth] for bin b) along a single LOR into
// img.Data: spec §4.4. Not safe for concurrent accumulation into the
// same img without external synchronization; see the cpu package.
func BackTOFSinoLOR(x0, x1 [3]float32, img Image, binWidth, centerOffset, sigma, nSigmas float32, halfWidth int, sino []float32) {
	if len(img.Data) < img.NumVoxels() {
		panic("joseph: image data slice too short")
	}
	if len(sino) < 2*halfWidth+1 {
		panic("joseph: tof sinogram slice too short")
	}

	tr := Traverse(x0, x1, img.Dims, img.VoxSize, img.Origin)
	if !tr.Valid {
		return
	}

	off := offAxes(tr.Axis)
	strides := Strides(img.Dims)

	for i := tr.IMin; i <= tr.IMax; i++ {
		t := PlaneParam(x0, x1, tr.Axis, i, img.VoxSize, img.Origin)
		ti := MidpointOffset(tr.Length, t)

		bMin, bMax := BinRange(ti, binWidth, centerOffset, sigma, nSigmas, halfWidth)
		if bMin > bMax {
			continue
		}

		var weighted float32
		for b := bMin; b <= bMax; b++ {
			p := sino[b+halfWidth]
			if p == 0 {
				continue
			}
			weighted += TOFBinWeight(ti, b, binWidth, centerOffset, sigma) * p
		}
		if weighted == 0 {
			continue
		}

		u, v, _ := PlaneCoords(x0, x1, tr, img.Dims, img.VoxSize, img.Origin, i)
		bl := MakeBilinear(u, v, img.Dims[off[0]], img.Dims[off[1]])
		bl.Accumulate(img.Data, img.Dims, tr.Axis, i, strides, tr.Step*weighted)
	}
}
