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

// Package joseph implements the Joseph 3D ray-driven projector kernels:
// geometry traversal, non-TOF forward/back projection, the TOF Gaussian
// bin-weight kernel, and the TOF-sinogram and TOF-listmode forward/back
// variants. Every exported function here operates on a single LOR (or
// a caller-supplied range of LORs with no internal concurrency); the
// cpu and cuda packages are responsible for batching and parallelism.
package joseph

// Image is a dense row-major 3-D array of 32-bit floats together with
// its voxel geometry. Voxel (i0,i1,i2) is
// Data[i0*Dims[1]*Dims[2] + i1*Dims[2] + i2].
type Image struct {
	Dims    [3]int
	VoxSize [3]float32
	Origin  [3]float32
	Data    []float32
}

// NumVoxels returns the total voxel count Dims[0]*Dims[1]*Dims[2].
func (img Image) NumVoxels() int {
	return img.Dims[0] * img.Dims[1] * img.Dims[2]
}

// LORBatch is a batch of lines of response given by paired world-space
// endpoints, each flattened to length 3*N for N LORs.
type LORBatch struct {
	XStart []float32
	XEnd   []float32
}

// N returns the number of LORs in the batch.
func (b LORBatch) N() int {
	return len(b.XStart) / 3
}

// Endpoints returns the two endpoints of LOR k as [3]float32 arrays.
func (b LORBatch) Endpoints(k int) (x0, x1 [3]float32) {
	x0 = [3]float32{b.XStart[3*k], b.XStart[3*k+1], b.XStart[3*k+2]}
	x1 = [3]float32{b.XEnd[3*k], b.XEnd[3*k+1], b.XEnd[3*k+2]}
	return
}

// TOFParams configures time-of-flight weighting for the TOF-sinogram
// operations. Sigma and CenterOffset each have either one element
// (shared) or N elements (per LOR); NBins must be odd and positive.
type TOFParams struct {
	BinWidth     float32
	Sigma        []float32
	CenterOffset []float32
	NSigmas      float32
	NBins        int
	LORDepSigma  bool
	LORDepOffset bool
}

// SigmaAt returns the TOF sigma to use for LOR k.
func (t TOFParams) SigmaAt(k int) float32 {
	if t.LORDepSigma {
		return t.Sigma[k]
	}
	return t.Sigma[0]
}

// CenterOffsetAt returns the TOF center offset to use for LOR k.
func (t TOFParams) CenterOffsetAt(k int) float32 {
	if t.LORDepOffset {
		return t.CenterOffset[k]
	}
	return t.CenterOffset[0]
}

// HalfWidth returns (NBins/2), the number of bins on either side of
// bin 0 in sinogram mode.
func (t TOFParams) HalfWidth() int {
	return t.NBins / 2
}

// ListmodeTOF configures time-of-flight weighting for the listmode
// operations, where every event carries its own TOF bin index.
type ListmodeTOF struct {
	TOFParams
	Bin []int16
}
