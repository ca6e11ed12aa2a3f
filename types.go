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

// Package parallelproj implements the Joseph 3D ray-driven projector
// family used by PET iterative reconstruction: forward and back
// projection of a voxelized image along a batch of lines of response,
// with and without time-of-flight weighting.
//
// The public surface is six operations (Forward, Back, ForwardTOFSino,
// BackTOFSino, ForwardTOFListmode, BackTOFListmode), each dispatched by
// a Context to either the CPU worker-pool backend or, when a CUDA
// native library is resolved and reports visible devices, the CUDA
// backend. The core numerical kernels live in the joseph subpackage;
// this package owns input validation, backend selection, and the
// public buffer types, which are re-exported here so callers never
// need to import joseph directly.
package parallelproj

import "github.com/lukepolson/parallelproj/joseph"

// Image is a dense row-major 3-D array of 32-bit floats together with
// its voxel geometry.
//
// Data must have length Dims[0]*Dims[1]*Dims[2]; voxel (i0,i1,i2) is
// Data[i0*Dims[1]*Dims[2] + i1*Dims[2] + i2]. All Dims entries must be
// >= 2 and all VoxSize entries must be strictly positive.
type Image = joseph.Image

// LORBatch is a batch of lines of response given by paired world-space
// endpoints. XStart and XEnd each have length 3*N for N LORs; LOR k's
// start is (XStart[3k], XStart[3k+1], XStart[3k+2]).
type LORBatch = joseph.LORBatch

// TOFParams configures time-of-flight weighting shared by the
// TOF-sinogram forward/back operations.
//
// Sigma and CenterOffset each have either one element (shared across
// all LORs) or N elements (one per LOR), selected by LORDepSigma and
// LORDepOffset respectively. NBins must be odd and positive; bin
// indices run from -(NBins/2) to +(NBins/2) inclusive, bin b centered
// at world-distance b*BinWidth+CenterOffset[k] from the LOR midpoint.
type TOFParams = joseph.TOFParams

// ListmodeTOF configures time-of-flight weighting for the listmode
// operations, where every event carries its own TOF bin index rather
// than contributing to a fixed range of contiguous bins.
type ListmodeTOF = joseph.ListmodeTOF
