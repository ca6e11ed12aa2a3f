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

package parallelproj

import (
	"github.com/lukepolson/parallelproj/cpu"
)

// Back accumulates the non-TOF back projection of p along every LOR in
// lors into a newly allocated image of the given shape and geometry.
//
// Summation order across LORs, chunks, and backends is unspecified
// (spec §5 "results may differ by ULPs"); adjointness, not bitwise
// determinism, is the guaranteed invariant.
func Back(ctx *Context, lors LORBatch, imgShape [3]int, origin, voxsize [3]float32, p []float32) (Image, error) {
	const op = "Back"
	out := Image{Dims: imgShape, VoxSize: voxsize, Origin: origin, Data: make([]float32, imgShape[0]*imgShape[1]*imgShape[2])}
	if err := validateImage(op, out); err != nil {
		return Image{}, err
	}
	n, err := validateLORs(op, lors)
	if err != nil {
		return Image{}, err
	}
	if err := validateOutput(op, "p", p, n); err != nil {
		return Image{}, err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			if err := ctx.cuda.Back(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, p[c[0]:c[1]], ctx.ThreadsPerBlock); err != nil {
				return Image{}, deviceError(op, err)
			}
		}
		return out, nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		cpu.Back(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, p[c[0]:c[1]])
	}
	return out, nil
}

// BackTOFSino accumulates the TOF-sinogram back projection of p
// (row-major, row k at p[k*tof.NBins:(k+1)*tof.NBins]) into a newly
// allocated image.
func BackTOFSino(ctx *Context, lors LORBatch, imgShape [3]int, origin, voxsize [3]float32, p []float32, tof TOFParams) (Image, error) {
	const op = "BackTOFSino"
	out := Image{Dims: imgShape, VoxSize: voxsize, Origin: origin, Data: make([]float32, imgShape[0]*imgShape[1]*imgShape[2])}
	if err := validateImage(op, out); err != nil {
		return Image{}, err
	}
	n, err := validateLORs(op, lors)
	if err != nil {
		return Image{}, err
	}
	if err := validateTOF(op, tof, n); err != nil {
		return Image{}, err
	}
	if err := validateOutput(op, "p", p, n*tof.NBins); err != nil {
		return Image{}, err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			chunkTOF := tofSlice(tof, c[0], c[1])
			pSlice := p[c[0]*tof.NBins : c[1]*tof.NBins]
			if err := ctx.cuda.BackTOFSino(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, chunkTOF, ctx.ThreadsPerBlock, pSlice); err != nil {
				return Image{}, deviceError(op, err)
			}
		}
		return out, nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		chunkTOF := tofSlice(tof, c[0], c[1])
		pSlice := p[c[0]*tof.NBins : c[1]*tof.NBins]
		cpu.BackTOFSino(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, chunkTOF, pSlice)
	}
	return out, nil
}

// BackTOFListmode accumulates the TOF-listmode back projection of p
// (one value per event) into a newly allocated image.
func BackTOFListmode(ctx *Context, lors LORBatch, imgShape [3]int, origin, voxsize [3]float32, p []float32, tof ListmodeTOF) (Image, error) {
	const op = "BackTOFListmode"
	out := Image{Dims: imgShape, VoxSize: voxsize, Origin: origin, Data: make([]float32, imgShape[0]*imgShape[1]*imgShape[2])}
	if err := validateImage(op, out); err != nil {
		return Image{}, err
	}
	n, err := validateLORs(op, lors)
	if err != nil {
		return Image{}, err
	}
	if err := validateListmodeTOF(op, tof, n); err != nil {
		return Image{}, err
	}
	if err := validateOutput(op, "p", p, n); err != nil {
		return Image{}, err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			chunkTOF := listmodeTOFSlice(tof, c[0], c[1])
			if err := ctx.cuda.BackTOFListmode(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, chunkTOF, ctx.ThreadsPerBlock, p[c[0]:c[1]]); err != nil {
				return Image{}, deviceError(op, err)
			}
		}
		return out, nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		chunkTOF := listmodeTOFSlice(tof, c[0], c[1])
		cpu.BackTOFListmode(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], out, chunkTOF, p[c[0]:c[1]])
	}
	return out, nil
}
