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

// Forward computes the non-TOF Joseph forward projection of img along
// every LOR in lors, writing one value per LOR into out.
//
// Numerical behavior is documented, unchecked NaN/Inf propagation
// (spec §7.4): inputs containing NaN or Inf produce NaN/Inf outputs
// with no sanitization.
func Forward(ctx *Context, lors LORBatch, img Image, out []float32) error {
	const op = "Forward"
	n, err := validateLORs(op, lors)
	if err != nil {
		return err
	}
	if err := validateImage(op, img); err != nil {
		return err
	}
	if err := validateOutput(op, "out", out, n); err != nil {
		return err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			if err := ctx.cuda.Forward(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, ctx.ThreadsPerBlock, out[c[0]:c[1]]); err != nil {
				return deviceError(op, err)
			}
		}
		return nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		cpu.Forward(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, out[c[0]:c[1]])
	}
	return nil
}

// ForwardTOFSino computes the TOF-sinogram forward projection: for
// each LOR, a value per TOF bin, written row-major into out
// (row k at out[k*tof.NBins : (k+1)*tof.NBins]).
func ForwardTOFSino(ctx *Context, lors LORBatch, img Image, tof TOFParams, out []float32) error {
	const op = "ForwardTOFSino"
	n, err := validateLORs(op, lors)
	if err != nil {
		return err
	}
	if err := validateImage(op, img); err != nil {
		return err
	}
	if err := validateTOF(op, tof, n); err != nil {
		return err
	}
	if err := validateOutput(op, "out", out, n*tof.NBins); err != nil {
		return err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			chunkTOF := tofSlice(tof, c[0], c[1])
			outSlice := out[c[0]*tof.NBins : c[1]*tof.NBins]
			if err := ctx.cuda.ForwardTOFSino(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, chunkTOF, ctx.ThreadsPerBlock, outSlice); err != nil {
				return deviceError(op, err)
			}
		}
		return nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		chunkTOF := tofSlice(tof, c[0], c[1])
		outSlice := out[c[0]*tof.NBins : c[1]*tof.NBins]
		cpu.ForwardTOFSino(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, chunkTOF, outSlice)
	}
	return nil
}

// ForwardTOFListmode computes the TOF-listmode forward projection, one
// value per event into out.
func ForwardTOFListmode(ctx *Context, lors LORBatch, img Image, tof ListmodeTOF, out []float32) error {
	const op = "ForwardTOFListmode"
	n, err := validateLORs(op, lors)
	if err != nil {
		return err
	}
	if err := validateImage(op, img); err != nil {
		return err
	}
	if err := validateListmodeTOF(op, tof, n); err != nil {
		return err
	}
	if err := validateOutput(op, "out", out, n); err != nil {
		return err
	}

	if useCUDA(ctx) {
		for _, c := range chunks(n, ctx.NumChunks) {
			chunkTOF := listmodeTOFSlice(tof, c[0], c[1])
			if err := ctx.cuda.ForwardTOFListmode(lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, chunkTOF, ctx.ThreadsPerBlock, out[c[0]:c[1]]); err != nil {
				return deviceError(op, err)
			}
		}
		return nil
	}

	for _, c := range chunks(n, ctx.NumChunks) {
		chunkTOF := listmodeTOFSlice(tof, c[0], c[1])
		cpu.ForwardTOFListmode(ctx.pool, lors.XStart[3*c[0]:3*c[1]], lors.XEnd[3*c[0]:3*c[1]], img, chunkTOF, out[c[0]:c[1]])
	}
	return nil
}

// tofSlice narrows a TOFParams to the LOR-dependent arrays belonging
// to chunk [start, end), leaving shared (length-1) arrays untouched.
func tofSlice(tof TOFParams, start, end int) TOFParams {
	out := tof
	if tof.LORDepSigma {
		out.Sigma = tof.Sigma[start:end]
	}
	if tof.LORDepOffset {
		out.CenterOffset = tof.CenterOffset[start:end]
	}
	return out
}

func listmodeTOFSlice(tof ListmodeTOF, start, end int) ListmodeTOF {
	out := ListmodeTOF{TOFParams: tofSlice(tof.TOFParams, start, end), Bin: tof.Bin[start:end]}
	return out
}
