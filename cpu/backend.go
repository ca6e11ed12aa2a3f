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

// Package cpu wires the joseph kernels to a persistent workerpool.Pool,
// chunking a LOR batch across workers the way the native OpenMP build
// parallelizes over "for (i=0; i<nlors; i++)" (spec §4.6 CPU path).
//
// Forward projection partitions LORs across workers with no
// synchronization: every worker reads the same image and writes a
// disjoint slice of the output array. Back-projection instead gives
// each worker its own private image-sized accumulator and sums them
// in a reduction pass once every worker finishes (spec §5's documented
// alternative to float CAS-loop atomics).
package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/lukepolson/parallelproj/joseph"
	"github.com/lukepolson/parallelproj/workerpool"
)

// NumWorkers picks a worker count from GOMAXPROCS, nudged down on
// cores that report no usable wide-SIMD hint since the Joseph stencil
// is scalar per tap and gains nothing from extra oversubscription on
// those cores.
func NumWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n > 1 && !cpu.X86.HasAVX2 && !cpu.ARM64.HasASIMD {
		n = max(n/2, 1)
	}
	return n
}

// Forward computes the non-TOF forward projection of img along every
// LOR in the batch, writing one value per LOR into out.
func Forward(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, out []float32) {
	n := len(out)
	pool.ParallelFor(n, func(start, end int) {
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			out[k] = joseph.ForwardLOR(x0, x1, img)
		}
	})
}

// Back accumulates the non-TOF back projection of p along every LOR
// in the batch into img.Data, using one partial accumulator per
// worker and a final reduction pass.
func Back(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, p []float32) {
	n := len(p)
	partials := newPartials(pool.NumWorkers(), img)

	pool.ParallelForIndexed(n, func(worker, start, end int) {
		acc := partials[worker]
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			joseph.BackLOR(x0, x1, acc, p[k])
		}
	})

	reduce(img, partials)
}

// ForwardTOFSino computes the TOF-sinogram forward projection, writing
// nBins values per LOR into out (row k occupies out[k*nBins:(k+1)*nBins]).
func ForwardTOFSino(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, out []float32) {
	n := tof.NBins
	nLORs := len(xstart) / 3
	halfWidth := tof.HalfWidth()

	pool.ParallelFor(nLORs, func(start, end int) {
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			row := out[k*n : (k+1)*n]
			joseph.ForwardTOFSinoLOR(x0, x1, img, tof.BinWidth, tof.CenterOffsetAt(k), tof.SigmaAt(k), tof.NSigmas, halfWidth, row)
		}
	})
}

// BackTOFSino accumulates the TOF-sinogram back projection of p into
// img.Data, one private accumulator per worker plus reduction.
func BackTOFSino(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, p []float32) {
	n := tof.NBins
	nLORs := len(xstart) / 3
	halfWidth := tof.HalfWidth()
	partials := newPartials(pool.NumWorkers(), img)

	pool.ParallelForIndexed(nLORs, func(worker, start, end int) {
		acc := partials[worker]
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			row := p[k*n : (k+1)*n]
			joseph.BackTOFSinoLOR(x0, x1, acc, tof.BinWidth, tof.CenterOffsetAt(k), tof.SigmaAt(k), tof.NSigmas, halfWidth, row)
		}
	})

	reduce(img, partials)
}

// ForwardTOFListmode computes the TOF-listmode forward projection, one
// value per event into out.
func ForwardTOFListmode(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, out []float32) {
	n := len(out)
	pool.ParallelFor(n, func(start, end int) {
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			out[k] = joseph.ForwardTOFListmodeLOR(x0, x1, img, tof.BinWidth, tof.CenterOffsetAt(k), tof.SigmaAt(k), tof.NSigmas, tof.Bin[k])
		}
	})
}

// BackTOFListmode accumulates the TOF-listmode back projection of p
// into img.Data, one private accumulator per worker plus reduction.
func BackTOFListmode(pool *workerpool.Pool, xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, p []float32) {
	n := len(p)
	partials := newPartials(pool.NumWorkers(), img)

	pool.ParallelForIndexed(n, func(worker, start, end int) {
		acc := partials[worker]
		for k := start; k < end; k++ {
			x0 := [3]float32{xstart[3*k], xstart[3*k+1], xstart[3*k+2]}
			x1 := [3]float32{xend[3*k], xend[3*k+1], xend[3*k+2]}
			joseph.BackTOFListmodeLOR(x0, x1, acc, tof.BinWidth, tof.CenterOffsetAt(k), tof.SigmaAt(k), tof.NSigmas, tof.Bin[k], p[k])
		}
	})

	reduce(img, partials)
}

// newPartials allocates one zeroed image-shaped accumulator per
// worker, sharing img's geometry but not its Data backing array.
func newPartials(numWorkers int, img joseph.Image) []joseph.Image {
	partials := make([]joseph.Image, numWorkers)
	for w := range partials {
		partials[w] = joseph.Image{
			Dims:    img.Dims,
			VoxSize: img.VoxSize,
			Origin:  img.Origin,
			Data:    make([]float32, img.NumVoxels()),
		}
	}
	return partials
}

// reduce sums every partial accumulator into img.Data in place.
func reduce(img joseph.Image, partials []joseph.Image) {
	for _, partial := range partials {
		dst := img.Data
		for i, v := range partial.Data {
			dst[i] += v
		}
	}
}
