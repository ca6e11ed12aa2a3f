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

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestListmodeEqualsSinoBin is the spec §8.6 invariant: for any event
// in bin b, the listmode forward value equals the sinogram forward
// value at [k, b], bitwise (both kernels evaluate the exact same
// per-plane traversal and weight formula, so this should hold exactly,
// not just approximately).
func TestListmodeEqualsSinoBin(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dims := [3]int{16, 15, 17}
	vox := [3]float32{0.7, 0.8, 0.6}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	data := make([]float32, n)
	for i := range data {
		data[i] = rng.Float32()
	}
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: data}

	const binWidth = 2.0
	const nBins = 11
	const nsigmas = 3.0
	sigma := float32(5.0 / 2.35)
	halfWidth := nBins / 2

	maxDim := float32(0)
	for a := 0; a < 3; a++ {
		if d := float32(dims[a]) * vox[a]; d > maxDim {
			maxDim = d
		}
	}
	R := 0.8 * maxDim

	for trial := 0; trial < 50; trial++ {
		x0 := randSpherePoint(rng, R)
		x1 := randSpherePoint(rng, R)

		sino := make([]float32, nBins)
		ForwardTOFSinoLOR(x0, x1, img, binWidth, 0, sigma, nsigmas, halfWidth, sino)

		for b := -halfWidth; b <= halfWidth; b++ {
			lm := ForwardTOFListmodeLOR(x0, x1, img, binWidth, 0, sigma, nsigmas, int16(b))
			assert.Equal(t, sino[b+halfWidth], lm, "bin %d", b)
		}
	}
}

func TestListmodeBackMatchesSinoBack(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dims := [3]int{10, 11, 9}
	vox := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	const binWidth = 2.0
	const nBins = 7
	const nsigmas = 3.0
	sigma := float32(2.0)
	halfWidth := nBins / 2

	maxDim := float32(0)
	for a := 0; a < 3; a++ {
		if d := float32(dims[a]) * vox[a]; d > maxDim {
			maxDim = d
		}
	}
	R := 0.8 * maxDim

	x0 := randSpherePoint(rng, R)
	x1 := randSpherePoint(rng, R)
	b := 2

	imgSino := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, n)}
	sino := make([]float32, nBins)
	sino[b+halfWidth] = 3.5
	BackTOFSinoLOR(x0, x1, imgSino, binWidth, 0, sigma, nsigmas, halfWidth, sino)

	imgLM := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, n)}
	BackTOFListmodeLOR(x0, x1, imgLM, binWidth, 0, sigma, nsigmas, int16(b), 3.5)

	assert.Equal(t, imgSino.Data, imgLM.Data)
}
