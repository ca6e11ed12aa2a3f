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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxAbs(a, b float64) float64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}

// TestPointSourceForward is the spec §8 "point source, non-TOF" scenario:
// a single center voxel of value 1, one LOR straight through the center
// along axis 0; the line integral should equal the voxel size.
func TestPointSourceForward(t *testing.T) {
	const n = 171
	const voxsize = 0.1
	dims := [3]int{n, n, n}
	vox := [3]float32{voxsize, voxsize, voxsize}
	origin := centeredOrigin(dims, vox)

	data := make([]float32, n*n*n)
	strides := Strides(dims)
	data[(n/2)*strides[0]+(n/2)*strides[1]+(n/2)*strides[2]] = 1

	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: data}

	got := ForwardLOR([3]float32{100, 0, 0}, [3]float32{-100, 0, 0}, img)
	assert.InDelta(t, voxsize, got, 1e-6)
}

func TestZeroImageForwardIsZero(t *testing.T) {
	dims := [3]int{8, 8, 8}
	vox := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, vox)
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, 8*8*8)}

	got := ForwardLOR([3]float32{-100, 0, 0}, [3]float32{100, 0, 0}, img)
	assert.Equal(t, float32(0), got)
}

func TestBackOfZeroLeavesImageUnchanged(t *testing.T) {
	dims := [3]int{8, 8, 8}
	vox := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, vox)
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, 8*8*8)}

	BackLOR([3]float32{-100, 0, 0}, [3]float32{100, 0, 0}, img, 0)
	for _, v := range img.Data {
		assert.Equal(t, float32(0), v)
	}
}

func TestLOROutsideBoundingBoxContributesNothing(t *testing.T) {
	dims := [3]int{8, 8, 8}
	vox := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, vox)
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, 8*8*8)}
	for i := range img.Data {
		img.Data[i] = 1
	}

	got := ForwardLOR([3]float32{-100, 1000, 0}, [3]float32{100, 1000, 0}, img)
	assert.Equal(t, float32(0), got)

	before := append([]float32(nil), img.Data...)
	BackLOR([3]float32{-100, 1000, 0}, [3]float32{100, 1000, 0}, img, 1)
	assert.Equal(t, before, img.Data)
}

// TestNonTOFAdjoint checks <Ax,y> == <x,A^T y> for a batch of random
// LORs against a random image, the core invariant of spec §8.1.
func TestNonTOFAdjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dims := [3]int{16, 15, 17}
	vox := [3]float32{0.7, 0.8, 0.6}
	origin := centeredOrigin(dims, vox)

	n := dims[0] * dims[1] * dims[2]
	x := make([]float32, n)
	for i := range x {
		x[i] = rng.Float32()
	}
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: x}

	const nLORs = 20000
	maxDim := float32(0)
	for a := 0; a < 3; a++ {
		if d := float32(dims[a]) * vox[a]; d > maxDim {
			maxDim = d
		}
	}
	R := 0.8 * maxDim

	type lor struct{ x0, x1 [3]float32 }
	lors := make([]lor, nLORs)
	y := make([]float32, nLORs)
	for k := range lors {
		lors[k].x0 = randSpherePoint(rng, R)
		lors[k].x1 = randSpherePoint(rng, R)
		y[k] = rng.Float32()
	}

	var ipA float64 // <Ax, y>
	fwd := make([]float32, nLORs)
	for k, l := range lors {
		fwd[k] = ForwardLOR(l.x0, l.x1, img)
		ipA += float64(fwd[k]) * float64(y[k])
	}

	back := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, n)}
	for k, l := range lors {
		BackLOR(l.x0, l.x1, back, y[k])
	}
	var ipB float64
	for i := range x {
		ipB += float64(x[i]) * float64(back.Data[i])
	}

	require.NotZero(t, ipA)
	rel := (ipA - ipB) / maxAbs(ipA, ipB)
	assert.InDelta(t, 0, rel, 1e-4)
}

func randSpherePoint(rng *rand.Rand, R float32) [3]float32 {
	phi := rng.Float64() * 2 * math.Pi
	costheta := rng.Float64()*2 - 1
	sintheta := math.Sqrt(1 - costheta*costheta)
	return [3]float32{
		float32(float64(R) * sintheta * math.Cos(phi)),
		float32(float64(R) * sintheta * math.Sin(phi)),
		float32(float64(R) * costheta),
	}
}
