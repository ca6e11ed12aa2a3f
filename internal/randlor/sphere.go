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

// Package randlor generates line-of-response endpoint batches for
// tests and the pprojbench adjointness scenario, in the flattened
// xstart/xend shape joseph.LORBatch expects.
package randlor

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Sphere fills an xstart/xend pair of length 3*n each with endpoints
// drawn uniformly at random on a sphere of radius R centered at the
// origin (spec §8 "10^6 LORs with endpoints on a sphere of radius
// 0.8*max(dim*voxsize)"), using mgl32 the way xray_projection_render
// uses mgl64 to build camera-space unit vectors, ported to float32 to
// match the projector's single-precision domain.
func Sphere(rng *rand.Rand, n int, R float32) (xstart, xend []float32) {
	xstart = make([]float32, 3*n)
	xend = make([]float32, 3*n)
	for k := 0; k < n; k++ {
		p0 := spherePoint(rng, R)
		p1 := spherePoint(rng, R)
		copy(xstart[3*k:3*k+3], p0[:])
		copy(xend[3*k:3*k+3], p1[:])
	}
	return
}

func spherePoint(rng *rand.Rand, R float32) mgl32.Vec3 {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	sinTheta := math.Sqrt(math.Max(0, 1-z*z))
	v := mgl32.Vec3{
		float32(sinTheta * math.Cos(phi)),
		float32(sinTheta * math.Sin(phi)),
		float32(z),
	}
	return v.Mul(R)
}

// Box fills an xstart/xend pair with endpoints drawn uniformly from an
// axis-aligned box [-half, half]^3. The pprojbench CLI does not use it;
// only Sphere backs the CLI's adjointness scenario.
func Box(rng *rand.Rand, n int, half float32) (xstart, xend []float32) {
	xstart = make([]float32, 3*n)
	xend = make([]float32, 3*n)
	for i := range xstart {
		xstart[i] = float32(rng.Float64()*2-1) * half
		xend[i] = float32(rng.Float64()*2-1) * half
	}
	return
}
