// Copyright 2025 parallelproj Authors. SPDX-License-Identifier: Apache-2.0

package randlor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSphereEndpointsOnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const R = 42.0
	xstart, xend := Sphere(rng, 100, R)

	for k := 0; k < 100; k++ {
		for _, buf := range [][]float32{xstart, xend} {
			x, y, z := buf[3*k], buf[3*k+1], buf[3*k+2]
			norm := math.Sqrt(float64(x*x + y*y + z*z))
			assert.InDelta(t, R, norm, 1e-3)
		}
	}
}

func TestBoxEndpointsWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	const half = 10.0
	xstart, xend := Box(rng, 50, half)

	for _, buf := range [][]float32{xstart, xend} {
		for _, v := range buf {
			assert.LessOrEqual(t, v, float32(half))
			assert.GreaterOrEqual(t, v, float32(-half))
		}
	}
}
