// Copyright 2025 parallelproj Authors. SPDX-License-Identifier: Apache-2.0

package parallelproj

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := newContext()
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx
}

func centeredOrigin(dims [3]int, voxsize [3]float32) [3]float32 {
	var origin [3]float32
	for a := 0; a < 3; a++ {
		origin[a] = (-float32(dims[a])/2 + 0.5) * voxsize[a]
	}
	return origin
}

func TestForwardPointSource(t *testing.T) {
	ctx := testContext(t)

	dims := [3]int{171, 171, 171}
	vox := [3]float32{0.1, 0.1, 0.1}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	data := make([]float32, n)
	strides := [3]int{dims[1] * dims[2], dims[2], 1}
	data[(171/2)*strides[0]+(171/2)*strides[1]+(171/2)*strides[2]] = 1
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: data}

	lors := LORBatch{XStart: []float32{100, 0, 0}, XEnd: []float32{-100, 0, 0}}
	out := make([]float32, 1)

	require.NoError(t, Forward(ctx, lors, img, out))
	assert.InDelta(t, 0.1, out[0], 1e-6)
}

func TestForwardRejectsBadImage(t *testing.T) {
	ctx := testContext(t)
	img := Image{Dims: [3]int{1, 4, 4}, VoxSize: [3]float32{1, 1, 1}, Data: make([]float32, 16)}
	lors := LORBatch{XStart: []float32{0, 0, 0}, XEnd: []float32{1, 0, 0}}
	out := make([]float32, 1)

	err := Forward(ctx, lors, img, out)
	require.Error(t, err)
	var ppErr *Error
	require.ErrorAs(t, err, &ppErr)
	assert.Equal(t, ErrArgument, ppErr.Kind)
}

func TestForwardRejectsMismatchedOutput(t *testing.T) {
	ctx := testContext(t)
	img := Image{Dims: [3]int{4, 4, 4}, VoxSize: [3]float32{1, 1, 1}, Data: make([]float32, 64)}
	lors := LORBatch{XStart: []float32{0, 0, 0}, XEnd: []float32{1, 0, 0}}
	out := make([]float32, 2)

	err := Forward(ctx, lors, img, out)
	require.Error(t, err)
}

func TestForwardBackAdjointThroughPublicAPI(t *testing.T) {
	ctx := testContext(t)

	dims := [3]int{16, 15, 17}
	vox := [3]float32{0.7, 0.8, 0.6}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	rng := rand.New(rand.NewSource(99))
	x := make([]float32, n)
	for i := range x {
		x[i] = rng.Float32()
	}
	img := Image{Dims: dims, VoxSize: vox, Origin: origin, Data: x}

	const nLORs = 3000
	xstart := make([]float32, 3*nLORs)
	xend := make([]float32, 3*nLORs)
	for i := range xstart {
		xstart[i] = float32(rng.NormFloat64()) * 10
		xend[i] = float32(rng.NormFloat64()) * 10
	}
	lors := LORBatch{XStart: xstart, XEnd: xend}

	y := make([]float32, nLORs)
	for i := range y {
		y[i] = rng.Float32()
	}

	fwd := make([]float32, nLORs)
	require.NoError(t, Forward(ctx, lors, img, fwd))

	var ipA float64
	for k := range fwd {
		ipA += float64(fwd[k]) * float64(y[k])
	}

	back, err := Back(ctx, lors, dims, origin, vox, y)
	require.NoError(t, err)

	var ipB float64
	for i := range x {
		ipB += float64(x[i]) * float64(back.Data[i])
	}

	require.NotZero(t, ipA)
	rel := (ipA - ipB) / ipA
	if rel < 0 {
		rel = -rel
	}
	assert.InDelta(t, 0, rel, 1e-4)
}

func TestChunksCoversAllIndices(t *testing.T) {
	for _, nc := range []int{1, 2, 3, 7} {
		cs := chunks(17, nc)
		total := 0
		for _, c := range cs {
			total += c[1] - c[0]
		}
		assert.Equal(t, 17, total)
	}
}

func TestChunksHandlesMoreChunksThanItems(t *testing.T) {
	cs := chunks(2, 5)
	total := 0
	for _, c := range cs {
		total += c[1] - c[0]
	}
	assert.Equal(t, 2, total)
}
