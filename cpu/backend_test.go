package cpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukepolson/parallelproj/joseph"
	"github.com/lukepolson/parallelproj/workerpool"
)

func centeredOrigin(dims [3]int, voxsize [3]float32) [3]float32 {
	var origin [3]float32
	for a := 0; a < 3; a++ {
		origin[a] = (-float32(dims[a])/2 + 0.5) * voxsize[a]
	}
	return origin
}

func randSpherePoints(rng *rand.Rand, n int, R float32) (xstart, xend []float32) {
	xstart = make([]float32, 3*n)
	xend = make([]float32, 3*n)
	for k := 0; k < n; k++ {
		for _, buf := range [][]float32{xstart, xend} {
			buf[3*k] = float32(rng.NormFloat64()) * R
			buf[3*k+1] = float32(rng.NormFloat64()) * R
			buf[3*k+2] = float32(rng.NormFloat64()) * R
		}
	}
	return
}

// TestForwardBackAdjointViaPool is the pooled-dispatcher counterpart
// of joseph's single-LOR adjoint test: chunking across workers and
// reducing partial back-projection images must not change the
// <Ax,y> == <x,A^T y> invariant.
func TestForwardBackAdjointViaPool(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	dims := [3]int{14, 13, 15}
	vox := [3]float32{0.6, 0.7, 0.5}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	rng := rand.New(rand.NewSource(42))
	x := make([]float32, n)
	for i := range x {
		x[i] = rng.Float32()
	}
	img := joseph.Image{Dims: dims, VoxSize: vox, Origin: origin, Data: x}

	const nLORs = 5000
	xstart, xend := randSpherePoints(rng, nLORs, 10)
	y := make([]float32, nLORs)
	for i := range y {
		y[i] = rng.Float32()
	}

	fwd := make([]float32, nLORs)
	Forward(pool, xstart, xend, img, fwd)

	var ipA float64
	for k := range fwd {
		ipA += float64(fwd[k]) * float64(y[k])
	}

	back := joseph.Image{Dims: dims, VoxSize: vox, Origin: origin, Data: make([]float32, n)}
	Back(pool, xstart, xend, back, y)

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

func TestForwardMatchesSingleLORKernel(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	dims := [3]int{8, 8, 8}
	vox := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, vox)
	n := dims[0] * dims[1] * dims[2]

	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i) * 0.01
	}
	img := joseph.Image{Dims: dims, VoxSize: vox, Origin: origin, Data: data}

	xstart := []float32{-100, 0, 0, -100, 1, 0}
	xend := []float32{100, 0, 0, 100, 1, 0}

	out := make([]float32, 2)
	Forward(pool, xstart, xend, img, out)

	want0 := joseph.ForwardLOR([3]float32{-100, 0, 0}, [3]float32{100, 0, 0}, img)
	want1 := joseph.ForwardLOR([3]float32{-100, 1, 0}, [3]float32{100, 1, 0}, img)
	assert.Equal(t, want0, out[0])
	assert.Equal(t, want1, out[1])
}
