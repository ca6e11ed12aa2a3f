package joseph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func centeredOrigin(dims [3]int, voxsize [3]float32) [3]float32 {
	var origin [3]float32
	for a := 0; a < 3; a++ {
		origin[a] = (-float32(dims[a])/2 + 0.5) * voxsize[a]
	}
	return origin
}

func TestTraverseAxis0(t *testing.T) {
	dims := [3]int{171, 171, 171}
	voxsize := [3]float32{0.1, 0.1, 0.1}
	origin := centeredOrigin(dims, voxsize)

	x0 := [3]float32{100, 0, 0}
	x1 := [3]float32{-100, 0, 0}

	tr := Traverse(x0, x1, dims, voxsize, origin)
	require.True(t, tr.Valid)
	assert.Equal(t, 0, tr.Axis)
	assert.InDelta(t, 0.1, tr.Step, 1e-6)
	assert.Equal(t, 0, tr.IMin)
	assert.Equal(t, dims[0]-1, tr.IMax)
}

func TestTraverseOutsideBoundingBox(t *testing.T) {
	dims := [3]int{16, 16, 16}
	voxsize := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, voxsize)

	// LOR entirely outside the box: parallel to axis 0, offset far in axis 1.
	x0 := [3]float32{-100, 1000, 0}
	x1 := [3]float32{100, 1000, 0}

	tr := Traverse(x0, x1, dims, voxsize, origin)
	assert.False(t, tr.Valid)
}

func TestTraverseDegenerateLOR(t *testing.T) {
	dims := [3]int{8, 8, 8}
	voxsize := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, voxsize)

	tr := Traverse([3]float32{0, 0, 0}, [3]float32{0, 0, 0}, dims, voxsize, origin)
	assert.False(t, tr.Valid)
}

func TestPrincipalAxisTieBreak(t *testing.T) {
	dims := [3]int{8, 8, 8}
	voxsize := [3]float32{1, 1, 1}
	origin := centeredOrigin(dims, voxsize)

	// Equal magnitude displacement on axes 0 and 1: axis 0 wins.
	tr := Traverse([3]float32{-4, -4, 0}, [3]float32{4, 4, 0}, dims, voxsize, origin)
	require.True(t, tr.Valid)
	assert.Equal(t, 0, tr.Axis)
}
