package arrays

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestDenseSlicesRoundTrip(t *testing.T) {
	voxsize := [3]float32{1, 2, 3}
	origin := [3]float32{0, 0, 0}

	planes := []*mat.Dense{
		mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		mat.NewDense(2, 3, []float64{7, 8, 9, 10, 11, 12}),
	}

	img := FromDenseSlices(planes, voxsize, origin)
	assert.Equal(t, [3]int{2, 2, 3}, img.Dims)
	assert.Equal(t, float32(1), img.Data[0])
	assert.Equal(t, float32(12), img.Data[len(img.Data)-1])

	back := ToDenseSlices(img)
	assert.Equal(t, planes[0].RawMatrix().Data, back[0].RawMatrix().Data)
	assert.Equal(t, planes[1].RawMatrix().Data, back[1].RawMatrix().Data)
}

func TestFloat64RoundTrip(t *testing.T) {
	dims := [3]int{2, 2, 2}
	voxsize := [3]float32{1, 1, 1}
	origin := [3]float32{0, 0, 0}

	data := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	img := FromFloat64(data, dims, voxsize, origin)
	assert.Equal(t, data, ToFloat64(img))
}
