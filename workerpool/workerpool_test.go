// Copyright 2025 parallelproj Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	p := New(4)
	defer p.Close()
	assert.Equal(t, 4, p.NumWorkers())
}

func TestNewDefault(t *testing.T) {
	p := New(0)
	defer p.Close()
	assert.Greater(t, p.NumWorkers(), 0)
}

func TestParallelForCoversEveryIndex(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 10007
	seen := make([]int32, n)
	p.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, v := range seen {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestParallelForIndexedPartialAccumulation(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 1000
	partials := make([]float32, p.NumWorkers())
	p.ParallelForIndexed(n, func(worker, start, end int) {
		for i := start; i < end; i++ {
			partials[worker] += 1
		}
	})

	var total float32
	for _, v := range partials {
		total += v
	}
	assert.Equal(t, float32(n), total)
}

func TestParallelForSmallNUsesFewerWorkers(t *testing.T) {
	p := New(8)
	defer p.Close()

	var count, calls int32
	p.ParallelFor(3, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		atomic.AddInt32(&count, int32(end-start))
	})
	assert.Equal(t, int32(3), count)
	assert.Equal(t, int32(3), calls)
}

func TestParallelForZero(t *testing.T) {
	p := New(4)
	defer p.Close()

	called := false
	p.ParallelFor(0, func(start, end int) { called = true })
	assert.False(t, called)
}
