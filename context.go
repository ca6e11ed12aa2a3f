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

package parallelproj

import (
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lukepolson/parallelproj/cpu"
	"github.com/lukepolson/parallelproj/cuda"
	"github.com/lukepolson/parallelproj/workerpool"
)

// Context is the process-wide handle to the resolved backends: the CPU
// worker pool and, if a CUDA native library was found and reports
// visible devices, the CUDA backend. Fields besides the once-resolved
// handles are plain, caller-settable values (§6 "Context carries
// ThreadsPerBlock and NumChunks"); a Context is otherwise read-only
// once constructed and safe to share across goroutines.
type Context struct {
	// ThreadsPerBlock is the CUDA launch configuration; ignored on the
	// CPU backend. Default 32.
	ThreadsPerBlock int

	// NumChunks splits a LOR batch into this many contiguous pieces,
	// launched sequentially, to cap peak device memory (§4.6). Default 1.
	NumChunks int

	pool *workerpool.Pool
	cuda *cuda.Backend
}

var (
	defaultCtxOnce sync.Once
	defaultCtx     *Context
	defaultCtxErr  error
)

// DefaultContext returns the process-wide default Context, resolving
// backends exactly once the way hwy/dispatch.go's init() resolves the
// SIMD dispatch level once at load (here deferred to first use, since
// resolving CUDA may itself fail and must be reportable as an error
// rather than panicking at import time).
func DefaultContext() (*Context, error) {
	defaultCtxOnce.Do(func() {
		defaultCtx, defaultCtxErr = newContext()
	})
	return defaultCtx, defaultCtxErr
}

func newContext() (*Context, error) {
	ctx := &Context{
		ThreadsPerBlock: 32,
		NumChunks:       1,
		pool:            workerpool.New(cpu.NumWorkers()),
	}

	cLib := os.Getenv("PARALLELPROJ_C_LIB")
	cudaLib := os.Getenv("PARALLELPROJ_CUDA_LIB")
	log.Debug().Str("PARALLELPROJ_C_LIB", cLib).Str("PARALLELPROJ_CUDA_LIB", cudaLib).Msg("resolving native libraries")

	backend, err := cuda.Open(cudaLib)
	if err != nil {
		return nil, configurationError("newContext", err)
	}
	ctx.cuda = backend

	return ctx, nil
}

// NumVisibleCUDADevices reports how many CUDA devices the resolved
// CUDA backend sees, or 0 if no CUDA library was resolved.
func (c *Context) NumVisibleCUDADevices() int {
	if c.cuda == nil {
		return 0
	}
	return c.cuda.NumDevices()
}

// Close releases backend resources held by the Context (worker pool
// goroutines, any resolved CUDA library handle). Not required for
// DefaultContext, whose lifetime is the process.
func (c *Context) Close() {
	c.pool.Close()
	if c.cuda != nil {
		c.cuda.Close()
	}
}
