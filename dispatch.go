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

// useCUDA reports whether ctx should route a call to the CUDA backend
// instead of the CPU worker pool: exactly when a CUDA library was
// resolved and it reports at least one visible device (spec §4.7, with
// the device-residency branch collapsed per SPEC_FULL.md §4 since this
// core never accepts a caller-owned device pointer).
func useCUDA(ctx *Context) bool {
	return ctx.NumVisibleCUDADevices() > 0
}

// chunks splits n items into ctx.NumChunks contiguous pieces, the
// remainder distributed to the first rem chunks (spec §4.6 "the LOR
// batch is split into contiguous equal-size chunks; remainder
// distributed to the first rem chunks").
func chunks(n, numChunks int) [][2]int {
	if numChunks < 1 {
		numChunks = 1
	}
	if numChunks > n {
		numChunks = max(n, 1)
	}

	base := n / numChunks
	rem := n % numChunks

	out := make([][2]int, 0, numChunks)
	start := 0
	for i := 0; i < numChunks; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		out = append(out, [2]int{start, start + size})
		start += size
	}
	return out
}
