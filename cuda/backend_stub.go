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

//go:build !cuda

// Package cuda, built without the cuda tag, never resolves a native
// library and always reports zero visible devices. dispatch.go then
// always selects the CPU backend (spec §4.7 "CUDA used automatically
// whenever the CUDA library resolves and reports >= 1 device, else
// CPU").
package cuda

import "github.com/lukepolson/parallelproj/joseph"

// Backend is the non-cuda stand-in; always reports zero devices.
type Backend struct{}

// Open always returns (nil, nil): CUDA support was not compiled in,
// which is not a Configuration error since CUDA is optional.
func Open(libPath string) (*Backend, error) {
	return nil, nil
}

// NumDevices always returns 0.
func (b *Backend) NumDevices() int { return 0 }

// Close is a no-op.
func (b *Backend) Close() {}

// Forward is unreachable: dispatch.go never selects the CUDA backend
// when NumDevices reports 0.
func (b *Backend) Forward(xstart, xend []float32, img joseph.Image, threadsPerBlock int, out []float32) error {
	panic("cuda: backend not compiled in")
}

// Back is unreachable for the same reason as Forward.
func (b *Backend) Back(xstart, xend []float32, img joseph.Image, p []float32, threadsPerBlock int) error {
	panic("cuda: backend not compiled in")
}

// ForwardTOFSino is unreachable; see Forward.
func (b *Backend) ForwardTOFSino(xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, threadsPerBlock int, out []float32) error {
	panic("cuda: backend not compiled in")
}

// BackTOFSino is unreachable; see Forward.
func (b *Backend) BackTOFSino(xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, threadsPerBlock int, p []float32) error {
	panic("cuda: backend not compiled in")
}

// ForwardTOFListmode is unreachable; see Forward.
func (b *Backend) ForwardTOFListmode(xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, threadsPerBlock int, out []float32) error {
	panic("cuda: backend not compiled in")
}

// BackTOFListmode is unreachable; see Forward.
func (b *Backend) BackTOFListmode(xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, threadsPerBlock int, p []float32) error {
	panic("cuda: backend not compiled in")
}
