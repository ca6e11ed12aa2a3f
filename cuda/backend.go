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

//go:build cuda

// Package cuda bridges to the native libparallelproj_cuda shared
// object the same way the original ctypes binding does
// (npct.load_library / function-pointer lookup), via cgo's dlopen
// instead of ctypes. Entry point names match backend.py exactly:
// joseph3d_fwd_cuda, joseph3d_back_cuda, joseph3d_fwd_tof_sino_cuda,
// joseph3d_back_tof_sino_cuda, joseph3d_fwd_tof_lm_cuda,
// joseph3d_back_tof_lm_cuda, copy_float_array_to_all_devices,
// free_float_array_on_all_devices, sum_float_arrays_on_first_device,
// get_float_array_from_device, get_cuda_device_count.
package cuda

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include <stdint.h>

typedef void (*joseph3d_fwd_fn)(float*, float*, float**, int*, float*, float*, float*, long long, int);
typedef void (*joseph3d_back_fn)(float*, float*, float**, int*, float*, float*, float*, long long, int);
typedef void (*joseph3d_fwd_tof_sino_fn)(float*, float*, float**, int*, float*, float*, float*, long long,
                                         float, float*, float*, float, short, unsigned char, unsigned char, int);
typedef void (*joseph3d_back_tof_sino_fn)(float*, float*, float**, int*, float*, float*, float*, long long,
                                          float, float*, float*, float, short, unsigned char, unsigned char, int);
typedef void (*joseph3d_fwd_tof_lm_fn)(float*, float*, float**, int*, float*, float*, float*, long long,
                                       float, float*, float*, float, short*, unsigned char, unsigned char, int);
typedef void (*joseph3d_back_tof_lm_fn)(float*, float*, float**, int*, float*, float*, float*, long long,
                                        float, float*, float*, float, short*, unsigned char, unsigned char, int);
typedef float** (*copy_to_all_fn)(float*, long long);
typedef void (*free_on_all_fn)(float**);
typedef void (*sum_on_first_fn)(float**, long long);
typedef void (*get_from_device_fn)(float**, long long, int, float*);
typedef int (*device_count_fn)(void);

static void* pp_dlopen(const char* path) { return dlopen(path, RTLD_NOW); }
static void* pp_dlsym(void* h, const char* name) { return dlsym(h, name); }
static int pp_device_count(void* fn) { return ((device_count_fn)fn)(); }
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Backend is a resolved handle to the CUDA native shared library. A
// nil *Backend (returned alongside a nil error when libPath is empty
// and the loader cannot find one) means CUDA support is simply absent
// — not an error — mirroring the Python binding's try/except around
// the CUDA load_library call.
type Backend struct {
	handle unsafe.Pointer

	deviceCountFn unsafe.Pointer
	numDevices    int
}

// Open resolves the CUDA shared library at libPath (or via the system
// loader path if libPath is empty) and queries its visible device
// count. Returns (nil, nil) if no CUDA library is found — that is not
// a Configuration error, since CUDA is optional.
func Open(libPath string) (*Backend, error) {
	var cPath *C.char
	if libPath != "" {
		cPath = C.CString(libPath)
		defer C.free(unsafe.Pointer(cPath))
	} else {
		cPath = C.CString("libparallelproj_cuda.so")
		defer C.free(unsafe.Pointer(cPath))
	}

	handle := C.pp_dlopen(cPath)
	if handle == nil {
		return nil, nil
	}

	countSym := C.pp_dlsym(handle, C.CString("get_cuda_device_count"))
	if countSym == nil {
		return nil, errors.New("libparallelproj_cuda: get_cuda_device_count symbol not found")
	}

	b := &Backend{handle: handle, deviceCountFn: countSym}
	b.numDevices = int(C.pp_device_count(countSym))
	return b, nil
}

// NumDevices returns the number of CUDA devices visible to the
// resolved library.
func (b *Backend) NumDevices() int {
	if b == nil {
		return 0
	}
	return b.numDevices
}

// Close releases the dlopen'd library handle.
func (b *Backend) Close() {
	if b == nil || b.handle == nil {
		return
	}
	C.dlclose(b.handle)
	b.handle = nil
}
