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

package cuda

/*
#include <dlfcn.h>
#include <stdlib.h>

typedef void** devptr;

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

static void* pp_lookup(void* h, const char* name) { return dlsym(h, name); }
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/lukepolson/parallelproj/joseph"
)

// replicateToAllDevices copies a host float32 buffer to every visible
// device, returning an opaque per-device pointer array (spec §4.8
// "the image is copied once to each device").
func (b *Backend) replicateToAllDevices(data []float32) (unsafe.Pointer, error) {
	sym := C.pp_lookup(b.handle, C.CString("copy_float_array_to_all_devices"))
	if sym == nil {
		return nil, errors.New("libparallelproj_cuda: copy_float_array_to_all_devices not found")
	}
	fn := (C.copy_to_all_fn)(sym)
	return unsafe.Pointer(fn((*C.float)(unsafe.Pointer(&data[0])), C.longlong(len(data)))), nil
}

// freeOnAllDevices releases a per-device pointer array allocated by
// replicateToAllDevices.
func (b *Backend) freeOnAllDevices(ptr unsafe.Pointer) {
	sym := C.pp_lookup(b.handle, C.CString("free_float_array_on_all_devices"))
	if sym == nil || ptr == nil {
		return
	}
	fn := (C.free_on_all_fn)(sym)
	fn((C.devptr)(ptr))
}

// sumOnFirstDevice sums every device replica onto device 0 in place
// (spec §4.8 "a tree or pairwise reduction sums replicas onto device 0").
func (b *Backend) sumOnFirstDevice(ptr unsafe.Pointer, n int) error {
	sym := C.pp_lookup(b.handle, C.CString("sum_float_arrays_on_first_device"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: sum_float_arrays_on_first_device not found")
	}
	fn := (C.sum_on_first_fn)(sym)
	fn((C.devptr)(ptr), C.longlong(n))
	return nil
}

// fetchFromDevice copies n floats from device iDev's replica back to host.
func (b *Backend) fetchFromDevice(ptr unsafe.Pointer, n, iDev int, out []float32) error {
	sym := C.pp_lookup(b.handle, C.CString("get_float_array_from_device"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: get_float_array_from_device not found")
	}
	fn := (C.get_from_device_fn)(sym)
	fn((C.devptr)(ptr), C.longlong(n), C.int(iDev), (*C.float)(unsafe.Pointer(&out[0])))
	return nil
}

// Forward dispatches non-TOF forward projection through the native
// joseph3d_fwd_cuda entry point, replicating img to every visible
// device and concatenating per-chunk results on the host (spec §4.8
// forward path — chunk outputs are independent, so no reduction
// is needed for forward).
func (b *Backend) Forward(xstart, xend []float32, img joseph.Image, threadsPerBlock int, out []float32) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_fwd_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_fwd_cuda not found")
	}
	fn := (C.joseph3d_fwd_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&out[0])),
		C.longlong(len(out)),
		C.int(threadsPerBlock),
	)
	return nil
}

// Back dispatches non-TOF back projection through joseph3d_back_cuda,
// replicating img.Data (the caller's running accumulator, so repeated
// calls across chunks add rather than clobber) to every device,
// letting each device accumulate its chunk, summing every replica
// onto device 0, and copying the result back into img.Data (spec §4.8
// back path).
func (b *Backend) Back(xstart, xend []float32, img joseph.Image, p []float32, threadsPerBlock int) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_back_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_back_cuda not found")
	}
	fn := (C.joseph3d_back_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&p[0])),
		C.longlong(len(p)),
		C.int(threadsPerBlock),
	)

	if err := b.sumOnFirstDevice(devImg, img.NumVoxels()); err != nil {
		return err
	}
	return b.fetchFromDevice(devImg, img.NumVoxels(), 0, img.Data)
}

func tofFlags(tof joseph.TOFParams) (lorDepSigma, lorDepOffset C.uchar) {
	if tof.LORDepSigma {
		lorDepSigma = 1
	}
	if tof.LORDepOffset {
		lorDepOffset = 1
	}
	return
}

// ForwardTOFSino dispatches through joseph3d_fwd_tof_sino_cuda.
func (b *Backend) ForwardTOFSino(xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, threadsPerBlock int, out []float32) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_fwd_tof_sino_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_fwd_tof_sino_cuda not found")
	}
	fn := (C.joseph3d_fwd_tof_sino_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	lorDepSigma, lorDepOffset := tofFlags(tof)
	nLORs := len(xstart) / 3
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&out[0])),
		C.longlong(nLORs),
		C.float(tof.BinWidth),
		(*C.float)(unsafe.Pointer(&tof.Sigma[0])),
		(*C.float)(unsafe.Pointer(&tof.CenterOffset[0])),
		C.float(tof.NSigmas),
		C.short(tof.NBins),
		lorDepSigma,
		lorDepOffset,
		C.int(threadsPerBlock),
	)
	return nil
}

// BackTOFSino dispatches through joseph3d_back_tof_sino_cuda, with the
// same multi-GPU replicate/sum/fetch lifecycle as Back.
func (b *Backend) BackTOFSino(xstart, xend []float32, img joseph.Image, tof joseph.TOFParams, threadsPerBlock int, p []float32) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_back_tof_sino_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_back_tof_sino_cuda not found")
	}
	fn := (C.joseph3d_back_tof_sino_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	lorDepSigma, lorDepOffset := tofFlags(tof)
	nLORs := len(xstart) / 3
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&p[0])),
		C.longlong(nLORs),
		C.float(tof.BinWidth),
		(*C.float)(unsafe.Pointer(&tof.Sigma[0])),
		(*C.float)(unsafe.Pointer(&tof.CenterOffset[0])),
		C.float(tof.NSigmas),
		C.short(tof.NBins),
		lorDepSigma,
		lorDepOffset,
		C.int(threadsPerBlock),
	)

	if err := b.sumOnFirstDevice(devImg, img.NumVoxels()); err != nil {
		return err
	}
	return b.fetchFromDevice(devImg, img.NumVoxels(), 0, img.Data)
}

// ForwardTOFListmode dispatches through joseph3d_fwd_tof_lm_cuda.
func (b *Backend) ForwardTOFListmode(xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, threadsPerBlock int, out []float32) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_fwd_tof_lm_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_fwd_tof_lm_cuda not found")
	}
	fn := (C.joseph3d_fwd_tof_lm_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	lorDepSigma, lorDepOffset := tofFlags(tof.TOFParams)
	nLORs := len(xstart) / 3
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&out[0])),
		C.longlong(nLORs),
		C.float(tof.BinWidth),
		(*C.float)(unsafe.Pointer(&tof.Sigma[0])),
		(*C.float)(unsafe.Pointer(&tof.CenterOffset[0])),
		C.float(tof.NSigmas),
		(*C.short)(unsafe.Pointer(&tof.Bin[0])),
		lorDepSigma,
		lorDepOffset,
		C.int(threadsPerBlock),
	)
	return nil
}

// BackTOFListmode dispatches through joseph3d_back_tof_lm_cuda.
func (b *Backend) BackTOFListmode(xstart, xend []float32, img joseph.Image, tof joseph.ListmodeTOF, threadsPerBlock int, p []float32) error {
	devImg, err := b.replicateToAllDevices(img.Data)
	if err != nil {
		return err
	}
	defer b.freeOnAllDevices(devImg)

	sym := C.pp_lookup(b.handle, C.CString("joseph3d_back_tof_lm_cuda"))
	if sym == nil {
		return errors.New("libparallelproj_cuda: joseph3d_back_tof_lm_cuda not found")
	}
	fn := (C.joseph3d_back_tof_lm_fn)(sym)

	dims := [3]C.int{C.int(img.Dims[0]), C.int(img.Dims[1]), C.int(img.Dims[2])}
	lorDepSigma, lorDepOffset := tofFlags(tof.TOFParams)
	nLORs := len(xstart) / 3
	fn(
		(*C.float)(unsafe.Pointer(&xstart[0])),
		(*C.float)(unsafe.Pointer(&xend[0])),
		(*C.devptr)(devImg),
		&dims[0],
		(*C.float)(unsafe.Pointer(&img.Origin[0])),
		(*C.float)(unsafe.Pointer(&img.VoxSize[0])),
		(*C.float)(unsafe.Pointer(&p[0])),
		C.longlong(nLORs),
		C.float(tof.BinWidth),
		(*C.float)(unsafe.Pointer(&tof.Sigma[0])),
		(*C.float)(unsafe.Pointer(&tof.CenterOffset[0])),
		C.float(tof.NSigmas),
		(*C.short)(unsafe.Pointer(&tof.Bin[0])),
		lorDepSigma,
		lorDepOffset,
		C.int(threadsPerBlock),
	)

	if err := b.sumOnFirstDevice(devImg, img.NumVoxels()); err != nil {
		return err
	}
	return b.fetchFromDevice(devImg, img.NumVoxels(), 0, img.Data)
}
