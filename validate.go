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

// validateImage checks the shape/precondition invariants spec.md §3
// places on Image (all dims >= 2, voxsize strictly positive, Data
// correctly sized).
func validateImage(op string, img Image) error {
	for a := 0; a < 3; a++ {
		if img.Dims[a] < 2 {
			return argumentError(op, "image dim %d is %d, must be >= 2", a, img.Dims[a])
		}
		if img.VoxSize[a] <= 0 {
			return argumentError(op, "voxsize[%d] is %v, must be > 0", a, img.VoxSize[a])
		}
	}
	if len(img.Data) != img.NumVoxels() {
		return argumentError(op, "image data has length %d, want %d", len(img.Data), img.NumVoxels())
	}
	return nil
}

// validateLORs checks that xstart and xend describe the same number
// of LORs and are both 3*N long.
func validateLORs(op string, lors LORBatch) (int, error) {
	if len(lors.XStart) != len(lors.XEnd) {
		return 0, argumentError(op, "xstart has length %d, xend has length %d", len(lors.XStart), len(lors.XEnd))
	}
	if len(lors.XStart)%3 != 0 {
		return 0, argumentError(op, "lor endpoint array length %d is not a multiple of 3", len(lors.XStart))
	}
	return lors.N(), nil
}

// validateTOF checks the TOF parameter invariants spec.md §7.2 names
// explicitly (n_tofbins odd, sigma > 0, tofbin_width > 0) plus the
// Open Question §9 flags: Sigma/CenterOffset must be length 1 or N,
// selected consistently with LORDepSigma/LORDepOffset.
func validateTOF(op string, tof TOFParams, n int) error {
	if tof.BinWidth <= 0 {
		return argumentError(op, "tofbin_width is %v, must be > 0", tof.BinWidth)
	}
	if tof.NSigmas <= 0 {
		return argumentError(op, "n_sigmas is %v, must be > 0", tof.NSigmas)
	}
	if tof.NBins <= 0 || tof.NBins%2 == 0 {
		return argumentError(op, "n_tofbins is %d, must be odd and > 0", tof.NBins)
	}
	if err := validateTOFArray(op, "sigma_tof", tof.Sigma, tof.LORDepSigma, n); err != nil {
		return err
	}
	if err := validateTOFArray(op, "tofcenter_offset", tof.CenterOffset, tof.LORDepOffset, n); err != nil {
		return err
	}
	for _, s := range tof.Sigma {
		if s <= 0 {
			return argumentError(op, "sigma_tof contains non-positive value %v", s)
		}
	}
	return nil
}

// validateListmodeTOF runs validateTOF's checks except the n_tofbins
// one (listmode has no bin count) plus a tof_bin array length check;
// the bin range is bounded by its int16 type.
func validateListmodeTOF(op string, tof ListmodeTOF, n int) error {
	if tof.BinWidth <= 0 {
		return argumentError(op, "tofbin_width is %v, must be > 0", tof.BinWidth)
	}
	if tof.NSigmas <= 0 {
		return argumentError(op, "n_sigmas is %v, must be > 0", tof.NSigmas)
	}
	if err := validateTOFArray(op, "sigma_tof", tof.Sigma, tof.LORDepSigma, n); err != nil {
		return err
	}
	if err := validateTOFArray(op, "tofcenter_offset", tof.CenterOffset, tof.LORDepOffset, n); err != nil {
		return err
	}
	for _, s := range tof.Sigma {
		if s <= 0 {
			return argumentError(op, "sigma_tof contains non-positive value %v", s)
		}
	}
	if len(tof.Bin) != n {
		return argumentError(op, "tof_bin has length %d, want %d", len(tof.Bin), n)
	}
	return nil
}

// validateTOFArray is the §9 Open Question resolution: Sigma and
// CenterOffset must be length 1 (shared) or exactly N (per-LOR),
// matching their LORDep flag — never validated at the original native
// boundary, validated here before any kernel call.
func validateTOFArray(op, name string, arr []float32, lorDep bool, n int) error {
	want := 1
	if lorDep {
		want = n
	}
	if len(arr) != want {
		return argumentError(op, "%s has length %d, want %d (lor-dependent=%v)", name, len(arr), want, lorDep)
	}
	return nil
}

// validateOutput checks a caller-supplied output buffer has the
// expected length.
func validateOutput(op, name string, out []float32, want int) error {
	if len(out) != want {
		return argumentError(op, "%s has length %d, want %d", name, len(out), want)
	}
	return nil
}
