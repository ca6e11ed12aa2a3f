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

package joseph

import "math"

const sqrt2 = math.Sqrt2

// TOFBinWeight computes the integral of a Gaussian centered at t with
// standard deviation sigma over the span of TOF bin b (spec §4.3):
//
//	W = 1/2 * [erf((t-t_b+w/2)/(sigma*sqrt2)) - erf((t-t_b-w/2)/(sigma*sqrt2))]
//
// where t_b = b*binWidth + centerOffset. Using the erf difference
// rather than sampling a Gaussian guarantees partition-of-unity across
// bins (spec §9): summing TOFBinWeight over all bins that could
// plausibly contain t recovers exactly 1.
func TOFBinWeight(t float32, b int, binWidth, centerOffset, sigma float32) float32 {
	tb := float32(b)*binWidth + centerOffset
	half := binWidth / 2
	denom := float64(sigma) * sqrt2

	hi := math.Erf((float64(t-tb) + float64(half)) / denom)
	lo := math.Erf((float64(t-tb) - float64(half)) / denom)
	return float32(0.5 * (hi - lo))
}

// BinRange returns the inclusive range of TOF bin indices within
// nSigmas standard deviations of t (spec §4.4 step 2), clamped to
// [-halfWidth, halfWidth] for sinogram mode. For listmode, halfWidth
// should be passed as a very large value (e.g. math.MaxInt32) so the
// range is not clamped beyond the single event bin the caller already
// knows.
func BinRange(t, binWidth, centerOffset, sigma, nSigmas float32, halfWidth int) (bMin, bMax int) {
	radius := nSigmas*sigma + binWidth/2
	lo := (t - centerOffset - radius) / binWidth
	hi := (t - centerOffset + radius) / binWidth

	bMin = int(math.Ceil(float64(lo)))
	bMax = int(math.Floor(float64(hi)))

	if bMin < -halfWidth {
		bMin = -halfWidth
	}
	if bMax > halfWidth {
		bMax = halfWidth
	}
	return
}

// InTOFRange reports whether bin b's center lies within nSigmas*sigma
// + binWidth/2 of t (the per-bin skip test in spec §4.3's last
// sentence), used by the listmode kernels which evaluate a single
// known bin rather than enumerating a range.
func InTOFRange(t float32, b int, binWidth, centerOffset, sigma, nSigmas float32) bool {
	tb := float32(b)*binWidth + centerOffset
	diff := t - tb
	if diff < 0 {
		diff = -diff
	}
	return diff <= nSigmas*sigma+binWidth/2
}
