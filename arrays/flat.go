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

// Package arrays provides thin conversion shims between the core
// projector's monomorphic []float32 buffer type and the array
// frameworks a caller might already hold its data in (gonum's
// *mat.Dense, a plain []float64 image). The core itself never imports
// these frameworks (spec §9 "the core itself is monomorphic in 32-bit
// float"); every shim here is a one-way or round-trip converter, not a
// wrapper around the projector's public API.
package arrays

// Flat is the row-major []float32 buffer shape every shim converts
// to and from; it's just joseph.Image's Data field by another name,
// named here so callers reading this package don't need to import
// joseph to see the target shape.
type Flat = []float32
