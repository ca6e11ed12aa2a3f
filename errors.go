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
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failure surfaced at the public API boundary.
//
// Numerical failures (NaN/Inf propagating through the projector) are
// deliberately not a Kind here: they are silent, documented behavior,
// not a condition the adapter ever detects.
type ErrorKind int

const (
	// ErrConfiguration indicates a required native library could not be
	// located. Raised during Context construction; fatal for the session.
	ErrConfiguration ErrorKind = iota

	// ErrArgument indicates a shape, dtype, contiguity, or TOF parameter
	// precondition failed. Raised before any kernel launch.
	ErrArgument

	// ErrDevice indicates a CUDA allocation or launch failure. Raised
	// after the failing device call; any device buffers already
	// acquired are released before the error propagates.
	ErrDevice
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "configuration"
	case ErrArgument:
		return "argument"
	case ErrDevice:
		return "device"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across the parallelproj public
// API. Op names the operation that failed (e.g. "Forward",
// "BackTOFSino"); Err is the underlying cause, already wrapped with a
// stack trace by github.com/pkg/errors where one exists.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parallelproj: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("parallelproj: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func argumentError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrArgument, Op: op, Err: errors.Errorf(format, args...)}
}

func configurationError(op string, cause error) *Error {
	return &Error{Kind: ErrConfiguration, Op: op, Err: errors.Wrap(cause, "resolving native library")}
}

func deviceError(op string, cause error) *Error {
	return &Error{Kind: ErrDevice, Op: op, Err: errors.Wrap(cause, "cuda backend")}
}
