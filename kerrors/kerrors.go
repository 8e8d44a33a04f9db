// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package kerrors defines the error kinds raised across the engine (§7).
// Kinds are comparable values, not Go types: callers branch on Kind(err)
// rather than on a type assertion, matching the convention
// github.com/grailbio/base/errors uses for its own Kind enum.
package kerrors

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Kind classifies an error for programmatic handling. See §7 for the
// authoritative description of each kind.
type Kind string

const (
	// InvalidEncoding: a non-alphabet byte was found while parsing ASCII
	// nucleotide input.
	InvalidEncoding Kind = "invalid_encoding"
	// DimensionMismatch: a bit-length is incompatible with the configured k
	// (e.g. a DNA2 payload with an odd base count).
	DimensionMismatch Kind = "dimension_mismatch"
	// ConfigurationError: 2k+b > 64, or a SIMD tier was forced higher than
	// the host supports. Surfaced at config assign-hook time.
	ConfigurationError Kind = "configuration_error"
	// DegenerateExpansionTooLarge: a single k-mer window's degenerate
	// expansion exceeded the cap. The extractor recovers locally by
	// dropping the window and logging it at DEBUG level; it never
	// constructs an error of this kind.
	DegenerateExpansionTooLarge Kind = "degenerate_expansion_too_large"
	// OutOfMemory: propagated from the host memory-context mechanism. Never
	// constructed by this module; retained so callers have a kind to match
	// against if the host surfaces it through this package.
	OutOfMemory Kind = "out_of_memory"
	// WorkerFailure: one frequency-analyzer worker aborted, aborting the
	// whole analysis job.
	WorkerFailure Kind = "worker_failure"
	// NotInitialized: a call arrived before the module finished its
	// preload-time setup.
	NotInitialized Kind = "not_initialized"
)

// kindError pairs a Kind with a formatted message built via
// github.com/grailbio/base/errors, so logging keeps the same "op: detail:
// cause" chain shape the rest of the codebase uses, while still letting
// callers recover the Kind with As.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// E constructs an error of the given kind. args are formatted exactly as
// github.com/grailbio/base/errors.E formats them (a mix of strings and a
// wrapped cause error is conventional).
func E(kind Kind, args ...interface{}) error {
	return &kindError{kind: kind, err: errors.E(args...)}
}

// Errorf is a convenience wrapper combining fmt.Sprintf with E.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &kindError{kind: kind, err: errors.E(fmt.Sprintf(format, args...))}
}

// As returns the Kind the error was constructed with, and whether err (or a
// cause in its Unwrap chain) was constructed via this package.
func As(err error) (Kind, bool) {
	for err != nil {
		if ke, ok := err.(*kindError); ok {
			return ke.kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "", false
}

// Is reports whether err was constructed with the given kind.
func Is(err error, kind Kind) bool {
	k, ok := As(err)
	return ok && k == kind
}
