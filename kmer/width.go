// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package kmer implements the k-mer extraction pipeline (§4.2): sliding a
// window of length k over a packed sequence, forming uintkeys from the
// window's 2-bit encoding plus a same-sequence occurrence counter, and
// expanding DNA4 degenerate-base windows into their component k-mers.
package kmer

import "github.com/kmersearch/engine/kerrors"

// Width names the element size of a Keys array: the caller requests the
// smallest width that fits 2k+b bits (§4.2 "Width selection").
type Width uint8

const (
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// SelectWidth returns the smallest of {16,32,64} bits able to hold 2k+b,
// or a kerrors.ConfigurationError if even 64 bits is not enough.
func SelectWidth(k, occurBitlen int) (Width, error) {
	need := 2*k + occurBitlen
	switch {
	case need <= 16:
		return Width16, nil
	case need <= 32:
		return Width32, nil
	case need <= 64:
		return Width64, nil
	default:
		return 0, kerrors.Errorf(kerrors.ConfigurationError,
			"kmer: 2*k(%d) + occur-bitlen(%d) = %d exceeds the 64-bit uintkey budget", k, occurBitlen, need)
	}
}
