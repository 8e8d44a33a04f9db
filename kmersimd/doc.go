// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package kmersimd provides tier-dispatched bit-packing primitives for the
// DNA2/DNA4 packed sequence representations.
//
// The exported functions (PackDNA2, UnpackDNA2, PackDNA4, UnpackDNA4,
// ASCIIToDNA2Code, ASCIIToDNA4Mask) are pure functions of their input: for a
// given input they produce the same output bytes regardless of which tier
// actually executed, per the SIMD-equivalence testable property. The tier
// is detected once, at package init (see tier.go). Each call then branches
// between the scalar path and the wide path on that tier and on the input
// length (tiny inputs stay scalar); there is no per-tier function-pointer
// table, and every tier above TierNone takes the same wide path.
package kmersimd
