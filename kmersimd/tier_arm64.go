// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// +build arm64

package kmersimd

func detectTierForArch() Tier {
	arm := cpuFeatures.arm64
	// golang.org/x/sys/cpu does not expose SVE/SVE2 feature bits as of the
	// version vendored here; NEON (always present on arm64) is the
	// practical detection ceiling. force-simd-capability can only lower
	// the tier, so SVE/SVE2 are never selected.
	_ = arm
	return TierNEON
}
