// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// +build amd64

package kmersimd

func detectTierForArch() Tier {
	x86 := cpuFeatures.x86
	// golang.org/x/sys/cpu as vendored here does not expose VBMI/VBMI2
	// feature bits, so AVX512BW is the practical detection ceiling; the
	// AVX512VBMI and AVX512VBMI2 tier constants exist but are never
	// auto-detected on this toolchain, and force-simd-capability can only
	// lower the tier, so they are never selected.
	switch {
	case x86.HasAVX512BW:
		return TierAVX512BW
	case x86.HasAVX512F:
		return TierAVX512F
	case x86.HasBMI2:
		return TierBMI2
	case x86.HasAVX2:
		return TierAVX2
	default:
		return TierNone
	}
}
