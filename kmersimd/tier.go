// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmersimd

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Tier names a level of SIMD support. Tiers are totally ordered within an
// architecture family; a routine declaring a minimum tier may run on that
// tier or any higher one. See spec §4.7/§4.1.
type Tier uint8

// amd64 tiers, low to high.
const (
	TierNone Tier = iota
	TierAVX2
	TierBMI2
	TierAVX512F
	TierAVX512BW
	TierAVX512VBMI
	TierAVX512VBMI2
)

// arm64 tiers. These share the zero value (TierNone) with the amd64 ladder;
// a process only ever walks one of the two ladders, selected by GOARCH at
// build time (see tier_amd64.go / tier_arm64.go).
const (
	TierNEON Tier = iota + 1
	TierSVE
	TierSVE2
)

// String renders a tier name for logging and the "report detected SIMD
// tier" administrative call (§6).
func (t Tier) String() string {
	if runtime.GOARCH == "arm64" {
		switch t {
		case TierNEON:
			return "neon"
		case TierSVE:
			return "sve"
		case TierSVE2:
			return "sve2"
		}
	}
	switch t {
	case TierNone:
		return "none"
	case TierAVX2:
		return "avx2"
	case TierBMI2:
		return "bmi2"
	case TierAVX512F:
		return "avx512f"
	case TierAVX512BW:
		return "avx512bw"
	case TierAVX512VBMI:
		return "avx512vbmi"
	case TierAVX512VBMI2:
		return "avx512vbmi2"
	default:
		return "unknown"
	}
}

// detectedTier is the highest tier this process found support for at init
// time. CPU feature detection never changes over a process's lifetime, so
// this is computed once rather than probed per call, matching the "dynamic
// dispatch on SIMD tier" design note: resolution happens once at module
// init, not per call.
var detectedTier = detectTier()

// DetectedTier returns the highest SIMD tier this process's CPU supports.
// force, if non-nil, clamps the returned tier to at most *force (this backs
// the force-simd-capability config option; it can only lower the tier, per
// §4.7: "cannot exceed auto-detected").
func DetectedTier(force *Tier) Tier {
	if force == nil {
		return detectedTier
	}
	if *force < detectedTier {
		return *force
	}
	return detectedTier
}

func detectTier() Tier {
	return detectTierForArch()
}

// cpuFeatures is a small indirection over golang.org/x/sys/cpu so tests can
// substitute a fake feature set without touching real CPUID state.
var cpuFeatures = struct {
	x86   *cpu.X86
	arm64 *cpu.ARM64
}{
	x86:   &cpu.X86,
	arm64: &cpu.ARM64,
}
