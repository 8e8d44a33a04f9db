// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package config

import "sync/atomic"

// Cache names the three caches of §4.5, for use in the invalidation matrix.
type Cache int

const (
	QueryKmerCache Cache = iota
	ActualMinScoreCache
	HighFreqCache
	numCaches
)

func (c Cache) String() string {
	switch c {
	case QueryKmerCache:
		return "query-kmer"
	case ActualMinScoreCache:
		return "actual-min-score"
	case HighFreqCache:
		return "high-freq-kmer"
	default:
		return "unknown"
	}
}

// Setting names a configuration field that participates in the
// invalidation matrix (§4.5).
type Setting int

const (
	SettingKmerSize Setting = iota
	SettingOccurBitlen
	SettingMaxAppearanceRateOrNrow
	SettingMinScoreOrSharedRate
)

// invalidationMatrix is §4.5's table, reproduced verbatim:
//
//	kmer_size                  -> all three caches
//	occur_bitlen                -> high-freq cache
//	max-appearance-rate/-nrow    -> actual-min-score + high-freq
//	min-score/min-shared-rate    -> actual-min-score
var invalidationMatrix = map[Setting][]Cache{
	SettingKmerSize:                {QueryKmerCache, ActualMinScoreCache, HighFreqCache},
	SettingOccurBitlen:             {HighFreqCache},
	SettingMaxAppearanceRateOrNrow: {ActualMinScoreCache, HighFreqCache},
	SettingMinScoreOrSharedRate:    {ActualMinScoreCache},
}

// Invalidator is the assign-hook target: something that can clear a named
// cache and report whether it held anything.
type Invalidator interface {
	// Clear empties the named cache and reports whether it was non-empty.
	Clear(c Cache) (wasPopulated bool)
}

// WarnFunc receives a warning when the high-freq cache is cleared while
// populated (§4.5: "emits a warning if and only if it was populated").
type WarnFunc func(format string, args ...interface{})

// Registry wires Setting changes to cache invalidation; it is the Go
// analogue of a set of PostgreSQL GUC assign_hooks sharing one target.
type Registry struct {
	inv  Invalidator
	warn WarnFunc

	// generation increments on every AssignHook call; callers holding a
	// cached config snapshot can cheaply detect staleness without locking.
	generation uint64
}

// NewRegistry builds a Registry whose assign-hooks invalidate caches on inv.
func NewRegistry(inv Invalidator, warn WarnFunc) *Registry {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	return &Registry{inv: inv, warn: warn}
}

// AssignHook runs when Setting's value changes: it clears every cache the
// invalidation matrix names for that setting.
func (r *Registry) AssignHook(s Setting) {
	atomic.AddUint64(&r.generation, 1)
	for _, c := range invalidationMatrix[s] {
		populated := r.inv.Clear(c)
		if c == HighFreqCache && populated {
			r.warn("high-frequency k-mer cache cleared; reload required before preclude-highfreq-kmer filtering resumes")
		}
	}
}

// Generation returns the current configuration generation, incremented on
// every assign-hook invocation. AssignHook clears each named cache in
// place, one cache after another; it does not swap cache pointers, so the
// clearing is not atomic across caches.
func (r *Registry) Generation() uint64 {
	return atomic.LoadUint64(&r.generation)
}
