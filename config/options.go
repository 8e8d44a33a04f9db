// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package config implements the typed configuration surface of §4.7:
// Options/DefaultOptions, check/assign-hook semantics for each setting
// (§6 "configuration subsystem with value + check_hook + assign_hook"), and
// the cache-invalidation matrix of §4.5.
package config

import (
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmersimd"
)

// Options is the full configuration surface (§4.7). Field names mirror the
// spec's illustrative option names.
type Options struct {
	// KmerSize is k, used by every extraction and matching operation.
	KmerSize int
	// OccurBitlen is b, the occurrence-counter width; 2*KmerSize+OccurBitlen
	// must not exceed 64.
	OccurBitlen int
	// MinScore is the absolute threshold for the =% predicate.
	MinScore int
	// MinSharedRate is the relative threshold; the effective threshold is
	// the larger of MinScore and ceil(MinSharedRate * |query keys|).
	MinSharedRate float64
	// MaxAppearanceRate is the high-frequency row-fraction cutoff.
	MaxAppearanceRate float64
	// MaxAppearanceNrow is the high-frequency row-count cutoff (0 =
	// unlimited).
	MaxAppearanceNrow int
	// PrecludeHighfreqKmer filters high-frequency keys at index-build time.
	PrecludeHighfreqKmer bool
	// ForceSIMDCapability clamps SIMD dispatch to at most this tier; nil
	// means auto-detect.
	ForceSIMDCapability *kmersimd.Tier

	QueryKmerCacheMaxEntries     int
	ActualMinScoreCacheMaxEntries int
	HighFreqCacheMaxEntries      int

	AnalysisBatchSize  int
	CacheLoadBatchSize int

	// ParallelWorkerCap bounds the number of workers the frequency analyzer
	// may request (§4.4).
	ParallelWorkerCap int
}

// DefaultOptions mirrors fusion.DefaultOpts's role: normative defaults for
// every Options field.
var DefaultOptions = Options{
	KmerSize:                      16,
	OccurBitlen:                   4,
	MinScore:                      0,
	MinSharedRate:                 0.5,
	MaxAppearanceRate:             0.5,
	MaxAppearanceNrow:             0,
	PrecludeHighfreqKmer:          false,
	ForceSIMDCapability:           nil,
	QueryKmerCacheMaxEntries:      50000,
	ActualMinScoreCacheMaxEntries: 50000,
	HighFreqCacheMaxEntries:       50000,
	AnalysisBatchSize:             1000,
	CacheLoadBatchSize:            1000,
	ParallelWorkerCap:             8,
}

// Validate runs the check_hook logic for the full set of options (§4.7):
// 2k+b <= 64, and a forced SIMD tier cannot exceed what the host
// auto-detects.
func (o Options) Validate() error {
	if o.KmerSize < 4 || o.KmerSize > 32 {
		return kerrors.Errorf(kerrors.ConfigurationError, "config: kmer-size=%d out of range [4,32]", o.KmerSize)
	}
	if o.OccurBitlen < 0 || o.OccurBitlen > 16 {
		return kerrors.Errorf(kerrors.ConfigurationError, "config: occur-bitlen=%d out of range [0,16]", o.OccurBitlen)
	}
	if 2*o.KmerSize+o.OccurBitlen > 64 {
		return kerrors.Errorf(kerrors.ConfigurationError, "config: 2*kmer-size+occur-bitlen = %d exceeds 64", 2*o.KmerSize+o.OccurBitlen)
	}
	if o.MinSharedRate < 0 || o.MinSharedRate > 1 {
		return kerrors.Errorf(kerrors.ConfigurationError, "config: min-shared-rate=%v out of range [0,1]", o.MinSharedRate)
	}
	if o.MaxAppearanceRate < 0 || o.MaxAppearanceRate > 1 {
		return kerrors.Errorf(kerrors.ConfigurationError, "config: max-appearance-rate=%v out of range [0,1]", o.MaxAppearanceRate)
	}
	if o.ForceSIMDCapability != nil {
		if detected := kmersimd.DetectedTier(nil); *o.ForceSIMDCapability > detected {
			return kerrors.Errorf(kerrors.ConfigurationError,
				"config: force-simd-capability=%s exceeds auto-detected tier %s", o.ForceSIMDCapability, detected)
		}
	}
	return nil
}

// EffectiveSIMDTier resolves the tier that SIMD dispatch should use under o.
func (o Options) EffectiveSIMDTier() kmersimd.Tier {
	return kmersimd.DetectedTier(o.ForceSIMDCapability)
}

// ActualMinScore computes the effective =% threshold for a query with
// nQueryKeys keys (§4.5 "actual-min-score cache", §8 T7).
func (o Options) ActualMinScore(nQueryKeys int) int {
	rateThreshold := int(ceilFloat(o.MinSharedRate * float64(nQueryKeys)))
	if o.MinScore > rateThreshold {
		return o.MinScore
	}
	return rateThreshold
}

// HighFreqThreshold computes the row-count threshold above which a k-mer
// belongs to the persisted high-frequency set (§3 "Frequency record", §8 T8).
func (o Options) HighFreqThreshold(totalRows int) int {
	rateThreshold := int(ceilFloat(o.MaxAppearanceRate * float64(totalRows)))
	if o.MaxAppearanceNrow > rateThreshold {
		return o.MaxAppearanceNrow
	}
	return rateThreshold
}

func ceilFloat(v float64) float64 {
	i := float64(int64(v))
	if i < v {
		return i + 1
	}
	return i
}
