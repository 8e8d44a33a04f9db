// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package index implements the inverted-index adapter (§4.6): the
// extract_value/extract_query/consistent operations a host's index access
// method calls, plus the `=%` predicate and `match-score` operator built on
// top of the match kernel and the cache layer.
package index

import (
	"github.com/kmersearch/engine/cache"
	"github.com/kmersearch/engine/config"
	"github.com/kmersearch/engine/kmer"
	"github.com/kmersearch/engine/match"
	"github.com/kmersearch/engine/packed"
)

// StrategyApproximate is the only strategy bit this adapter ever returns
// from ExtractQuery: the index is always a lower-bound/approximate
// structure per §4.6 ("the index provides a lower bound, the executor must
// re-evaluate the predicate").
const StrategyApproximate = 1

// Adapter wires the extractor, the three caches, and the configured
// options into the operations a host inverted-index implementation calls.
type Adapter struct {
	Extractor *kmer.Extractor
	Caches    *cache.Caches
	Opts      config.Options
}

// NewAdapter builds an Adapter from its collaborators.
func NewAdapter(extractor *kmer.Extractor, caches *cache.Caches, opts config.Options) *Adapter {
	return &Adapter{Extractor: extractor, Caches: caches, Opts: opts}
}

// ExtractValueDNA2 computes the index keys for a stored DNA2 row value
// (§4.6 extract_value). When preclude-highfreq-kmer is set and highFreqKey
// names a populated high-frequency set, keys belonging to that set are
// dropped before the row is indexed.
func (a *Adapter) ExtractValueDNA2(seq packed.DNA2, highFreqKey cache.HighFreqKey) (kmer.Keys, error) {
	keys, err := a.Extractor.ExtractDNA2(seq)
	if err != nil {
		return nil, err
	}
	return a.filterHighFreq(keys, highFreqKey), nil
}

// ExtractValueDNA4 is ExtractValueDNA2's DNA4 counterpart.
func (a *Adapter) ExtractValueDNA4(seq packed.DNA4, highFreqKey cache.HighFreqKey) (kmer.Keys, error) {
	keys, err := a.Extractor.ExtractDNA4(seq)
	if err != nil {
		return nil, err
	}
	return a.filterHighFreq(keys, highFreqKey), nil
}

func (a *Adapter) filterHighFreq(keys kmer.Keys, highFreqKey cache.HighFreqKey) kmer.Keys {
	if !a.Opts.PrecludeHighfreqKmer || a.Caches == nil || a.Caches.HighFreq == nil {
		return keys
	}
	excluded, ok := a.Caches.HighFreq.Lookup(highFreqKey)
	if !ok || len(excluded) == 0 {
		return keys
	}
	return dropExcluded(keys, excluded)
}

func dropExcluded(keys kmer.Keys, excluded cache.HighFreqSet) kmer.Keys {
	n := keys.Len()
	switch keys.Width() {
	case kmer.Width16:
		out := make(kmer.KeysU16, 0, n)
		for i := 0; i < n; i++ {
			if k := keys.At(i); !excluded.Contains(k) {
				out = append(out, uint16(k))
			}
		}
		return out
	case kmer.Width32:
		out := make(kmer.KeysU32, 0, n)
		for i := 0; i < n; i++ {
			if k := keys.At(i); !excluded.Contains(k) {
				out = append(out, uint32(k))
			}
		}
		return out
	default:
		out := make(kmer.KeysU64, 0, n)
		for i := 0; i < n; i++ {
			if k := keys.At(i); !excluded.Contains(k) {
				out = append(out, k)
			}
		}
		return out
	}
}

// ExtractQuery computes the index keys for a query pattern and returns the
// cached *cache.QueryKeys identity alongside the strategy bits (§4.6
// extract_query). The returned identity is the same pointer across repeat
// calls for the same query text, k and occur-bitlen, so it can key the
// actual-min-score cache.
func (a *Adapter) ExtractQuery(queryText string) (*cache.QueryKeys, int, error) {
	qk, err := a.Caches.QueryKmer.GetOrExtract(queryText, a.Extractor.K(), a.Opts.OccurBitlen, func() (kmer.Keys, error) {
		return a.Extractor.ExtractText([]byte(queryText))
	})
	if err != nil {
		return nil, 0, err
	}
	return qk, StrategyApproximate, nil
}

// ActualMinScore resolves the effective `=%` threshold for a query,
// through the actual-min-score cache (§4.5).
func (a *Adapter) ActualMinScore(query *cache.QueryKeys) int {
	return a.Caches.ActualMinScore.GetOrCompute(
		query, a.Extractor.K(), a.Opts.OccurBitlen, a.Opts.MinScore, a.Opts.MinSharedRate,
		func() int { return a.Opts.ActualMinScore(query.Keys.Len()) },
	)
}

// Consistent evaluates the index's ternary predicate (§4.6 consistent):
// the index always requires an executor recheck, since it only stores a
// lower bound on the true match count.
func (a *Adapter) Consistent(nMatches, actualMinScore int) (match, recheck bool) {
	return nMatches >= actualMinScore, true
}

// MatchScoreDNA2 returns the raw shared-key count between seq and
// queryText (§4.6 "match-score(seq, query) additionally returns the raw
// count").
func (a *Adapter) MatchScoreDNA2(seq packed.DNA2, queryText string) (int, error) {
	seqKeys, err := a.Extractor.ExtractDNA2(seq)
	if err != nil {
		return 0, err
	}
	query, _, err := a.ExtractQuery(queryText)
	if err != nil {
		return 0, err
	}
	return match.CountMatching(seqKeys, query.Keys), nil
}

// MatchScoreDNA4 is MatchScoreDNA2's DNA4 counterpart.
func (a *Adapter) MatchScoreDNA4(seq packed.DNA4, queryText string) (int, error) {
	seqKeys, err := a.Extractor.ExtractDNA4(seq)
	if err != nil {
		return 0, err
	}
	query, _, err := a.ExtractQuery(queryText)
	if err != nil {
		return 0, err
	}
	return match.CountMatching(seqKeys, query.Keys), nil
}

// PredicateDNA2 evaluates seq =% queryText exactly (§4.6): the predicate
// re-extracts both sides directly rather than through the (possibly
// high-freq-filtered) index keys, since a recheck must be exact.
func (a *Adapter) PredicateDNA2(seq packed.DNA2, queryText string) (bool, error) {
	seqKeys, err := a.Extractor.ExtractDNA2(seq)
	if err != nil {
		return false, err
	}
	query, _, err := a.ExtractQuery(queryText)
	if err != nil {
		return false, err
	}
	n := match.CountMatching(seqKeys, query.Keys)
	return n >= a.ActualMinScore(query), nil
}

// PredicateDNA4 is PredicateDNA2's DNA4 counterpart.
func (a *Adapter) PredicateDNA4(seq packed.DNA4, queryText string) (bool, error) {
	seqKeys, err := a.Extractor.ExtractDNA4(seq)
	if err != nil {
		return false, err
	}
	query, _, err := a.ExtractQuery(queryText)
	if err != nil {
		return false, err
	}
	n := match.CountMatching(seqKeys, query.Keys)
	return n >= a.ActualMinScore(query), nil
}
