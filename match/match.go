// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package match implements the k-mer match kernel (§4.3): counting the
// per-element intersection of two uintkey multisets.
package match

import (
	farm "github.com/dgryski/go-farm"
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmer"
)

// smallInputProduct is the |seq|*|query| threshold below which the nested
// linear scan is used instead of building a hash set (§4.3).
const smallInputProduct = 100

// CountMatching returns the cardinality of the per-element intersection of
// seqKeys and queryKeys: each query key is counted at most once, and at
// most one matching sequence key is consumed per match. Both arrays must
// share the same Width; a mismatch is a programmer error (panics), per
// "mixed widths are a programmer error".
func CountMatching(seqKeys, queryKeys kmer.Keys) int {
	if seqKeys.Width() != queryKeys.Width() {
		panic("match: CountMatching requires seqKeys and queryKeys to share a width")
	}
	n, m := seqKeys.Len(), queryKeys.Len()
	if n == 0 || m == 0 {
		return 0
	}
	if n*m < smallInputProduct {
		return countMatchingSmall(seqKeys, queryKeys)
	}
	return countMatchingHashSet(seqKeys, queryKeys)
}

// countMatchingSmall is the O(n*m) nested-scan path: cache-friendly for
// small inputs, and it breaks out of the inner loop on first match.
func countMatchingSmall(seqKeys, queryKeys kmer.Keys) int {
	consumed := make([]bool, queryKeys.Len())
	matched := 0
	for i := 0; i < seqKeys.Len(); i++ {
		sk := seqKeys.At(i)
		for j := 0; j < queryKeys.Len(); j++ {
			if consumed[j] {
				continue
			}
			if queryKeys.At(j) == sk {
				consumed[j] = true
				matched++
				break
			}
		}
	}
	return matched
}

// countMatchingHashSet builds an open-addressed multiset of queryKeys
// (count of occurrences per distinct value) keyed by a farm-hash mixer of
// the raw uintkey — an identity hash would also be acceptable per §4.3
// since uintkeys are already well-distributed, but farm.Hash64WithSeed
// gives better behavior when keys share a common occurrence-counter suffix.
func countMatchingHashSet(seqKeys, queryKeys kmer.Keys) int {
	set := newUintSet(queryKeys.Len())
	for i := 0; i < queryKeys.Len(); i++ {
		set.add(queryKeys.At(i))
	}
	matched := 0
	for i := 0; i < seqKeys.Len(); i++ {
		if set.consume(seqKeys.At(i)) {
			matched++
		}
	}
	return matched
}

const maxProbeLength = 64

// uintSet is a linear-probing open-addressed multiset of uint64 values,
// sized as a power of two with a 4x load factor, mirroring the sizing loop
// fusion's kmerIndex uses for its shards (without that structure's
// unsafe-pointer/outlined-storage machinery, which this transient, per-call
// set has no need for).
type uintSet struct {
	shift  uint
	mask   uint64
	keys   []uint64
	counts []int32
	used   []bool
}

func newUintSet(hint int) *uintSet {
	minSize := (hint + 1) * 4
	size, shift := 1, uint(0)
	for size < minSize {
		size *= 2
		shift++
	}
	if size == 0 {
		size, shift = 1, 0
	}
	return &uintSet{
		shift:  shift,
		mask:   uint64(size - 1),
		keys:   make([]uint64, size),
		counts: make([]int32, size),
		used:   make([]bool, size),
	}
}

func (s *uintSet) slot(key uint64) uint64 {
	return farm.Hash64WithSeed(nil, key) & s.mask
}

func (s *uintSet) add(key uint64) {
	i := s.slot(key)
	for probes := 0; probes < maxProbeLength; probes++ {
		if !s.used[i] {
			s.used[i] = true
			s.keys[i] = key
			s.counts[i] = 1
			return
		}
		if s.keys[i] == key {
			s.counts[i]++
			return
		}
		i = (i + 1) & s.mask
	}
	panic(kerrors.Errorf(kerrors.ConfigurationError, "match: uintSet probe sequence exceeded %d slots", maxProbeLength))
}

// consume decrements the remaining count for key if present and positive,
// reporting whether a copy was available to consume.
func (s *uintSet) consume(key uint64) bool {
	i := s.slot(key)
	for probes := 0; probes < maxProbeLength; probes++ {
		if !s.used[i] {
			return false
		}
		if s.keys[i] == key {
			if s.counts[i] > 0 {
				s.counts[i]--
				return true
			}
			return false
		}
		i = (i + 1) & s.mask
	}
	return false
}
