// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package match

import (
	"math/rand"
	"testing"

	"github.com/kmersearch/engine/kmer"
	"github.com/stretchr/testify/assert"
)

// T6 — matching.
func TestCountMatchingT6(t *testing.T) {
	assert.Equal(t, 2, CountMatching(kmer.KeysU16{5, 5, 7, 9}, kmer.KeysU16{5, 7}))
	assert.Equal(t, 2, CountMatching(kmer.KeysU16{5, 5, 7, 9}, kmer.KeysU16{5, 5, 5}))
}

func TestCountMatchingEmpty(t *testing.T) {
	assert.Equal(t, 0, CountMatching(kmer.KeysU16{}, kmer.KeysU16{1, 2}))
	assert.Equal(t, 0, CountMatching(kmer.KeysU16{1, 2}, kmer.KeysU16{}))
}

func TestCountMatchingPanicsOnWidthMismatch(t *testing.T) {
	assert.Panics(t, func() {
		CountMatching(kmer.KeysU16{1}, kmer.KeysU32{1})
	})
}

func TestCountMatchingBoundedByMin(t *testing.T) {
	seq := make(kmer.KeysU64, 7)
	query := make(kmer.KeysU64, 20)
	for i := range seq {
		seq[i] = uint64(i)
	}
	for i := range query {
		query[i] = uint64(i)
	}
	got := CountMatching(seq, query)
	assert.LessOrEqual(t, got, len(seq))
	assert.LessOrEqual(t, got, len(query))
}

// Both code paths (small nested-scan and hash-set) must agree.
func TestCountMatchingPathsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		n := 2 + rng.Intn(5)
		m := 2 + rng.Intn(5)
		seq := make(kmer.KeysU64, n)
		query := make(kmer.KeysU64, m)
		for i := range seq {
			seq[i] = uint64(rng.Intn(6))
		}
		for i := range query {
			query[i] = uint64(rng.Intn(6))
		}
		small := countMatchingSmall(seq, query)
		hashed := countMatchingHashSet(seq, query)
		assert.Equal(t, small, hashed, "seq=%v query=%v", seq, query)
	}
}
