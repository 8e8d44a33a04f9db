// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cache

import (
	"testing"

	"github.com/kmersearch/engine/kmer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsOldest(t *testing.T) {
	l := newLRU(2)
	l.add("a", 1)
	l.add("b", 2)
	l.add("c", 3) // evicts "a"
	_, ok := l.get("a")
	assert.False(t, ok)
	v, ok := l.get("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRUPromotesOnGet(t *testing.T) {
	l := newLRU(2)
	l.add("a", 1)
	l.add("b", 2)
	l.get("a") // promote a
	l.add("c", 3) // should evict b, not a
	_, ok := l.get("b")
	assert.False(t, ok)
	_, ok = l.get("a")
	assert.True(t, ok)
}

func TestQueryKmerCacheIdentityStableOnHit(t *testing.T) {
	c := NewQueryKmerCache(10)
	calls := 0
	extract := func() (kmer.Keys, error) {
		calls++
		return kmer.KeysU16{1, 2, 3}, nil
	}
	first, err := c.GetOrExtract("ACGT", 3, 2, extract)
	require.NoError(t, err)
	second, err := c.GetOrExtract("ACGT", 3, 2, extract)
	require.NoError(t, err)
	assert.True(t, first == second, "a cache hit must return the same *QueryKeys pointer stored on the miss")
	assert.Equal(t, 1, calls)
}

func TestActualMinScoreCacheDistinguishesQueryIdentity(t *testing.T) {
	c := NewActualMinScoreCache(10)
	q1 := &QueryKeys{Keys: kmer.KeysU16{1}}
	q2 := &QueryKeys{Keys: kmer.KeysU16{1}}
	calls := 0
	compute := func() int { calls++; return 7 }
	c.GetOrCompute(q1, 3, 2, 0, 0.5, compute)
	c.GetOrCompute(q2, 3, 2, 0, 0.5, compute)
	assert.Equal(t, 2, calls) // distinct identities, both miss
}

func TestLocalHighFreqCache(t *testing.T) {
	c := NewLocalHighFreqCache(10)
	key := HighFreqKey{RelationID: "rel", Column: "seq", K: 16}
	set := HighFreqSet{42: struct{}{}}
	c.Load(key, set)
	got, ok := c.Lookup(key)
	require.True(t, ok)
	assert.True(t, got.Contains(42))
	assert.False(t, got.Contains(1))

	wasPopulated := c.Clear()
	assert.True(t, wasPopulated)
	_, ok = c.Lookup(key)
	assert.False(t, ok)
}

func TestSharedHighFreqCacheAcrossShards(t *testing.T) {
	c := NewSharedHighFreqCache(1000)
	for i := 0; i < 200; i++ {
		key := HighFreqKey{RelationID: "r", Column: "c", K: i}
		c.Load(key, HighFreqSet{uint64(i): struct{}{}})
	}
	hit := 0
	for i := 0; i < 200; i++ {
		if _, ok := c.Lookup(HighFreqKey{RelationID: "r", Column: "c", K: i}); ok {
			hit++
		}
	}
	assert.Greater(t, hit, 0)
}

func TestHighFreqCacheClearReportsEmptyCorrectly(t *testing.T) {
	c := NewLocalHighFreqCache(10)
	assert.False(t, c.Clear())
}
