// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cache

// actualMinScoreKey's first field is the *QueryKeys pointer identity
// (§4.5: "query-kmer-array-identity"); two calls for the same query text
// share the same *QueryKeys only because QueryKmerCache hands back the
// same pointer on a hit, so this key is naturally consistent with that
// cache's lifetime.
type actualMinScoreKey struct {
	queryIdentity *QueryKeys
	k             int
	occurBitlen   int
	minScore      int
	minSharedRate float64
}

// ActualMinScoreCache caches the resolved =% threshold for a query, keyed
// by (query-kmer-array-identity, k, b, min-score, min-shared-rate) (§4.5).
type ActualMinScoreCache struct {
	l *lru
}

func NewActualMinScoreCache(maxEntries int) *ActualMinScoreCache {
	return &ActualMinScoreCache{l: newLRU(maxEntries)}
}

// GetOrCompute returns the cached threshold, computing and storing it via
// compute on a miss.
func (c *ActualMinScoreCache) GetOrCompute(queryIdentity *QueryKeys, k, occurBitlen, minScore int, minSharedRate float64, compute func() int) int {
	key := actualMinScoreKey{
		queryIdentity: queryIdentity,
		k:             k,
		occurBitlen:   occurBitlen,
		minScore:      minScore,
		minSharedRate: minSharedRate,
	}
	if v, ok := c.l.get(key); ok {
		return v.(int)
	}
	threshold := compute()
	c.l.add(key, threshold)
	return threshold
}

func (c *ActualMinScoreCache) Clear() bool { return c.l.clear() }
func (c *ActualMinScoreCache) Len() int    { return c.l.len() }
