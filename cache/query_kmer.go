// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cache

import (
	"github.com/kmersearch/engine/kmer"
)

// QueryKeys is the value type stored in the query-kmer cache: a pointer so
// its identity (not its contents) can key the actual-min-score cache, per
// §4.5's "(query-kmer-array-identity, ...)" key.
type QueryKeys struct {
	Keys kmer.Keys
}

type queryKmerKey struct {
	queryText   string
	k           int
	occurBitlen int
}

// QueryKmerCache is the cache keyed by (query-text, k, occur-bitlen),
// populated on first lookup via a caller-supplied extractor (§4.5).
type QueryKmerCache struct {
	l *lru
}

// NewQueryKmerCache builds a query-kmer cache holding at most maxEntries
// distinct queries.
func NewQueryKmerCache(maxEntries int) *QueryKmerCache {
	return &QueryKmerCache{l: newLRU(maxEntries)}
}

// GetOrExtract returns the cached *QueryKeys for (queryText, k, occurBitlen),
// calling extract and caching its result on a miss.
func (c *QueryKmerCache) GetOrExtract(queryText string, k, occurBitlen int, extract func() (kmer.Keys, error)) (*QueryKeys, error) {
	key := queryKmerKey{queryText: queryText, k: k, occurBitlen: occurBitlen}
	if v, ok := c.l.get(key); ok {
		return v.(*QueryKeys), nil
	}
	keys, err := extract()
	if err != nil {
		return nil, err
	}
	qk := &QueryKeys{Keys: keys}
	c.l.add(key, qk)
	return qk, nil
}

// Clear empties the cache, reporting whether it held anything.
func (c *QueryKmerCache) Clear() bool { return c.l.clear() }

// Len returns the current entry count.
func (c *QueryKmerCache) Len() int { return c.l.len() }
