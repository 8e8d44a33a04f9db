// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cache

import "github.com/kmersearch/engine/config"

// Caches aggregates the three caches of §4.5 and implements
// config.Invalidator, so a config.Registry's assign-hooks can clear them
// per the invalidation matrix.
type Caches struct {
	QueryKmer      *QueryKmerCache
	ActualMinScore *ActualMinScoreCache
	HighFreq       HighFreqCacheImpl
}

// NewCaches builds the three caches from o, choosing the shared
// high-frequency variant when useShared is true (§4.5: "Chosen when a GUC
// forces it or when the current process is a parallel worker").
func NewCaches(o config.Options, useShared bool) *Caches {
	c := &Caches{
		QueryKmer:      NewQueryKmerCache(o.QueryKmerCacheMaxEntries),
		ActualMinScore: NewActualMinScoreCache(o.ActualMinScoreCacheMaxEntries),
	}
	if useShared {
		c.HighFreq = NewSharedHighFreqCache(o.HighFreqCacheMaxEntries)
	} else {
		c.HighFreq = NewLocalHighFreqCache(o.HighFreqCacheMaxEntries)
	}
	return c
}

// Clear implements config.Invalidator.
func (c *Caches) Clear(which config.Cache) bool {
	switch which {
	case config.QueryKmerCache:
		return c.QueryKmer.Clear()
	case config.ActualMinScoreCache:
		return c.ActualMinScore.Clear()
	case config.HighFreqCache:
		return c.HighFreq.Clear()
	default:
		return false
	}
}
