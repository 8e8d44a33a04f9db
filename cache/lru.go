// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cache implements the three bounded in-process caches of §4.5:
// query-kmer, actual-minimum-score, and high-frequency-kmer, each with a
// single-process LRU variant and (for the high-frequency cache) a
// cross-worker shared variant.
package cache

import (
	"container/list"
	"sync"
)

// lru is a fixed-capacity least-recently-used cache. No third-party LRU
// implementation turned up in the retrieved corpus (see DESIGN.md), so this
// follows the standard container/list-plus-map recipe the package's own
// documentation suggests.
type lru struct {
	mu         sync.Mutex
	maxEntries int
	ll         *list.List
	items      map[interface{}]*list.Element
}

type lruEntry struct {
	key   interface{}
	value interface{}
}

func newLRU(maxEntries int) *lru {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &lru{
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[interface{}]*list.Element),
	}
}

// get returns the cached value for key and promotes it to most-recently-used.
func (c *lru) get(key interface{}) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(e)
	return e.Value.(*lruEntry).value, true
}

// add inserts or updates key's value, evicting the least-recently-used
// entry if the cache is at capacity.
func (c *lru) add(key, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.ll.MoveToFront(e)
		e.Value.(*lruEntry).value = value
		return
	}
	e := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = e
	if c.ll.Len() > c.maxEntries {
		c.removeOldest()
	}
}

func (c *lru) removeOldest() {
	e := c.ll.Back()
	if e == nil {
		return
	}
	c.ll.Remove(e)
	delete(c.items, e.Value.(*lruEntry).key)
}

// clear empties the cache, reporting whether it held anything.
func (c *lru) clear() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	wasPopulated := c.ll.Len() > 0
	c.ll.Init()
	c.items = make(map[interface{}]*list.Element)
	return wasPopulated
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
