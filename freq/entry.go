// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package freq implements the parallel frequency analyzer (§4.4): a
// relation scan that computes per-k-mer row counts and persists the set of
// k-mers appearing in more than a configured fraction/count of rows.
package freq

import "github.com/biogo/store/llrb"

// entry is one (uintkey, row-count) node of the merge tree. It is a
// pointer type so Floor-then-mutate can update a count in place without
// re-inserting (Compare only looks at Key).
type entry struct {
	Key   uint64
	Count uint64
}

// Compare orders entries by Key, for use as an llrb.Comparable.
func (e *entry) Compare(c llrb.Comparable) int {
	o := c.(*entry)
	switch {
	case e.Key < o.Key:
		return -1
	case e.Key > o.Key:
		return 1
	default:
		return 0
	}
}

// mergeTree sums counts for repeated keys inserted via add, giving the
// "UNION ALL of worker scratch tables, sums the counts per key" behavior
// of §4.4.
type mergeTree struct {
	t llrb.Tree
}

func (m *mergeTree) add(key uint64, count uint64) {
	probe := &entry{Key: key}
	if existing := m.t.Floor(probe); existing != nil {
		if e := existing.(*entry); e.Key == key {
			e.Count += count
			return
		}
	}
	m.t.Insert(&entry{Key: key, Count: count})
}

// aboveThreshold returns every key whose summed count is strictly greater
// than threshold, in ascending key order (§3, §8 "High-freq threshold").
func (m *mergeTree) aboveThreshold(threshold int) []uint64 {
	var out []uint64
	m.t.Do(func(c llrb.Comparable) bool {
		e := c.(*entry)
		if e.Count > uint64(threshold) {
			out = append(out, e.Key)
		}
		return false
	})
	return out
}
