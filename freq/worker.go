// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freq

import (
	"encoding/binary"

	"github.com/golang/snappy"
)

// scratchSpillThreshold bounds how many distinct keys a worker keeps in its
// in-memory counter before flushing a batch to its private scratch table
// (§4.4 step 3: "a bounded open-addressed hash table in memory, or, when
// the table saturates, flushed batches into a private scratch table").
const scratchSpillThreshold = 1 << 16

// workerScratch accumulates per-key row counts for one worker's assigned
// block range.
type workerScratch struct {
	counts  map[uint64]uint64
	batches [][]byte // snappy-compressed (key,count) pairs, oldest first
}

func newWorkerScratch() *workerScratch {
	return &workerScratch{counts: make(map[uint64]uint64, scratchSpillThreshold)}
}

// addRow increments the count for every key in a row's deduplicated
// per-row key set (§4.4 step 2: "dedupes within the row... so that one
// k-mer per row contributes 1").
func (w *workerScratch) addRow(rowKeys map[uint64]struct{}) {
	for k := range rowKeys {
		w.counts[k]++
	}
	if len(w.counts) >= scratchSpillThreshold {
		w.spill()
	}
}

// spill flushes the in-memory counter into a compressed scratch batch and
// resets it.
func (w *workerScratch) spill() {
	if len(w.counts) == 0 {
		return
	}
	raw := make([]byte, 0, len(w.counts)*16)
	buf := make([]byte, 16)
	for k, c := range w.counts {
		binary.BigEndian.PutUint64(buf[0:8], k)
		binary.BigEndian.PutUint64(buf[8:16], c)
		raw = append(raw, buf...)
	}
	w.batches = append(w.batches, snappy.Encode(nil, raw))
	w.counts = make(map[uint64]uint64, scratchSpillThreshold)
}

// flush flushes any remaining in-memory entries (§4.4 step 4: "On
// block-range completion, flushes remaining entries").
func (w *workerScratch) flush() { w.spill() }

// mergeInto decompresses every batch and adds its (key,count) pairs into t.
func (w *workerScratch) mergeInto(t *mergeTree) error {
	for _, batch := range w.batches {
		raw, err := snappy.Decode(nil, batch)
		if err != nil {
			return err
		}
		for i := 0; i+16 <= len(raw); i += 16 {
			key := binary.BigEndian.Uint64(raw[i : i+8])
			count := binary.BigEndian.Uint64(raw[i+8 : i+16])
			t.add(key, count)
		}
	}
	return nil
}
