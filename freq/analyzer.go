// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freq

import (
	"context"
	"fmt"
	"time"

	"github.com/grailbio/base/log"
	"github.com/kmersearch/engine/config"
	"github.com/kmersearch/engine/host"
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmer"
	"github.com/kmersearch/engine/packed"
)

// Analyzer implements the frequency analysis of §4.4.
type Analyzer struct {
	Workers   host.ParallelWorkers
	Extractor *kmer.Extractor
	Opts      config.Options
	// Lock, if non-nil, serializes concurrent re-analysis of the same
	// (relation, column, k) (§4.4 "holding a shared lock on the relation").
	Lock host.Lock
}

// NewAnalyzer builds an Analyzer for the given extractor and options.
func NewAnalyzer(workers host.ParallelWorkers, extractor *kmer.Extractor, opts config.Options) *Analyzer {
	return &Analyzer{Workers: workers, Extractor: extractor, Opts: opts}
}

// workerCount computes W per §4.4: "bounded by a system-wide
// parallel-worker cap and by blocks/1000, floor 1".
func workerCount(blockCount int64, cap int) int {
	byBlocks := int(blockCount / 1000)
	if byBlocks < 1 {
		byBlocks = 1
	}
	w := cap
	if byBlocks < w {
		w = byBlocks
	}
	if w < 1 {
		w = 1
	}
	return w
}

// partition splits [0, blockCount) into n contiguous, near-equal ranges.
func partition(blockCount int64, n int) []host.BlockRange {
	ranges := make([]host.BlockRange, n)
	for i := 0; i < n; i++ {
		start := int64(i) * blockCount / int64(n)
		end := int64(i+1) * blockCount / int64(n)
		ranges[i] = host.BlockRange{Start: start, End: end}
	}
	return ranges
}

// Analyze scans column of relationID via source, computes the
// high-frequency k-mer set, and returns the Record to persist. A single
// worker's failure aborts the whole analysis, discarding all scratch state
// (§4.4 "Failure semantics").
func (a *Analyzer) Analyze(ctx context.Context, source host.RelationSource, relationID, column string) (Record, error) {
	if a.Lock != nil {
		unlock, err := a.Lock.Lock(ctx, fmt.Sprintf("kmersearch/analyze/%s/%s/k=%d", relationID, column, a.Extractor.K()))
		if err != nil {
			return Record{}, kerrors.E(kerrors.WorkerFailure, err)
		}
		defer unlock()
	}
	blockCount, err := source.BlockCount(ctx)
	if err != nil {
		return Record{}, err
	}
	totalRows, err := source.TotalRows(ctx)
	if err != nil {
		return Record{}, err
	}

	w := workerCount(blockCount, a.Opts.ParallelWorkerCap)
	ranges := partition(blockCount, w)
	scratches := make([]*workerScratch, w)

	err = a.Workers.Each(ctx, w, func(ctx context.Context, i int) error {
		scratch := newWorkerScratch()
		scratches[i] = scratch
		scanner, err := source.OpenScanner(ctx, ranges[i])
		if err != nil {
			return kerrors.E(kerrors.WorkerFailure, err)
		}
		for scanner.Next(ctx) {
			payload, nucLen, bitsPerBase := scanner.Row()
			rowKeys, err := a.extractRowKeys(payload, nucLen, bitsPerBase)
			if err != nil {
				return kerrors.E(kerrors.WorkerFailure, err)
			}
			scratch.addRow(rowKeys)
		}
		if err := scanner.Err(); err != nil {
			return kerrors.E(kerrors.WorkerFailure, err)
		}
		scratch.flush()
		return nil
	})
	if err != nil {
		log.Error.Printf("freq: analysis of %s.%s aborted: %v", relationID, column, err)
		return Record{}, err
	}

	tree := &mergeTree{}
	for _, s := range scratches {
		if err := s.mergeInto(tree); err != nil {
			return Record{}, kerrors.E(kerrors.WorkerFailure, err)
		}
	}
	threshold := a.Opts.HighFreqThreshold(int(totalRows))
	keys := tree.aboveThreshold(threshold)

	return Record{
		Keys:              keys,
		OccurBitlen:       a.Opts.OccurBitlen,
		MaxAppearanceRate: a.Opts.MaxAppearanceRate,
		MaxAppearanceNrow: a.Opts.MaxAppearanceNrow,
		TotalRows:         totalRows,
		AnalysisTimestamp: analysisTimestamp(),
	}, nil
}

// analysisTimestamp is a seam for tests; production code always calls
// time.Now().
var analysisTimestamp = func() time.Time { return time.Now().UTC() }

// extractRowKeys returns the deduplicated per-row key set for one row,
// given its raw packed payload (§4.4 step 2).
func (a *Analyzer) extractRowKeys(payload []byte, nucLen, bitsPerBase int) (map[uint64]struct{}, error) {
	var keys kmer.Keys
	var err error
	switch bitsPerBase {
	case 2:
		seq, decodeErr := packed.RecvDNA2(encodeHeader(int32(nucLen*2), payload))
		if decodeErr != nil {
			return nil, decodeErr
		}
		keys, err = a.Extractor.ExtractDNA2(seq)
	case 4:
		seq, decodeErr := packed.RecvDNA4(encodeHeader(int32(nucLen*4), payload))
		if decodeErr != nil {
			return nil, decodeErr
		}
		keys, err = a.Extractor.ExtractDNA4(seq)
	default:
		return nil, kerrors.Errorf(kerrors.ConfigurationError, "freq: unsupported bits-per-base %d", bitsPerBase)
	}
	if err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, keys.Len())
	for i := 0; i < keys.Len(); i++ {
		set[keys.At(i)] = struct{}{}
	}
	return set, nil
}

func encodeHeader(bitLen int32, payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	out[0] = byte(bitLen >> 24)
	out[1] = byte(bitLen >> 16)
	out[2] = byte(bitLen >> 8)
	out[3] = byte(bitLen)
	copy(out[4:], payload)
	return out
}
