// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freq

import (
	"context"
	"testing"
	"time"

	"github.com/kmersearch/engine/config"
	"github.com/kmersearch/engine/host"
	"github.com/kmersearch/engine/kmer"
	"github.com/kmersearch/engine/packed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialWorkers runs Each in-process, sequentially; sufficient for
// deterministic tests without pulling in a real parallel-worker host.
type sequentialWorkers struct{}

func (sequentialWorkers) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

type fakeRow struct {
	payload []byte
	nucLen  int
}

type fakeScanner struct {
	rows []fakeRow
	pos  int
}

func (s *fakeScanner) Next(ctx context.Context) bool {
	if s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}
func (s *fakeScanner) Row() ([]byte, int, int) {
	r := s.rows[s.pos-1]
	return r.payload, r.nucLen, 2
}
func (s *fakeScanner) Err() error { return nil }

type fakeSource struct {
	rows   []fakeRow
	blocks int64
}

func (f *fakeSource) BlockCount(ctx context.Context) (int64, error) { return f.blocks, nil }
func (f *fakeSource) TotalRows(ctx context.Context) (int64, error)  { return int64(len(f.rows)), nil }
func (f *fakeSource) OpenScanner(ctx context.Context, r host.BlockRange) (host.Scanner, error) {
	start := r.Start * int64(len(f.rows)) / f.blocks
	end := r.End * int64(len(f.rows)) / f.blocks
	return &fakeScanner{rows: f.rows[start:end]}, nil
}

var _ host.RelationSource = (*fakeSource)(nil)
var _ host.Scanner = (*fakeScanner)(nil)
var _ host.ParallelWorkers = sequentialWorkers{}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 1, workerCount(500, 8))
	assert.Equal(t, 4, workerCount(4000, 8))
	assert.Equal(t, 8, workerCount(50000, 8))
}

func TestAnalyzeHighFreqThresholdT8(t *testing.T) {
	extractor, err := kmer.NewExtractor(4, 2)
	require.NoError(t, err)

	rows := make([]fakeRow, 100)
	for i := range rows {
		base := "ACGT"
		if i < 60 {
			base = "AAAA" // guarantees this row contains kmer "AAAA"
		}
		d, err := packed.EncodeDNA2([]byte(base + "CGTACG"))
		require.NoError(t, err)
		rows[i] = fakeRow{payload: d.Payload(), nucLen: d.NucleotideLen()}
	}

	analysisTimestamp = func() time.Time { return time.Unix(0, 0) }
	defer func() { analysisTimestamp = func() time.Time { return time.Now().UTC() } }()

	opts := config.DefaultOptions
	opts.MaxAppearanceRate = 0.5
	opts.MaxAppearanceNrow = 0
	opts.ParallelWorkerCap = 1

	a := NewAnalyzer(sequentialWorkers{}, extractor, opts)
	source := &fakeSource{rows: rows, blocks: 100}
	rec, err := a.Analyze(context.Background(), source, "rel", "seq")
	require.NoError(t, err)

	aaaaKey := firstKeyFor(t, extractor, "AAAA")
	found := false
	for _, k := range rec.Keys {
		if k == aaaaKey {
			found = true
		}
	}
	assert.True(t, found, "AAAA kmer (60/100 rows) should clear the 50-row threshold")
}

func firstKeyFor(t *testing.T, e *kmer.Extractor, fourMer string) uint64 {
	seq, err := packed.EncodeDNA2([]byte(fourMer))
	require.NoError(t, err)
	keys, err := e.ExtractDNA2(seq)
	require.NoError(t, err)
	require.Equal(t, 1, keys.Len())
	return keys.At(0)
}
