// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmer

import (
	"testing"

	"github.com/kmersearch/engine/packed"
	"github.com/stretchr/testify/require"
)

func keysToUint64(t *testing.T, k Keys) []uint64 {
	out := make([]uint64, k.Len())
	for i := range out {
		out[i] = k.At(i)
	}
	return out
}

// T3 — extraction.
func TestExtractDNA2T3(t *testing.T) {
	e, err := NewExtractor(3, 2)
	require.NoError(t, err)
	seq, err := packed.EncodeDNA2([]byte("AAAC"))
	require.NoError(t, err)
	keys, err := e.ExtractDNA2(seq)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 4}, keysToUint64(t, keys))
}

// T4 — occurrence counter.
func TestExtractDNA2T4(t *testing.T) {
	e, err := NewExtractor(2, 2)
	require.NoError(t, err)
	seq, err := packed.EncodeDNA2([]byte("ATATAT"))
	require.NoError(t, err)
	keys, err := e.ExtractDNA2(seq)
	require.NoError(t, err)
	require.Equal(t, []uint64{12, 48, 13, 49, 14}, keysToUint64(t, keys))
}

// T5 — degenerate expansion.
func TestExtractDNA4T5(t *testing.T) {
	e, err := NewExtractor(2, 1)
	require.NoError(t, err)
	seq, err := packed.EncodeDNA4([]byte("AN"))
	require.NoError(t, err)
	keys, err := e.ExtractDNA4(seq)
	require.NoError(t, err)
	require.Equal(t, []uint64{0, 2, 4, 6}, keysToUint64(t, keys))
}

func TestExtractLengthInvariant(t *testing.T) {
	e, err := NewExtractor(5, 4)
	require.NoError(t, err)
	seq, err := packed.EncodeDNA2([]byte("ACGTACGTAC"))
	require.NoError(t, err)
	keys, err := e.ExtractDNA2(seq)
	require.NoError(t, err)
	require.Equal(t, 10-5+1, keys.Len())
}

func TestExtractShorterThanKIsEmpty(t *testing.T) {
	e, err := NewExtractor(8, 2)
	require.NoError(t, err)
	seq, err := packed.EncodeDNA2([]byte("ACG"))
	require.NoError(t, err)
	keys, err := e.ExtractDNA2(seq)
	require.NoError(t, err)
	require.Equal(t, 0, keys.Len())
}

func TestNewExtractorRejectsOverBudget(t *testing.T) {
	_, err := NewExtractor(32, 16)
	require.Error(t, err)
}

func TestWidthSelection(t *testing.T) {
	e, err := NewExtractor(3, 2)
	require.NoError(t, err)
	require.Equal(t, Width16, e.Width())
}
