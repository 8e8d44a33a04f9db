// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmer

import (
	"github.com/grailbio/base/log"
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmersimd"
	"github.com/kmersearch/engine/packed"
)

// Extractor emits the ordered uintkey multiset for a packed sequence
// (§4.2), for a fixed (k, occur-bitlen) pair.
type Extractor struct {
	k           int
	occurBitlen int
	width       Width
	mask2k      uint64
	counterCap  uint64
}

// NewExtractor validates k (1..32) and occurBitlen (0..16) and selects the
// narrowest uintkey Width that fits 2k+occurBitlen (§3's width-selection
// rule). The narrower 4..32 range of the kmer-size option is enforced by
// config.Options.Validate, not here.
func NewExtractor(k, occurBitlen int) (*Extractor, error) {
	if k < 1 || k > 32 {
		return nil, kerrors.Errorf(kerrors.ConfigurationError, "kmer: k=%d out of range [1,32]", k)
	}
	if occurBitlen < 0 || occurBitlen > 16 {
		return nil, kerrors.Errorf(kerrors.ConfigurationError, "kmer: occur-bitlen=%d out of range [0,16]", occurBitlen)
	}
	width, err := SelectWidth(k, occurBitlen)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		k:           k,
		occurBitlen: occurBitlen,
		width:       width,
		mask2k:      uint64(1)<<uint(2*k) - 1,
		counterCap:  uint64(1)<<uint(occurBitlen) - 1,
	}, nil
}

// K returns the configured k-mer length.
func (e *Extractor) K() int { return e.k }

// Width returns the uintkey array width this extractor produces.
func (e *Extractor) Width() Width { return e.width }

// occurrenceTable tracks, within a single sequence, how many times each
// distinct 2k-bit k-mer value has been seen so far; this is the "small
// hash from high bits to counter" of §4.2.
type occurrenceTable struct {
	counts map[uint64]uint64
}

func newOccurrenceTable() *occurrenceTable {
	return &occurrenceTable{counts: make(map[uint64]uint64)}
}

// next returns the 0-based occurrence rank for kmer and records the sighting.
func (t *occurrenceTable) next(kmer uint64) uint64 {
	rank := t.counts[kmer]
	t.counts[kmer] = rank + 1
	return rank
}

func (e *Extractor) saturate(rank uint64) uint64 {
	if rank > e.counterCap {
		return e.counterCap
	}
	return rank
}

// ExtractDNA2 emits the uintkey multiset for a DNA2 sequence (§4.2,
// "extract_from_dna2"). It maintains a rolling 2k-bit accumulator, shifting
// in two bits per position, and forms each uintkey as
// (accumulator << occur-bitlen) | min(occurrence-rank, 2^occur-bitlen - 1).
func (e *Extractor) ExtractDNA2(seq packed.DNA2) (Keys, error) {
	n := seq.NucleotideLen()
	if n < e.k {
		return newKeysBuilder(e.width, 0).build(), nil
	}
	codes := make([]byte, n)
	kmersimd.UnpackDNA2(codes, seq.Payload())

	occ := newOccurrenceTable()
	b := newKeysBuilder(e.width, n-e.k+1)

	var acc uint64
	for i := 0; i < e.k; i++ {
		acc = (acc<<2 | uint64(codes[i])) & e.mask2k
	}
	b.append((acc << uint(e.occurBitlen)) | e.saturate(occ.next(acc)))
	for i := e.k; i < n; i++ {
		acc = (acc<<2 | uint64(codes[i])) & e.mask2k
		b.append((acc << uint(e.occurBitlen)) | e.saturate(occ.next(acc)))
	}
	return b.build(), nil
}

// ExtractDNA4 emits the uintkey multiset for a DNA4 sequence, additionally
// expanding each window's degenerate bases into the Cartesian product of
// its component k-mers, in fixed base-index order (A<C<G<T), preserving
// left-to-right window order and emitting each window's expansions
// contiguously (§4.2, §5 "Ordering guarantees").
func (e *Extractor) ExtractDNA4(seq packed.DNA4) (Keys, error) {
	n := seq.NucleotideLen()
	if n < e.k {
		return newKeysBuilder(e.width, 0).build(), nil
	}
	masks := seq.Masks()
	occ := newOccurrenceTable()
	b := newKeysBuilder(e.width, n-e.k+1)

	for start := 0; start+e.k <= n; start++ {
		combos := expandWindow(masks[start : start+e.k])
		if combos == nil {
			if log.At(log.Debug) {
				log.Debug.Printf("kmer: dropping window at offset %d: degenerate expansion exceeds cap %d", start, MaxDegenerateExpansion)
			}
			continue
		}
		for _, combo := range combos {
			var acc uint64
			for _, code := range combo {
				acc = (acc<<2 | uint64(code)) & e.mask2k
			}
			b.append((acc << uint(e.occurBitlen)) | e.saturate(occ.next(acc)))
		}
	}
	return b.build(), nil
}

// ExtractText encodes ascii to DNA4 and extracts (§4.2 "extract_from_text").
func (e *Extractor) ExtractText(ascii []byte) (Keys, error) {
	seq, err := packed.EncodeDNA4(ascii)
	if err != nil {
		return nil, err
	}
	return e.ExtractDNA4(seq)
}
