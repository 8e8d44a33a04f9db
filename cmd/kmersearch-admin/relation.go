// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/kmersearch/engine/encoding/fasta"
	"github.com/kmersearch/engine/host"
	"github.com/kmersearch/engine/kerrors"
)

// fastaRelationSource adapts a FASTA file to host.RelationSource, treating
// each named sequence as one row and one block, so the administrative CLI
// can exercise the frequency analyzer without a real database host.
type fastaRelationSource struct {
	fa      fasta.Fasta
	names   []string
	bitsPer int
}

func newFastaRelationSource(fa fasta.Fasta, bitsPerBase int) *fastaRelationSource {
	return &fastaRelationSource{fa: fa, names: fa.SeqNames(), bitsPer: bitsPerBase}
}

func (s *fastaRelationSource) BlockCount(ctx context.Context) (int64, error) {
	return int64(len(s.names)), nil
}

func (s *fastaRelationSource) TotalRows(ctx context.Context) (int64, error) {
	return int64(len(s.names)), nil
}

func (s *fastaRelationSource) OpenScanner(ctx context.Context, r host.BlockRange) (host.Scanner, error) {
	return &fastaScanner{source: s, pos: int(r.Start) - 1, end: int(r.End)}, nil
}

type fastaScanner struct {
	source *fastaRelationSource
	pos    int
	end    int
	err    error
}

func (s *fastaScanner) Next(ctx context.Context) bool {
	if s.err != nil || s.pos+1 >= s.end {
		return false
	}
	if err := ctx.Err(); err != nil {
		s.err = err
		return false
	}
	s.pos++
	return true
}

func (s *fastaScanner) Row() ([]byte, int, int) {
	name := s.source.names[s.pos]
	length, err := s.source.fa.Len(name)
	if err != nil {
		s.err = err
		return nil, 0, s.source.bitsPer
	}
	if s.source.bitsPer == 2 {
		seq, err := fasta.GetDNA2(s.source.fa, name, 0, length)
		if err != nil {
			s.err = err
			return nil, 0, s.source.bitsPer
		}
		return seq.Payload(), seq.NucleotideLen(), 2
	}
	seq, err := fasta.GetDNA4(s.source.fa, name, 0, length)
	if err != nil {
		s.err = err
		return nil, 0, s.source.bitsPer
	}
	return seq.Payload(), seq.NucleotideLen(), 4
}

func (s *fastaScanner) Err() error {
	if s.err != nil {
		return kerrors.E(kerrors.WorkerFailure, s.err)
	}
	return nil
}

var _ host.RelationSource = (*fastaRelationSource)(nil)
var _ host.Scanner = (*fastaScanner)(nil)
