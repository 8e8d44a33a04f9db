// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package host defines the collaborator interfaces this engine consumes
// from its embedding database (§6 "Host-provided collaborators"). None of
// these are implemented here: the physical B-tree/GIN page layout,
// transaction management, the SQL parser, catalog tables, and the
// shared-preload bootstrap are explicitly out of scope (§1).
package host

import "context"

// InvertedIndex is the host's inverted-index API: it accepts per-row and
// per-query key arrays and a ternary consistency check.
type InvertedIndex interface {
	// Consistent evaluates the index's ternary predicate: whether the
	// recorded match count is sufficient, and whether the executor must
	// recheck the exact predicate against the heap tuple.
	Consistent(matches, nMatches, nQuery int) (match, recheck bool)
}

// Scanner iterates the rows of a relation's block range for frequency
// analysis (§4.4).
type Scanner interface {
	// Next advances to the next row, returning false at end of range or on
	// ctx cancellation.
	Next(ctx context.Context) bool
	// Row returns the current row's sequence-column value as raw packed
	// bytes plus its nucleotide length, avoiding a dependency on a
	// particular packed type.
	Row() (payload []byte, nucleotideLen int, bitsPerBase int)
	// Err returns the first error Next encountered, if any.
	Err() error
}

// BlockRange is a half-open [Start, End) range of physical blocks, the
// unit the frequency analyzer partitions across workers (§4.4).
type BlockRange struct {
	Start, End int64
}

// Len returns the number of blocks in the range.
func (r BlockRange) Len() int64 { return r.End - r.Start }

// RelationSource exposes a relation's total block count and the ability to
// open a Scanner over a sub-range, so the analyzer can partition work
// without knowing about table storage.
type RelationSource interface {
	BlockCount(ctx context.Context) (int64, error)
	OpenScanner(ctx context.Context, r BlockRange) (Scanner, error)
	// TotalRows is an approximate or exact row count, used for the
	// max-appearance-rate threshold (§3, §4.4).
	TotalRows(ctx context.Context) (int64, error)
}

// ParallelWorkers is the parallel-worker framework collaborator (§4.4,
// §6): it runs n independent units of work, returning the first error (if
// any), analogous to grailbio/base/traverse.Each.
type ParallelWorkers interface {
	Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error
}

// KVStore is the durable key/value collaborator that stores the
// frequency record (§6 "A durable key/value store (modeled abstractly)").
type KVStore interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error
}

// Lock is the shared relation lock the analyzer holds to serialize
// concurrent re-analysis of the same (relation, column, k) (§4.4).
type Lock interface {
	Lock(ctx context.Context, name string) (unlock func(), err error)
}
