// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package freq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/kmersearch/engine/kerrors"
)

// Record is the persisted frequency record of §3: keyed externally by
// (relation-id, column-name, k), it carries the high-frequency key set plus
// the metadata needed to interpret and audit it.
type Record struct {
	Keys              []uint64
	OccurBitlen       int
	MaxAppearanceRate float64
	MaxAppearanceNrow int
	TotalRows         int64
	AnalysisTimestamp time.Time
}

// RecordKey builds the durable-store key for (relationID, column, k).
func RecordKey(relationID, column string, k int) string {
	return fmt.Sprintf("kmersearch/freq/%s/%s/k=%d", relationID, column, k)
}

// Marshal serializes r with a zstd-compressed body; the format is a
// fixed-field header (occur-bitlen, max-rate, max-rows, total-rows, unix
// nanos, key count) followed by the zstd-compressed, big-endian uint64 key
// array.
func (r Record) Marshal() ([]byte, error) {
	var header bytes.Buffer
	binary.Write(&header, binary.BigEndian, int32(r.OccurBitlen))
	binary.Write(&header, binary.BigEndian, r.MaxAppearanceRate)
	binary.Write(&header, binary.BigEndian, int64(r.MaxAppearanceNrow))
	binary.Write(&header, binary.BigEndian, r.TotalRows)
	binary.Write(&header, binary.BigEndian, r.AnalysisTimestamp.UnixNano())
	binary.Write(&header, binary.BigEndian, int64(len(r.Keys)))

	raw := make([]byte, 8*len(r.Keys))
	for i, k := range r.Keys {
		binary.BigEndian.PutUint64(raw[i*8:i*8+8], k)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	compressed := enc.EncodeAll(raw, nil)
	return append(header.Bytes(), compressed...), nil
}

// UnmarshalRecord is the inverse of Marshal.
func UnmarshalRecord(data []byte) (Record, error) {
	const headerLen = 4 + 8 + 8 + 8 + 8 + 8
	if len(data) < headerLen {
		return Record{}, kerrors.E(kerrors.DimensionMismatch, "freq: record shorter than its fixed header")
	}
	r := bytes.NewReader(data[:headerLen])
	var occurBitlen int32
	var maxRate float64
	var maxNrow, totalRows, unixNanos, keyCount int64
	binary.Read(r, binary.BigEndian, &occurBitlen)
	binary.Read(r, binary.BigEndian, &maxRate)
	binary.Read(r, binary.BigEndian, &maxNrow)
	binary.Read(r, binary.BigEndian, &totalRows)
	binary.Read(r, binary.BigEndian, &unixNanos)
	binary.Read(r, binary.BigEndian, &keyCount)

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return Record{}, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data[headerLen:], nil)
	if err != nil {
		return Record{}, err
	}
	if int64(len(raw)) != keyCount*8 {
		return Record{}, kerrors.Errorf(kerrors.DimensionMismatch,
			"freq: record declares %d keys but payload decompresses to %d bytes", keyCount, len(raw))
	}
	keys := make([]uint64, keyCount)
	for i := range keys {
		keys[i] = binary.BigEndian.Uint64(raw[i*8 : i*8+8])
	}
	return Record{
		Keys:              keys,
		OccurBitlen:       int(occurBitlen),
		MaxAppearanceRate: maxRate,
		MaxAppearanceNrow: int(maxNrow),
		TotalRows:         totalRows,
		AnalysisTimestamp: time.Unix(0, unixNanos).UTC(),
	}, nil
}

// Set returns r's keys as a lookup set.
func (r Record) Set() map[uint64]struct{} {
	s := make(map[uint64]struct{}, len(r.Keys))
	for _, k := range r.Keys {
		s[k] = struct{}{}
	}
	return s
}
