// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package packed implements the immutable bit-packed DNA2 and DNA4
// sequence representations (§3), their codecs (§4.1), wire format (§6),
// and the secondary bit-length-then-byte ordering used for btree/hash
// index support.
package packed

import (
	"encoding/binary"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmersimd"
	"github.com/minio/highwayhash"
)

// highwayKey is the all-zero 32-byte key used for hash-support functions;
// only relative ordering of hashes within this process matters, so a fixed
// key is sufficient (mirrors fusion.hashKey's zeroSeed convention).
var highwayKey [highwayhash.Size]byte

func commonSend(bitLen int32, payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(out, uint32(bitLen))
	copy(out[4:], payload)
	return out
}

func commonRecv(data []byte) (bitLen int32, payload []byte, err error) {
	if len(data) < 4 {
		return 0, nil, kerrors.E(kerrors.DimensionMismatch, "packed: recv: buffer shorter than the 4-byte bit-length header")
	}
	bitLen = int32(binary.BigEndian.Uint32(data))
	want := (int(bitLen) + 7) / 8
	body := data[4:]
	if len(body) != want {
		return 0, nil, kerrors.Errorf(kerrors.DimensionMismatch,
			"packed: recv: bit-length %d implies %d payload bytes, got %d", bitLen, want, len(body))
	}
	payload = make([]byte, len(body))
	copy(payload, body)
	return bitLen, payload, nil
}

// commonToBytea and commonSend produce byte-identical output: both are
// {bit-length: int32-be, payload}. They are kept as distinct call sites
// because to-bytea carries no wire-protocol framing around it (§6) while
// send is emitted as a protocol message body; a future protocol revision
// can change one without touching the other.
func commonToBytea(bitLen int32, payload []byte) []byte {
	return commonSend(bitLen, payload)
}

// commonCompare implements the byte-wise unsigned comparison of §4.1. Both
// payloads must already have been confirmed to share a bit-length;
// otherwise use commonOrder, which handles the bit-length-first secondary
// ordering.
func commonCompare(a, b []byte) int {
	if len(a) != len(b) {
		panic("packed: compare requires identical bit-length operands")
	}
	return kmersimd.CompareBytes(a, b)
}

// commonOrder implements the secondary total order (§4.6): bit-length
// ascending, then byte-wise compare.
func commonOrder(aBitLen, bBitLen int32, aPayload, bPayload []byte) int {
	if aBitLen != bBitLen {
		if aBitLen < bBitLen {
			return -1
		}
		return 1
	}
	return commonCompare(aPayload, bPayload)
}

// commonHash32/commonHash64 are the hash-support functions of §6. They hash
// the payload only, never the bit-length, so that two payloads equal under
// commonCompare hash equal too (commonOrder's equality additionally
// requires equal bit-length; §4.6 notes the hash is payload-only on
// purpose, for "equality-hash consistency with ==, which requires equal
// bit-lengths").
func commonHash32(payload []byte, seed uint32) uint32 {
	return uint32(farm.Hash64WithSeed(payload, uint64(seed)))
}

func commonHash64(payload []byte, seed uint64) uint64 {
	return farm.Hash64WithSeed(payload, seed)
}

// commonHighway64 offers a second, independently-implemented hash for
// callers (e.g. a hash-index access method) that want a keyed hash with a
// distinct schedule from the farm-hash-based hash-support functions above,
// rather than a second seed of the same family.
func commonHighway64(payload []byte) uint64 {
	sum := highwayhash.Sum(payload, highwayKey[:])
	return binary.LittleEndian.Uint64(sum[:8])
}

func logDebugDropped(format string, args ...interface{}) {
	if log.At(log.Debug) {
		log.Debug.Printf(format, args...)
	}
}
