// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package packed

import (
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmersimd"
)

// DNA2 is an immutable bit-packed DNA sequence using the 2-bit A/C/G/T
// alphabet (§3). The zero value is the empty sequence.
type DNA2 struct {
	bitLen  int32
	payload []byte
}

// EncodeDNA2 packs an ASCII nucleotide string into a DNA2 value. Every byte
// of ascii must be in {A,C,G,T,U,a,c,g,t,u}; the first offending byte is
// reported via a kerrors.InvalidEncoding error.
func EncodeDNA2(ascii []byte) (DNA2, error) {
	for i, ch := range ascii {
		if !kmersimd.IsValidDNA2Base(ch) {
			return DNA2{}, kerrors.Errorf(kerrors.InvalidEncoding,
				"packed: EncodeDNA2: byte %q at offset %d is not in the DNA2 alphabet", ch, i)
		}
	}
	codes := make([]byte, len(ascii))
	kmersimd.ASCIIToDNA2Code(codes, ascii)
	payload := make([]byte, (len(ascii)+3)/4)
	kmersimd.PackDNA2(payload, codes)
	return DNA2{bitLen: int32(len(ascii)) * 2, payload: payload}, nil
}

// Decode produces the canonical uppercase ASCII string for d; T is always
// emitted, U is never produced (§4.1).
func (d DNA2) Decode() []byte {
	n := d.NucleotideLen()
	codes := make([]byte, n)
	kmersimd.UnpackDNA2(codes, d.payload)
	out := make([]byte, n)
	for i, c := range codes {
		out[i] = kmersimd.DNA2CodeToASCII(c)
	}
	return out
}

// BitLen returns the number of significant bits (always 2*NucleotideLen).
func (d DNA2) BitLen() int32 { return d.bitLen }

// NucleotideLen returns the base count.
func (d DNA2) NucleotideLen() int { return int(d.bitLen / 2) }

// Payload returns the raw packed bytes, owned by d; callers must not
// mutate the returned slice.
func (d DNA2) Payload() []byte { return d.payload }

// CompareDNA2 performs the byte-wise unsigned comparison of §4.1. Both
// operands must share a bit-length; a mismatch is a programmer error
// (panics), per "length mismatch on compare -> programmer error
// (panic-equivalent)".
func CompareDNA2(a, b DNA2) int {
	if a.bitLen != b.bitLen {
		panic("packed: CompareDNA2 requires equal bit-length operands")
	}
	return commonCompare(a.payload, b.payload)
}

// OrderDNA2 implements the secondary total order used by btree support
// (§4.6): bit-length ascending, then CompareDNA2.
func OrderDNA2(a, b DNA2) int {
	return commonOrder(a.bitLen, b.bitLen, a.payload, b.payload)
}

// Equal reports whether a and b have identical bit-length and payload.
func (d DNA2) Equal(o DNA2) bool { return OrderDNA2(d, o) == 0 }

// Hash32/Hash64 are the hash-support functions of §6: they hash the
// payload only, making them consistent with Equal's requirement of equal
// bit-length (two payloads with different bit-length are never Equal even
// if the shorter is a byte-for-byte prefix match).
func (d DNA2) Hash32(seed uint32) uint32 { return commonHash32(d.payload, seed) }
func (d DNA2) Hash64(seed uint64) uint64 { return commonHash64(d.payload, seed) }

// HighwayHash64 is the keyed alternate hash-support function (§6): a hash
// index access method that wants a schedule independent of Hash64's
// seeded-farm family uses this one instead.
func (d DNA2) HighwayHash64() uint64 { return commonHighway64(d.payload) }

// Send serializes d for the host's binary wire protocol.
func (d DNA2) Send() []byte { return commonSend(d.bitLen, d.payload) }

// RecvDNA2 deserializes bytes produced by Send.
func RecvDNA2(data []byte) (DNA2, error) {
	bitLen, payload, err := commonRecv(data)
	if err != nil {
		return DNA2{}, err
	}
	if bitLen%2 != 0 {
		return DNA2{}, kerrors.Errorf(kerrors.DimensionMismatch, "packed: RecvDNA2: bit-length %d is not a multiple of 2", bitLen)
	}
	return DNA2{bitLen: bitLen, payload: payload}, nil
}

// ToBytea produces the stable, wire-framing-free byte encoding used for
// external hashing (§6).
func (d DNA2) ToBytea() []byte { return commonToBytea(d.bitLen, d.payload) }

// DNA2FromBytea is the inverse of ToBytea.
func DNA2FromBytea(data []byte) (DNA2, error) { return RecvDNA2(data) }
