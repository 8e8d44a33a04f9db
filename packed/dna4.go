// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package packed

import (
	"github.com/kmersearch/engine/kerrors"
	"github.com/kmersearch/engine/kmersimd"
)

// DNA4 is an immutable bit-packed DNA sequence using the 4-bit IUPAC
// union-of-bases alphabet (§3): A/C/G/T plus the 11 degenerate codes, with
// U aliasing T. The zero value is the empty sequence.
type DNA4 struct {
	bitLen  int32
	payload []byte
}

// EncodeDNA4 packs an ASCII nucleotide string, accepting the 15 IUPAC
// codes plus A/C/G/T/U. The all-zero code is never produced; an invalid
// byte is reported via kerrors.InvalidEncoding.
func EncodeDNA4(ascii []byte) (DNA4, error) {
	for i, ch := range ascii {
		if !kmersimd.IsValidDNA4Base(ch) {
			return DNA4{}, kerrors.Errorf(kerrors.InvalidEncoding,
				"packed: EncodeDNA4: byte %q at offset %d is not in the DNA4 alphabet", ch, i)
		}
	}
	masks := make([]byte, len(ascii))
	kmersimd.ASCIIToDNA4Mask(masks, ascii)
	payload := make([]byte, (len(ascii)+1)/2)
	kmersimd.PackDNA4(payload, masks)
	return DNA4{bitLen: int32(len(ascii)) * 4, payload: payload}, nil
}

// Decode produces the canonical uppercase IUPAC string for d. The
// forbidden all-zero nibble (which EncodeDNA4 never writes but which a
// malformed Recv payload could still carry) decodes to '?' defensively
// (§4.1).
func (d DNA4) Decode() []byte {
	n := d.NucleotideLen()
	masks := make([]byte, n)
	kmersimd.UnpackDNA4(masks, d.payload)
	out := make([]byte, n)
	for i, m := range masks {
		if ch := kmersimd.DNA4MaskToASCII(m); ch != 0 {
			out[i] = ch
		} else {
			out[i] = '?'
		}
	}
	return out
}

// Masks returns the per-base 4-bit union masks, decoded from the packed
// payload. This is the entry point the k-mer extractor uses for degenerate
// expansion (§4.2), avoiding a round trip through ASCII.
func (d DNA4) Masks() []byte {
	n := d.NucleotideLen()
	masks := make([]byte, n)
	kmersimd.UnpackDNA4(masks, d.payload)
	return masks
}

func (d DNA4) BitLen() int32      { return d.bitLen }
func (d DNA4) NucleotideLen() int { return int(d.bitLen / 4) }
func (d DNA4) Payload() []byte    { return d.payload }

// CompareDNA4 performs the byte-wise unsigned comparison of §4.1; operands
// must share a bit-length (panics otherwise).
func CompareDNA4(a, b DNA4) int {
	if a.bitLen != b.bitLen {
		panic("packed: CompareDNA4 requires equal bit-length operands")
	}
	return commonCompare(a.payload, b.payload)
}

// OrderDNA4 is the secondary total order of §4.6.
func OrderDNA4(a, b DNA4) int {
	return commonOrder(a.bitLen, b.bitLen, a.payload, b.payload)
}

func (d DNA4) Equal(o DNA4) bool { return OrderDNA4(d, o) == 0 }

func (d DNA4) Hash32(seed uint32) uint32 { return commonHash32(d.payload, seed) }
func (d DNA4) Hash64(seed uint64) uint64 { return commonHash64(d.payload, seed) }

// HighwayHash64 is DNA2.HighwayHash64's DNA4 counterpart.
func (d DNA4) HighwayHash64() uint64 { return commonHighway64(d.payload) }

func (d DNA4) Send() []byte { return commonSend(d.bitLen, d.payload) }

// RecvDNA4 is the inverse of Send.
func RecvDNA4(data []byte) (DNA4, error) {
	bitLen, payload, err := commonRecv(data)
	if err != nil {
		return DNA4{}, err
	}
	if bitLen%4 != 0 {
		return DNA4{}, kerrors.Errorf(kerrors.DimensionMismatch, "packed: RecvDNA4: bit-length %d is not a multiple of 4", bitLen)
	}
	return DNA4{bitLen: bitLen, payload: payload}, nil
}

func (d DNA4) ToBytea() []byte { return commonToBytea(d.bitLen, d.payload) }

// DNA4FromBytea is the inverse of ToBytea.
func DNA4FromBytea(data []byte) (DNA4, error) { return RecvDNA4(data) }
