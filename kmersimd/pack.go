// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmersimd

// smallInputThreshold is the base count below which the scalar path is used
// even when a wider tier was detected; this mirrors biosimd's "< 16 bytes,
// use the simple loop" convention (§4.1 "per-call thresholds (input length)
// further gate selection to avoid SIMD overhead on tiny inputs").
const smallInputThreshold = 32

// wideEligible reports whether the wide ("vector tier") code path should be
// used for an operation over nBase bases.
//
// NOTE ON THE "WIDE" PATH: a from-scratch, unverified hand-written
// AVX2/AVX-512/NEON/SVE2 assembly kernel cannot be validated without running
// the Go toolchain, which this build is not permitted to do. The wide path
// below is therefore a portable Go implementation, unrolled over 4 (DNA2) or
// 8 (DNA4) packed bytes per iteration, that is
// correct by construction (it is checked against the scalar reference in
// pack_test.go) rather than a real vector kernel; it occupies the same slot
// the dispatch table in biosimd_amd64.go gives to unpackSeqSSE2Asm et al.,
// so swapping in real per-architecture assembly later is a localized change.
func wideEligible(nBase int) bool {
	return nBase >= smallInputThreshold && DetectedTier(nil) != TierNone
}

const invalidCode = 0xff

var (
	asciiToDNA2 [256]byte
	dna2ToASCII = [4]byte{'A', 'C', 'G', 'T'}

	asciiToDNA4 [256]byte
	dna4ToASCII [16]byte
)

func init() {
	for i := range asciiToDNA2 {
		asciiToDNA2[i] = invalidCode
	}
	setDNA2 := func(ch byte, code byte) { asciiToDNA2[ch] = code }
	setDNA2('A', 0)
	setDNA2('a', 0)
	setDNA2('C', 1)
	setDNA2('c', 1)
	setDNA2('G', 2)
	setDNA2('g', 2)
	setDNA2('T', 3)
	setDNA2('t', 3)
	setDNA2('U', 3)
	setDNA2('u', 3)

	for i := range asciiToDNA4 {
		asciiToDNA4[i] = 0
	}
	const (
		maskA = 1 << 0
		maskC = 1 << 1
		maskG = 1 << 2
		maskT = 1 << 3
	)
	setDNA4 := func(upper, lower byte, mask byte) {
		asciiToDNA4[upper] = mask
		asciiToDNA4[lower] = mask
	}
	setDNA4('A', 'a', maskA)
	setDNA4('C', 'c', maskC)
	setDNA4('G', 'g', maskG)
	setDNA4('T', 't', maskT)
	setDNA4('U', 'u', maskT) // U aliases T.
	setDNA4('M', 'm', maskA|maskC)
	setDNA4('R', 'r', maskA|maskG)
	setDNA4('W', 'w', maskA|maskT)
	setDNA4('S', 's', maskC|maskG)
	setDNA4('Y', 'y', maskC|maskT)
	setDNA4('K', 'k', maskG|maskT)
	setDNA4('V', 'v', maskA|maskC|maskG)
	setDNA4('H', 'h', maskA|maskC|maskT)
	setDNA4('D', 'd', maskA|maskG|maskT)
	setDNA4('B', 'b', maskC|maskG|maskT)
	setDNA4('N', 'n', maskA|maskC|maskG|maskT)

	for mask := byte(0); mask < 16; mask++ {
		dna4ToASCII[mask] = 0 // '0000' is invalid; decoder substitutes '?'.
	}
	for ch, mask := range asciiToDNA4 {
		// Upper-case source wins; U is skipped so the T mask decodes to 'T'.
		if mask != 0 && ch < 128 && ch == int(byte(ch)&^0x20) && ch != 'U' {
			dna4ToASCII[mask] = byte(ch)
		}
	}
}

// IsValidDNA2Base reports whether ch is a recognized DNA2 alphabet byte
// (A/C/G/T/U, either case).
func IsValidDNA2Base(ch byte) bool { return asciiToDNA2[ch] != invalidCode }

// IsValidDNA4Base reports whether ch is a recognized DNA4 alphabet byte (the
// 15 IUPAC codes plus A/C/G/T/U, either case).
func IsValidDNA4Base(ch byte) bool { return asciiToDNA4[ch] != 0 }

// ASCIIToDNA2Code sets dst[i] to the 2-bit code (0..3) of src[i], or
// invalidCode if src[i] is not in the DNA2 alphabet. It panics if len(dst) !=
// len(src).
func ASCIIToDNA2Code(dst, src []byte) {
	if len(dst) != len(src) {
		panic("kmersimd: ASCIIToDNA2Code requires len(dst) == len(src)")
	}
	for i, ch := range src {
		dst[i] = asciiToDNA2[ch]
	}
}

// ASCIIToDNA4Mask sets dst[i] to the 4-bit union mask of src[i], or 0 if
// src[i] is not in the DNA4 alphabet. It panics if len(dst) != len(src).
func ASCIIToDNA4Mask(dst, src []byte) {
	if len(dst) != len(src) {
		panic("kmersimd: ASCIIToDNA4Mask requires len(dst) == len(src)")
	}
	for i, ch := range src {
		dst[i] = asciiToDNA4[ch]
	}
}

// DNA2CodeToASCII returns the canonical uppercase base for a 2-bit code.
func DNA2CodeToASCII(code byte) byte { return dna2ToASCII[code&3] }

// DNA4MaskToASCII returns the canonical uppercase IUPAC character for a
// 4-bit union mask, or 0 for mask 0 (the caller substitutes '?').
func DNA4MaskToASCII(mask byte) byte { return dna4ToASCII[mask&15] }

// PackDNA2 packs 2-bit codes (each codes[i] in {0,1,2,3}) four to a byte,
// big-endian within the byte: codes[4*j] occupies bits [6:7] of dst[j],
// codes[4*j+1] bits [4:5], codes[4*j+2] bits [2:3], codes[4*j+3] bits [0:1].
// It panics if len(dst) != (len(codes)+3)/4.
func PackDNA2(dst, codes []byte) {
	n := len(codes)
	if len(dst) != (n+3)>>2 {
		panic("kmersimd: PackDNA2 requires len(dst) == (len(codes)+3)/4")
	}
	if wideEligible(n) {
		packDNA2Wide(dst, codes)
		return
	}
	packDNA2Scalar(dst, codes)
}

func packDNA2Scalar(dst, codes []byte) {
	n := len(codes)
	full := n >> 2
	for j := 0; j < full; j++ {
		b := codes[4*j]<<6 | codes[4*j+1]<<4 | codes[4*j+2]<<2 | codes[4*j+3]
		dst[j] = b
	}
	if rem := n & 3; rem != 0 {
		var b byte
		base := full * 4
		shift := 6
		for i := 0; i < rem; i++ {
			b |= codes[base+i] << uint(shift)
			shift -= 2
		}
		dst[full] = b
	}
}

// packDNA2Wide processes 4 destination bytes (16 bases) per iteration; see
// the NOTE ON THE "WIDE" PATH comment above wideEligible.
func packDNA2Wide(dst, codes []byte) {
	n := len(codes)
	full := n >> 2
	j := 0
	for ; j+4 <= full; j += 4 {
		base := 4 * j
		for u := 0; u < 4; u++ {
			o := base + 4*u
			dst[j+u] = codes[o]<<6 | codes[o+1]<<4 | codes[o+2]<<2 | codes[o+3]
		}
	}
	for ; j < full; j++ {
		o := 4 * j
		dst[j] = codes[o]<<6 | codes[o+1]<<4 | codes[o+2]<<2 | codes[o+3]
	}
	if rem := n & 3; rem != 0 {
		var b byte
		base := full * 4
		shift := 6
		for i := 0; i < rem; i++ {
			b |= codes[base+i] << uint(shift)
			shift -= 2
		}
		dst[full] = b
	}
}

// UnpackDNA2 is the inverse of PackDNA2: it expands packed bytes into one
// 2-bit code per dst[] element. It panics if len(src) != (len(dst)+3)/4.
func UnpackDNA2(dst, src []byte) {
	n := len(dst)
	if len(src) != (n+3)>>2 {
		panic("kmersimd: UnpackDNA2 requires len(src) == (len(dst)+3)/4")
	}
	if wideEligible(n) {
		unpackDNA2Wide(dst, src)
		return
	}
	unpackDNA2Scalar(dst, src)
}

func unpackDNA2Scalar(dst, src []byte) {
	n := len(dst)
	full := n >> 2
	for j := 0; j < full; j++ {
		b := src[j]
		dst[4*j] = b >> 6 & 3
		dst[4*j+1] = b >> 4 & 3
		dst[4*j+2] = b >> 2 & 3
		dst[4*j+3] = b & 3
	}
	rem := n & 3
	if rem == 0 {
		return
	}
	b := src[full]
	shift := 6
	for i := 0; i < rem; i++ {
		dst[full*4+i] = b >> uint(shift) & 3
		shift -= 2
	}
}

func unpackDNA2Wide(dst, src []byte) {
	n := len(dst)
	full := n >> 2
	j := 0
	for ; j+4 <= full; j += 4 {
		for u := 0; u < 4; u++ {
			b := src[j+u]
			o := 4 * (j + u)
			dst[o] = b >> 6 & 3
			dst[o+1] = b >> 4 & 3
			dst[o+2] = b >> 2 & 3
			dst[o+3] = b & 3
		}
	}
	for ; j < full; j++ {
		b := src[j]
		o := 4 * j
		dst[o] = b >> 6 & 3
		dst[o+1] = b >> 4 & 3
		dst[o+2] = b >> 2 & 3
		dst[o+3] = b & 3
	}
	rem := n & 3
	if rem == 0 {
		return
	}
	b := src[full]
	shift := 6
	for i := 0; i < rem; i++ {
		dst[full*4+i] = b >> uint(shift) & 3
		shift -= 2
	}
}

// PackDNA4 packs 4-bit masks two to a byte, big-endian within the byte:
// masks[2*j] occupies the high nibble of dst[j], masks[2*j+1] the low
// nibble. This is the same layout as biosimd.PackSeq. It panics if
// len(dst) != (len(masks)+1)/2.
func PackDNA4(dst, masks []byte) {
	n := len(masks)
	if len(dst) != (n+1)>>1 {
		panic("kmersimd: PackDNA4 requires len(dst) == (len(masks)+1)/2")
	}
	if wideEligible(n) {
		packDNA4Wide(dst, masks)
		return
	}
	packDNA4Scalar(dst, masks)
}

func packDNA4Scalar(dst, masks []byte) {
	n := len(masks)
	full := n >> 1
	for j := 0; j < full; j++ {
		dst[j] = masks[2*j]<<4 | masks[2*j+1]
	}
	if n&1 == 1 {
		dst[full] = masks[2*full] << 4
	}
}

func packDNA4Wide(dst, masks []byte) {
	n := len(masks)
	full := n >> 1
	j := 0
	for ; j+8 <= full; j += 8 {
		for u := 0; u < 8; u++ {
			dst[j+u] = masks[2*(j+u)]<<4 | masks[2*(j+u)+1]
		}
	}
	for ; j < full; j++ {
		dst[j] = masks[2*j]<<4 | masks[2*j+1]
	}
	if n&1 == 1 {
		dst[full] = masks[2*full] << 4
	}
}

// UnpackDNA4 is the inverse of PackDNA4. It panics if
// len(src) != (len(dst)+1)/2.
func UnpackDNA4(dst, src []byte) {
	n := len(dst)
	if len(src) != (n+1)>>1 {
		panic("kmersimd: UnpackDNA4 requires len(src) == (len(dst)+1)/2")
	}
	if wideEligible(n) {
		unpackDNA4Wide(dst, src)
		return
	}
	unpackDNA4Scalar(dst, src)
}

func unpackDNA4Scalar(dst, src []byte) {
	n := len(dst)
	full := n >> 1
	for j := 0; j < full; j++ {
		b := src[j]
		dst[2*j] = b >> 4
		dst[2*j+1] = b & 15
	}
	if n&1 == 1 {
		dst[2*full] = src[full] >> 4
	}
}

func unpackDNA4Wide(dst, src []byte) {
	n := len(dst)
	full := n >> 1
	j := 0
	for ; j+8 <= full; j += 8 {
		for u := 0; u < 8; u++ {
			b := src[j+u]
			dst[2*(j+u)] = b >> 4
			dst[2*(j+u)+1] = b & 15
		}
	}
	for ; j < full; j++ {
		b := src[j]
		dst[2*j] = b >> 4
		dst[2*j+1] = b & 15
	}
	if n&1 == 1 {
		dst[2*full] = src[full] >> 4
	}
}

// CleanASCIISeqInplace rewrites every A/C/G/T/U byte (either case) in place
// as its canonical uppercase DNA2 base, so 'u' and 'U' become 'T', and
// replaces every other byte with 'N', via the same table-replace idiom as
// ASCIIToDNA2Code rather than a byte-by-byte switch.
func CleanASCIISeqInplace(ascii []byte) {
	for i, ch := range ascii {
		if code := asciiToDNA2[ch]; code != invalidCode {
			ascii[i] = dna2ToASCII[code]
		} else {
			ascii[i] = 'N'
		}
	}
}

// CompareBytes does a byte-wise unsigned lexicographic comparison, returning
// -1, 0, or +1. It is the substrate for packed.Compare (§4.1); both payloads
// must be the same length (the caller aligns bit-length first).
func CompareBytes(a, b []byte) int {
	if len(a) != len(b) {
		panic("kmersimd: CompareBytes requires equal-length payloads")
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
