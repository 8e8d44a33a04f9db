// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmer

// Keys is an ordered uintkey multiset backed by the narrowest array element
// type that fits the requested Width. Implementations are KeysU16, KeysU32,
// KeysU64.
type Keys interface {
	Width() Width
	Len() int
	At(i int) uint64
}

type KeysU16 []uint16

func (k KeysU16) Width() Width   { return Width16 }
func (k KeysU16) Len() int       { return len(k) }
func (k KeysU16) At(i int) uint64 { return uint64(k[i]) }

type KeysU32 []uint32

func (k KeysU32) Width() Width   { return Width32 }
func (k KeysU32) Len() int       { return len(k) }
func (k KeysU32) At(i int) uint64 { return uint64(k[i]) }

type KeysU64 []uint64

func (k KeysU64) Width() Width   { return Width64 }
func (k KeysU64) Len() int       { return len(k) }
func (k KeysU64) At(i int) uint64 { return k[i] }

// keysBuilder accumulates uintkeys into the concrete array type for a
// given Width.
type keysBuilder struct {
	width Width
	u16   KeysU16
	u32   KeysU32
	u64   KeysU64
}

func newKeysBuilder(width Width, capHint int) *keysBuilder {
	b := &keysBuilder{width: width}
	switch width {
	case Width16:
		b.u16 = make(KeysU16, 0, capHint)
	case Width32:
		b.u32 = make(KeysU32, 0, capHint)
	default:
		b.u64 = make(KeysU64, 0, capHint)
	}
	return b
}

func (b *keysBuilder) append(key uint64) {
	switch b.width {
	case Width16:
		b.u16 = append(b.u16, uint16(key))
	case Width32:
		b.u32 = append(b.u32, uint32(key))
	default:
		b.u64 = append(b.u64, key)
	}
}

func (b *keysBuilder) build() Keys {
	switch b.width {
	case Width16:
		return b.u16
	case Width32:
		return b.u32
	default:
		return b.u64
	}
}
