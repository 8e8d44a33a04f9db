// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package kmer

// MaxDegenerateExpansion is the cap on the number of k-mers a single DNA4
// window may expand into (§3: "implementation-defined cap (≤ 10)").
const MaxDegenerateExpansion = 10

// maskOptions[mask] lists, in fixed base-index order (A<C<G<T, i.e. code
// 0,1,2,3), the 2-bit codes present in a 4-bit union mask. It is the §4.2
// "16-entry table" mapping a DNA4 nibble to its component bases.
var maskOptions [16][]byte

func init() {
	for mask := 0; mask < 16; mask++ {
		var opts []byte
		for code := byte(0); code < 4; code++ {
			if mask&(1<<code) != 0 {
				opts = append(opts, code)
			}
		}
		maskOptions[mask] = opts
	}
}

// expandWindow enumerates the Cartesian product of a window's per-position
// base options, in left-to-right position order with the rightmost
// position varying fastest (an "odometer" with the window's first base as
// the most significant digit). It returns nil if the product is 0 (an
// invalid, all-zero mask was present) or exceeds MaxDegenerateExpansion.
func expandWindow(masks []byte) [][]byte {
	k := len(masks)
	opts := make([][]byte, k)
	product := 1
	for i, m := range masks {
		o := maskOptions[m]
		if len(o) == 0 {
			return nil
		}
		opts[i] = o
		product *= len(o)
		if product > MaxDegenerateExpansion {
			return nil
		}
	}
	combos := make([][]byte, 0, product)
	idx := make([]int, k)
	for {
		combo := make([]byte, k)
		for i, o := range opts {
			combo[i] = o[idx[i]]
		}
		combos = append(combos, combo)

		pos := k - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(opts[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return combos
}
