// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package index

import "github.com/kmersearch/engine/packed"

// The five comparison operators below, together with packed.OrderDNA2/
// OrderDNA4 as the compare function, are the btree-support surface of §6;
// all derive from that bit-length-then-byte total order (§4.6
// "Ordering/btree support").

func LessDNA2(a, b packed.DNA2) bool           { return packed.OrderDNA2(a, b) < 0 }
func LessOrEqualDNA2(a, b packed.DNA2) bool    { return packed.OrderDNA2(a, b) <= 0 }
func GreaterDNA2(a, b packed.DNA2) bool        { return packed.OrderDNA2(a, b) > 0 }
func GreaterOrEqualDNA2(a, b packed.DNA2) bool { return packed.OrderDNA2(a, b) >= 0 }
func NotEqualDNA2(a, b packed.DNA2) bool       { return packed.OrderDNA2(a, b) != 0 }

func LessDNA4(a, b packed.DNA4) bool           { return packed.OrderDNA4(a, b) < 0 }
func LessOrEqualDNA4(a, b packed.DNA4) bool    { return packed.OrderDNA4(a, b) <= 0 }
func GreaterDNA4(a, b packed.DNA4) bool        { return packed.OrderDNA4(a, b) > 0 }
func GreaterOrEqualDNA4(a, b packed.DNA4) bool { return packed.OrderDNA4(a, b) >= 0 }
func NotEqualDNA4(a, b packed.DNA4) bool       { return packed.OrderDNA4(a, b) != 0 }

// HashSupportDNA2/DNA4 are the hash-index support functions of §6: a hash
// access method keys its buckets on these rather than on Hash64, which is
// also handed to the host for other purposes and would otherwise correlate
// bucket placement with every other seeded-farm consumer.
func HashSupportDNA2(a packed.DNA2) uint64 { return a.HighwayHash64() }
func HashSupportDNA4(a packed.DNA4) uint64 { return a.HighwayHash64() }
