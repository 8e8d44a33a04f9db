// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package index

import (
	"testing"

	"github.com/kmersearch/engine/packed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSupportDeterministicAndDiscriminating(t *testing.T) {
	a, err := packed.EncodeDNA2([]byte("ACGTACGT"))
	require.NoError(t, err)
	b, err := packed.EncodeDNA2([]byte("ACGTACGG"))
	require.NoError(t, err)

	assert.Equal(t, HashSupportDNA2(a), HashSupportDNA2(a), "same payload must hash the same every call")
	assert.NotEqual(t, HashSupportDNA2(a), HashSupportDNA2(b), "distinct payloads should not collide in this tiny example")
}

func TestHashSupportIndependentOfHash64(t *testing.T) {
	a, err := packed.EncodeDNA4([]byte("ACGTN"))
	require.NoError(t, err)
	// HashSupportDNA4 uses a distinct key schedule (highwayhash) from
	// Hash64 (seeded farm); they are not expected to agree bit-for-bit.
	assert.NotEqual(t, HashSupportDNA4(a), a.Hash64(0))
}
