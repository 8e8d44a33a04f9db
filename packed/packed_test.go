// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package packed

import (
	"testing"

	"github.com/kmersearch/engine/kerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// T1 — round trip.
func TestDNA2RoundTrip(t *testing.T) {
	d, err := EncodeDNA2([]byte("ACGTACGT"))
	require.NoError(t, err)
	assert.Equal(t, int32(16), d.BitLen())
	assert.Equal(t, 8, d.NucleotideLen())
	assert.Equal(t, []byte{0x1b, 0x1b}, d.Payload())
	assert.Equal(t, "ACGTACGT", string(d.Decode()))
}

// T2 — U normalization.
func TestDNA4UNormalization(t *testing.T) {
	d, err := EncodeDNA4([]byte("AUGCN"))
	require.NoError(t, err)
	assert.Equal(t, "ATGCN", string(d.Decode()))
}

func TestDNA2InvalidEncoding(t *testing.T) {
	_, err := EncodeDNA2([]byte("ACGN"))
	require.Error(t, err)
	assert.True(t, kerrors.Is(err, kerrors.InvalidEncoding))
}

func TestDNA2SendRecv(t *testing.T) {
	d, err := EncodeDNA2([]byte("ACGTACGT"))
	require.NoError(t, err)
	wire := d.Send()
	back, err := RecvDNA2(wire)
	require.NoError(t, err)
	assert.True(t, d.Equal(back))
}

func TestDNA2ToByteaStable(t *testing.T) {
	d, err := EncodeDNA2([]byte("ACGTACGT"))
	require.NoError(t, err)
	assert.Equal(t, d.Send(), d.ToBytea())
}

func TestDNA2Order(t *testing.T) {
	short, _ := EncodeDNA2([]byte("AC"))
	long, _ := EncodeDNA2([]byte("ACGT"))
	assert.Equal(t, -1, OrderDNA2(short, long))
	assert.Equal(t, 1, OrderDNA2(long, short))

	a, _ := EncodeDNA2([]byte("ACGT"))
	b, _ := EncodeDNA2([]byte("ACGA"))
	assert.Equal(t, -1, OrderDNA2(b, a)) // A(00) < T(11) in the last base
}

func TestDNA2HashIsPayloadOnly(t *testing.T) {
	a, _ := EncodeDNA2([]byte("ACGT"))
	b, _ := EncodeDNA2([]byte("ACGT"))
	assert.Equal(t, a.Hash64(7), b.Hash64(7))
}

func TestDNA4Masks(t *testing.T) {
	d, err := EncodeDNA4([]byte("AN"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 15}, d.Masks())
}

func TestDNA4RecvRejectsBadBitLen(t *testing.T) {
	_, err := RecvDNA4([]byte{0, 0, 0, 3, 0xff})
	require.Error(t, err)
	assert.True(t, kerrors.Is(err, kerrors.DimensionMismatch))
}
