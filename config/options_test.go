// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/kmersearch/engine/kerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValid(t *testing.T) {
	require.NoError(t, DefaultOptions.Validate())
}

func TestValidateRejectsOverBudget(t *testing.T) {
	o := DefaultOptions
	o.KmerSize = 32
	o.OccurBitlen = 16
	err := o.Validate()
	require.Error(t, err)
	assert.True(t, kerrors.Is(err, kerrors.ConfigurationError))
}

// T7 — the =% predicate.
func TestActualMinScoreT7(t *testing.T) {
	o := DefaultOptions
	o.MinScore = 2
	o.MinSharedRate = 0.5
	assert.Equal(t, 5, o.ActualMinScore(10))
}

// T8 — high-frequency analysis.
func TestHighFreqThresholdT8(t *testing.T) {
	o := DefaultOptions
	o.MaxAppearanceRate = 0.5
	o.MaxAppearanceNrow = 0
	assert.Equal(t, 50, o.HighFreqThreshold(100))

	o.MaxAppearanceRate = 0.7
	assert.Equal(t, 70, o.HighFreqThreshold(100))
}

type fakeInvalidator struct {
	populated map[Cache]bool
	cleared   []Cache
}

func (f *fakeInvalidator) Clear(c Cache) bool {
	f.cleared = append(f.cleared, c)
	was := f.populated[c]
	f.populated[c] = false
	return was
}

func TestRegistryInvalidationMatrix(t *testing.T) {
	inv := &fakeInvalidator{populated: map[Cache]bool{HighFreqCache: true}}
	var warnings int
	r := NewRegistry(inv, func(string, ...interface{}) { warnings++ })

	r.AssignHook(SettingKmerSize)
	assert.ElementsMatch(t, []Cache{QueryKmerCache, ActualMinScoreCache, HighFreqCache}, inv.cleared)
	assert.Equal(t, 1, warnings)

	inv.cleared = nil
	r.AssignHook(SettingMinScoreOrSharedRate)
	assert.Equal(t, []Cache{ActualMinScoreCache}, inv.cleared)
	assert.Equal(t, uint64(2), r.Generation())
}
