// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// +build !amd64,!arm64

package kmersimd

func detectTierForArch() Tier {
	return TierNone
}
