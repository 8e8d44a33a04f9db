// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"sync"

	"github.com/kmersearch/engine/host"
)

// ProcessLock is an in-process host.Lock keyed by name, standing in for
// the host's relation-lock facility (§4.4 "serialized by holding a shared
// lock on the relation") when no multi-process host is present, e.g. in
// the administrative CLI.
type ProcessLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProcessLock() *ProcessLock {
	return &ProcessLock{locks: make(map[string]*sync.Mutex)}
}

func (p *ProcessLock) named(name string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.locks[name]
	if !ok {
		m = &sync.Mutex{}
		p.locks[name] = m
	}
	return m
}

// Lock acquires the named lock, returning an unlock function. It ignores
// ctx cancellation: process-local mutexes never block indefinitely here
// since the only contention is concurrent admin-CLI analysis of the same
// (relation, column, k).
func (p *ProcessLock) Lock(ctx context.Context, name string) (func(), error) {
	m := p.named(name)
	m.Lock()
	return m.Unlock, nil
}

var _ host.Lock = (*ProcessLock)(nil)
