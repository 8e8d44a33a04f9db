// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package store implements host.KVStore, the durable key/value
// collaborator §6 says holds the persisted frequency record. §1 treats
// persistent storage of high-frequency k-mers as "modeled abstractly as a
// key/value collaborator"; this package supplies concrete backends for
// that abstraction: in-memory (tests), local/any-scheme file paths via
// github.com/grailbio/base/file, and S3 via that same package's s3file
// implementation.
package store

import (
	"context"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/kmersearch/engine/host"
)

// Memory is an in-process host.KVStore, suitable for tests and for a
// single-backend deployment with no cross-process durability requirement.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory { return &Memory{data: make(map[string][]byte)} }

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// FileStore persists each key as one object under a root path/URL (local
// path, or any scheme github.com/grailbio/base/file has an implementation
// registered for, e.g. "s3://..."). Object names are the store key with
// path separators escaped, joined under root.
type FileStore struct {
	root string
}

// NewFileStore builds a FileStore rooted at root (a local directory or a
// registered-scheme URL prefix such as "s3://bucket/prefix").
func NewFileStore(root string) *FileStore { return &FileStore{root: root} }

func (f *FileStore) pathFor(key string) string {
	return f.root + "/" + escapeKey(key)
}

func escapeKey(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			out = append(out, '_')
		} else {
			out = append(out, key[i])
		}
	}
	return string(out)
}

func (f *FileStore) Put(ctx context.Context, key string, value []byte) error {
	w, err := file.Create(ctx, f.pathFor(key))
	if err != nil {
		return err
	}
	if _, err := w.Writer(ctx).Write(value); err != nil {
		w.Close(ctx)
		return err
	}
	return w.Close(ctx)
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := file.ReadFile(ctx, f.pathFor(key))
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.NotExist {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileStore) Delete(ctx context.Context, key string) error {
	return file.Remove(ctx, f.pathFor(key))
}

var _ host.KVStore = (*Memory)(nil)
var _ host.KVStore = (*FileStore)(nil)
