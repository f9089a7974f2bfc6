// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package bitfield

import (
	"sync"

	"go.uber.org/zap"
)

// Registry holds named layouts that can be replaced at runtime while other
// goroutines decode with them.
type Registry struct {
	mu       sync.RWMutex
	layouts  map[string]*Layout
	versions map[string]uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		layouts:  make(map[string]*Layout),
		versions: make(map[string]uint64),
	}
}

// Register adds or replaces a layout and returns its new version.
func (r *Registry) Register(name string, l *Layout) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.layouts[name] = l
	r.versions[name]++

	Logger().Debug("registered layout", zap.String("layout", name), zap.Uint64("version", r.versions[name]))
	return r.versions[name]
}

// RegisterYAML parses a layout definition and registers it. The definition
// is parsed before the lock is taken. A definition that does not parse is an
// InvalidLayout error whose Cause carries the underlying failure.
func (r *Registry) RegisterYAML(name, data string) (uint64, error) {
	l, err := ParseLayout(data)
	if err != nil {
		return 0, newError(KindInvalidLayout, "layout %q does not parse", name).because(err)
	}
	return r.Register(name, l), nil
}

// Get returns the named layout, or nil.
func (r *Registry) Get(name string) *Layout {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layouts[name]
}

// Version returns the current version of a layout, 0 if never registered.
func (r *Registry) Version(name string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.versions[name]
}

func (r *Registry) lookup(name string) (*Layout, error) {
	l := r.Get(name)
	if l == nil {
		return nil, newError(KindUnknownLayout, "layout %q is not registered", name)
	}
	return l, nil
}

// Decode decodes data with the named layout.
func (r *Registry) Decode(name string, data []byte) ([]string, error) {
	l, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return l.Decode(data)
}

// DecodeFull returns the full-detail decode of data with the named layout.
func (r *Registry) DecodeFull(name string, data []byte) ([]Entry, error) {
	l, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return l.DecodeFull(data)
}

// Encode encodes with the named layout.
func (r *Registry) Encode(name string, enabled []string, values map[string]int) ([]byte, error) {
	l, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return l.Encode(enabled, values)
}
