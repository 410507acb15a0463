// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package generator

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// targets holds the output targets the CLI can render with, keyed by
// their Metadata name. cmd/cqrsgen registers the Go target at startup.
var (
	mu      sync.RWMutex
	targets = make(map[string]Target)
)

// Register makes t selectable by its Metadata name through the
// --target flag. It panics if another target already claims the name.
func Register(t Target) {
	mu.Lock()
	defer mu.Unlock()
	meta := t.Metadata()
	if _, exists := targets[meta.Name]; exists {
		panic(fmt.Sprintf("target %q already registered", meta.Name))
	}
	targets[meta.Name] = t
}

// Get returns the target rendering under name.
func Get(name string) (Target, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := targets[name]
	return t, ok
}

// List returns the names accepted by --target, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns the registered targets sorted by name, as inspect targets
// prints them.
func All() []Target {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Target) int {
		return strings.Compare(a.Metadata().Name, b.Metadata().Name)
	})
	return out
}

// Lookup resolves a --target value. The error for an unknown name lists
// the targets that are registered.
func Lookup(name string) (Target, error) {
	if t, ok := Get(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("unknown target %q (available: %s)", name, strings.Join(List(), ", "))
}

// Reset drops every registered target so tests can register their own.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	targets = make(map[string]Target)
}
