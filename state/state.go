// Copyright 2025 Treeline Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package state provides client-side state holders and the per-manager
// registry that replays their contents to the stateless backend.
//
// The backend retains nothing between calls, so everything it needs beyond
// the call arguments (registered rulesets, ruleset variable values) lives in
// holders on the client. The registry collects every holder owned by a
// manager and produces the serialized snapshot attached to each outgoing
// request.
package state

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrDuplicateKey is returned when registering a holder whose key is already
// bound to a different holder instance. This indicates a bug in the caller;
// it never occurs through manager-owned holders.
var ErrDuplicateKey = errors.New("state holder key already registered")

// Holder is a named bundle of client-local state. Key identifies the holder
// within its registry. State returns the holder's current contents in a
// wire-ready form; it must not mutate the holder and must produce
// deterministic entry ordering.
type Holder interface {
	Key() string
	State() (any, error)
}

// Entry is one serialized holder within a registry snapshot
type Entry struct {
	Key   string `cbor:"key"`
	State any    `cbor:"state"`
}

// Registry tracks the state holders owned by a single manager. It guarantees
// at most one holder per key: repeated GetOrCreate calls for a key return
// the identical instance and run the factory at most once.
type Registry struct {
	mutex      sync.Mutex
	holders    map[string]Holder
	onRegister func(Holder)
}

// NewRegistry creates an empty registry. If onRegister is non-nil it is
// invoked exactly once per holder after the holder is added, outside the
// registry lock.
func NewRegistry(onRegister func(Holder)) *Registry {
	return &Registry{
		holders:    map[string]Holder{},
		onRegister: onRegister,
	}
}

// Register adds a holder under its own key. Registering the same instance
// again is a no-op. A different instance under an existing key fails with
// ErrDuplicateKey.
func (r *Registry) Register(h Holder) error {
	key := h.Key()
	r.mutex.Lock()
	existing, ok := r.holders[key]
	if ok {
		r.mutex.Unlock()
		if existing == h {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	r.holders[key] = h
	r.mutex.Unlock()
	if r.onRegister != nil {
		r.onRegister(h)
	}
	return nil
}

// GetOrCreate returns the holder registered under key, creating and
// registering one via factory when absent. The factory must return a holder
// whose Key() equals key. Concurrent callers for the same key observe the
// same instance; the factory runs at most once per key for the registry's
// lifetime.
func (r *Registry) GetOrCreate(key string, factory func() Holder) Holder {
	r.mutex.Lock()
	existing, ok := r.holders[key]
	if ok {
		r.mutex.Unlock()
		return existing
	}
	h := factory()
	r.holders[key] = h
	r.mutex.Unlock()
	if r.onRegister != nil {
		r.onRegister(h)
	}
	return h
}

// Get returns the holder registered under key, if any
func (r *Registry) Get(key string) (Holder, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	h, ok := r.holders[key]
	return h, ok
}

// Len returns the number of registered holders
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.holders)
}

// Snapshot returns the serialized form of every registered holder, sorted by
// key. The result is attached to outgoing requests so the backend can
// reconstruct client state.
func (r *Registry) Snapshot() ([]Entry, error) {
	r.mutex.Lock()
	holders := make([]Holder, 0, len(r.holders))
	keys := make([]string, 0, len(r.holders))
	for key := range r.holders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		holders = append(holders, r.holders[key])
	}
	r.mutex.Unlock()
	// Serialize outside the lock. Holder State() implementations take their
	// own locks and must not depend on registry state.
	entries := make([]Entry, 0, len(holders))
	for i, h := range holders {
		holderState, err := h.State()
		if err != nil {
			return nil, fmt.Errorf(
				"serialize state holder %s: %w",
				keys[i],
				err,
			)
		}
		entries = append(entries, Entry{
			Key:   keys[i],
			State: holderState,
		})
	}
	return entries, nil
}
