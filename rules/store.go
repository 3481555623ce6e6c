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

package rules

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// StoreKey is the state holder key for the registered rulesets store. One
// store exists per manager; ruleset ids must not collide with this key.
const StoreKey = "rulesets"

// Registered is a ruleset registered with a manager, carrying its assigned
// registration id and content digest
type Registered struct {
	Ruleset
	UID    string `cbor:"uid"`
	Digest string `cbor:"digest"`
}

// Store holds the rulesets registered with a manager. It implements
// state.Holder, so registered rulesets travel to the backend with every
// request. Registration is local; no remote calls happen until the next
// operation.
type Store struct {
	mutex   sync.Mutex
	entries map[string]Registered
}

// NewStore creates an empty ruleset store
func NewStore() *Store {
	return &Store{
		entries: map[string]Registered{},
	}
}

// Key implements state.Holder
func (s *Store) Key() string {
	return StoreKey
}

// Add registers a ruleset, assigning it a fresh registration id and
// computing its content digest. Adding a ruleset with an already-registered
// id replaces the previous registration.
func (s *Store) Add(ruleset Ruleset) (Registered, error) {
	if ruleset.ID == "" {
		return Registered{}, fmt.Errorf("ruleset id must not be empty")
	}
	if ruleset.ID == StoreKey {
		return Registered{}, fmt.Errorf(
			"ruleset id %q collides with the rulesets holder key",
			ruleset.ID,
		)
	}
	digest, err := ruleset.Digest()
	if err != nil {
		return Registered{}, err
	}
	registered := Registered{
		Ruleset: ruleset,
		UID:     uuid.NewString(),
		Digest:  digest,
	}
	s.mutex.Lock()
	s.entries[ruleset.ID] = registered
	s.mutex.Unlock()
	return registered, nil
}

// Get returns the registration for a ruleset id, if any
func (s *Store) Get(id string) (Registered, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	registered, ok := s.entries[id]
	return registered, ok
}

// Remove drops the registration for a ruleset id. Returns false when the id
// was not registered
func (s *Store) Remove(id string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// List returns all registrations sorted by ruleset id
func (s *Store) List() []Registered {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.listLocked()
}

func (s *Store) listLocked() []Registered {
	ret := make([]Registered, 0, len(s.entries))
	for _, registered := range s.entries {
		ret = append(ret, registered)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].ID < ret[j].ID
	})
	return ret
}

// Clear drops all registrations
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries = map[string]Registered{}
}

// State implements state.Holder. Entries are sorted by ruleset id
func (s *Store) State() (any, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.listLocked(), nil
}
