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

package keys

import (
	"sort"

	"github.com/treelinedb/gotreeline/wire"
)

// KeySet is a collection of instance keys used to select the input for
// content operations. The zero value is not usable; use NewKeySet.
//
// The wire form groups identifiers by class and sorts both levels, so equal
// sets always serialize to equal bytes.
type KeySet struct {
	classes map[string]map[ID]struct{}
	size    int
}

// keySetEntry is the wire form of a single class bucket
type keySetEntry struct {
	Class string `cbor:"class"`
	IDs   []ID   `cbor:"ids"`
}

// NewKeySet creates a KeySet containing the provided instance keys
func NewKeySet(instanceKeys ...InstanceKey) *KeySet {
	ks := &KeySet{
		classes: map[string]map[ID]struct{}{},
	}
	ks.Add(instanceKeys...)
	return ks
}

// Add inserts the provided instance keys. Duplicates and invalid keys are
// ignored
func (ks *KeySet) Add(instanceKeys ...InstanceKey) {
	for _, key := range instanceKeys {
		if !key.IsValid() {
			continue
		}
		ids, ok := ks.classes[key.Class]
		if !ok {
			ids = map[ID]struct{}{}
			ks.classes[key.Class] = ids
		}
		if _, ok := ids[key.ID]; !ok {
			ids[key.ID] = struct{}{}
			ks.size++
		}
	}
}

// Remove deletes the provided instance keys. Keys not in the set are ignored
func (ks *KeySet) Remove(instanceKeys ...InstanceKey) {
	for _, key := range instanceKeys {
		ids, ok := ks.classes[key.Class]
		if !ok {
			continue
		}
		if _, ok := ids[key.ID]; ok {
			delete(ids, key.ID)
			ks.size--
			if len(ids) == 0 {
				delete(ks.classes, key.Class)
			}
		}
	}
}

// Has returns true when the set contains the provided instance key
func (ks *KeySet) Has(key InstanceKey) bool {
	ids, ok := ks.classes[key.Class]
	if !ok {
		return false
	}
	_, ok = ids[key.ID]
	return ok
}

// Size returns the number of instance keys in the set
func (ks *KeySet) Size() int {
	return ks.size
}

// Clear removes all keys from the set
func (ks *KeySet) Clear() {
	ks.classes = map[string]map[ID]struct{}{}
	ks.size = 0
}

// Keys returns the set contents sorted by class, then by identifier
func (ks *KeySet) Keys() []InstanceKey {
	ret := make([]InstanceKey, 0, ks.size)
	for _, entry := range ks.entries() {
		for _, id := range entry.IDs {
			ret = append(ret, InstanceKey{Class: entry.Class, ID: id})
		}
	}
	return ret
}

func (ks *KeySet) entries() []keySetEntry {
	entries := make([]keySetEntry, 0, len(ks.classes))
	for class, ids := range ks.classes {
		entry := keySetEntry{
			Class: class,
			IDs:   make([]ID, 0, len(ids)),
		}
		for id := range ids {
			entry.IDs = append(entry.IDs, id)
		}
		sort.Slice(entry.IDs, func(i, j int) bool {
			return entry.IDs[i] < entry.IDs[j]
		})
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Class < entries[j].Class
	})
	return entries
}

func (ks *KeySet) MarshalCBOR() ([]byte, error) {
	return wire.Encode(ks.entries())
}

func (ks *KeySet) UnmarshalCBOR(data []byte) error {
	var entries []keySetEntry
	if _, err := wire.Decode(data, &entries); err != nil {
		return err
	}
	ks.classes = map[string]map[ID]struct{}{}
	ks.size = 0
	for _, entry := range entries {
		for _, id := range entry.IDs {
			ks.Add(InstanceKey{Class: entry.Class, ID: id})
		}
	}
	return nil
}
