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

// Package treeline implements the client for the Treeline presentation
// service: a stateless backend that evaluates rulesets against a remote
// dataset to produce hierarchies, content and display labels.
//
// The Manager is the main entry point. It translates local method calls
// into remote calls over an rpc.Handler, normalizes per-call options, and
// replays client-owned state (registered rulesets, ruleset variables) with
// every call so the backend never has to remember anything between calls.
//
// This package is the main entry point into this library. The other packages
// can be used outside of this one, but it's not a primary design goal.
package treeline

import (
	"github.com/treelinedb/gotreeline/rpc"
)

// Dataset is a caller-supplied connection to a remote dataset. Key resolves
// the dataset key the backend should operate on; it is called immediately
// before each request, so implementations backed by a live connection can
// fail once the connection goes away.
type Dataset interface {
	Key() (rpc.DatasetKey, error)
}

// StaticDataset is a Dataset with a fixed key, for hosts whose dataset
// reference does not change during a session
type StaticDataset struct {
	key rpc.DatasetKey
}

// NewStaticDataset creates a StaticDataset for the given dataset id and
// revision
func NewStaticDataset(id string, revision string) *StaticDataset {
	return &StaticDataset{
		key: rpc.DatasetKey{
			ID:       id,
			Revision: revision,
		},
	}
}

// Key implements Dataset
func (d *StaticDataset) Key() (rpc.DatasetKey, error) {
	return d.key, nil
}
