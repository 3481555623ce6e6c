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

// Package hierarchy provides tree node types produced by ruleset-driven
// hierarchy operations.
package hierarchy

import (
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
)

// Node key types
const (
	NodeInstances        = "instances"
	NodeClassGrouping    = "classGrouping"
	NodeLabelGrouping    = "labelGrouping"
	NodePropertyGrouping = "propertyGrouping"
	NodeCustom           = "custom"
)

// NodeKey uniquely identifies a node within a ruleset-produced hierarchy.
// PathFromRoot carries one opaque step identifier per hierarchy level and is
// what makes keys of identically-labeled nodes distinct. Instance-backed
// nodes also carry the keys of the element instances they represent.
type NodeKey struct {
	Type         string             `cbor:"type"`
	PathFromRoot []string           `cbor:"pathFromRoot"`
	InstanceKeys []keys.InstanceKey `cbor:"instanceKeys,omitempty"`
}

// Equal compares node keys by type and path
func (k NodeKey) Equal(other NodeKey) bool {
	if k.Type != other.Type {
		return false
	}
	if len(k.PathFromRoot) != len(other.PathFromRoot) {
		return false
	}
	for i := range k.PathFromRoot {
		if k.PathFromRoot[i] != other.PathFromRoot[i] {
			return false
		}
	}
	return true
}

// Node is a single hierarchy level entry
type Node struct {
	Key          NodeKey           `cbor:"key"`
	Label        labels.Definition `cbor:"label"`
	Description  string            `cbor:"description,omitempty"`
	HasChildren  bool              `cbor:"hasChildren,omitempty"`
	ExtendedData map[string]any    `cbor:"extendedData,omitempty"`
}

// NodePathElement is one step in a path through a hierarchy, used by the
// node path operations to return branches leading to matched nodes
type NodePathElement struct {
	Node      Node              `cbor:"node"`
	Index     int               `cbor:"index"`
	IsMarked  bool              `cbor:"isMarked,omitempty"`
	Children  []NodePathElement `cbor:"children,omitempty"`
	Filtering *FilteringData    `cbor:"filtering,omitempty"`
}

// FilteringData carries filter match counts for a path element
type FilteringData struct {
	MatchesCount      int64 `cbor:"matchesCount"`
	ChildMatchesCount int64 `cbor:"childMatchesCount"`
}
