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

// Package content provides descriptor and record types for ruleset-driven
// content operations.
//
// A Descriptor describes the shape of a content set: its fields, sorting,
// filtering and flags. Descriptors are computed by the backend and can be
// large. When requesting content, only the caller's adjustments matter, so
// requests carry a sparse Overrides value instead of a full descriptor.
// Both types implement OverridesSource; taking overrides of overrides is the
// identity.
package content

import (
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
)

// Content flags adjusting how the backend builds a content set
const (
	FlagKeysOnly int64 = 1 << iota
	FlagShowLabels
	FlagMergeResults
	FlagDistinctValues
	FlagNoFields
)

// SortDirection selects content set ordering
type SortDirection int

const (
	SortAscending  SortDirection = 0
	SortDescending SortDirection = 1
)

// SelectionInfo describes the selection event that content is requested for
type SelectionInfo struct {
	ProviderName string `cbor:"providerName"`
	Level        int    `cbor:"level,omitempty"`
}

// Field describes a single content field
type Field struct {
	Name       string `cbor:"name"`
	Label      string `cbor:"label"`
	Type       string `cbor:"type"`
	IsReadOnly bool   `cbor:"isReadOnly,omitempty"`
	Priority   int    `cbor:"priority,omitempty"`
}

// Descriptor describes the shape of a content set as computed by the backend
type Descriptor struct {
	DisplayType      string         `cbor:"displayType"`
	ContentFlags     int64          `cbor:"contentFlags,omitempty"`
	Fields           []Field        `cbor:"fields,omitempty"`
	SortingFieldName string         `cbor:"sortingFieldName,omitempty"`
	SortDirection    SortDirection  `cbor:"sortDirection,omitempty"`
	FilterExpression string         `cbor:"filterExpression,omitempty"`
	SelectionInfo    *SelectionInfo `cbor:"selectionInfo,omitempty"`
}

// Overrides is the sparse form of a descriptor sent with content requests.
// It carries only caller adjustments; everything else is recomputed by the
// backend from the ruleset and input keys
type Overrides struct {
	DisplayType      string        `cbor:"displayType"`
	ContentFlags     int64         `cbor:"contentFlags,omitempty"`
	FilterExpression string        `cbor:"filterExpression,omitempty"`
	SortingFieldName string        `cbor:"sortingFieldName,omitempty"`
	SortDirection    SortDirection `cbor:"sortDirection,omitempty"`
	HiddenFieldNames []string      `cbor:"hiddenFieldNames,omitempty"`
}

// OverridesSource is anything that can reduce itself to descriptor
// overrides. Implemented by both Descriptor and Overrides, so operations
// accept either without callers manually stripping descriptors
type OverridesSource interface {
	DescriptorOverrides() Overrides
}

// DescriptorOverrides strips the descriptor down to the sparse override
// form, dropping the backend-computed parts
func (d *Descriptor) DescriptorOverrides() Overrides {
	return Overrides{
		DisplayType:      d.DisplayType,
		ContentFlags:     d.ContentFlags,
		FilterExpression: d.FilterExpression,
		SortingFieldName: d.SortingFieldName,
		SortDirection:    d.SortDirection,
	}
}

// DescriptorOverrides returns the overrides unchanged
func (o Overrides) DescriptorOverrides() Overrides {
	return o
}

// Item is a single content record
type Item struct {
	PrimaryKeys      []keys.InstanceKey `cbor:"primaryKeys"`
	Label            labels.Definition  `cbor:"label"`
	Values           map[string]any     `cbor:"values,omitempty"`
	DisplayValues    map[string]string  `cbor:"displayValues,omitempty"`
	MergedFieldNames []string           `cbor:"mergedFieldNames,omitempty"`
}

// Content is a content set: the descriptor that shaped it plus its records
type Content struct {
	Descriptor Descriptor `cbor:"descriptor"`
	Items      []Item     `cbor:"items"`
}
