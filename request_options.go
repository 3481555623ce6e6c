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

package treeline

import (
	"fmt"

	"github.com/jinzhu/copier"
	"golang.org/x/text/language"

	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/rpc"
)

// RequestOptions are the caller-supplied options common to all operations.
// Dataset is required. Unset fields are filled from the manager's defaults
// during normalization.
//
// DatasetKey never reaches the backend as provided: normalization replaces
// it with a key freshly resolved from Dataset, so options reused from an
// earlier request or restored from storage cannot carry a stale key.
type RequestOptions struct {
	Dataset    Dataset
	Locale     string
	RulesetID  string
	DatasetKey rpc.DatasetKey
}

// HierarchyOptions are the options for hierarchy operations. A nil
// ParentKey addresses the hierarchy roots; nil Paging requests the full
// result set
type HierarchyOptions struct {
	RequestOptions
	ParentKey *hierarchy.NodeKey
	Paging    *rpc.PageSpec
}

// ContentOptions are the options for content operations
type ContentOptions struct {
	RequestOptions
	Paging *rpc.PageSpec
}

// normalize builds the wire options for a request: manager defaults first,
// then the caller's set fields, then the dataset key resolved from the
// caller's Dataset. The key resolution comes last so nothing the caller put
// in the options survives it. The input is never modified.
func (m *Manager) normalize(raw RequestOptions) (rpc.RequestOptions, error) {
	if raw.Dataset == nil {
		return rpc.RequestOptions{}, fmt.Errorf(
			"%w: no dataset provided",
			ErrInvalidOptions,
		)
	}
	normalized := rpc.RequestOptions{
		Locale:   m.locale,
		ClientID: m.clientID,
	}
	caller := rpc.RequestOptions{
		Dataset:   raw.DatasetKey,
		Locale:    raw.Locale,
		RulesetID: raw.RulesetID,
	}
	if err := copier.CopyWithOption(
		&normalized,
		&caller,
		copier.Option{IgnoreEmpty: true},
	); err != nil {
		return rpc.RequestOptions{}, fmt.Errorf("merge options: %w", err)
	}
	if normalized.Locale != "" {
		tag, err := language.Parse(normalized.Locale)
		if err != nil {
			return rpc.RequestOptions{}, fmt.Errorf(
				"%w: invalid locale %q: %s",
				ErrInvalidOptions,
				normalized.Locale,
				err,
			)
		}
		normalized.Locale = tag.String()
	}
	datasetKey, err := raw.Dataset.Key()
	if err != nil {
		return rpc.RequestOptions{}, fmt.Errorf(
			"%w: resolve dataset key: %s",
			ErrInvalidOptions,
			err,
		)
	}
	if !datasetKey.IsValid() {
		return rpc.RequestOptions{}, fmt.Errorf(
			"%w: dataset resolved to an empty key",
			ErrInvalidOptions,
		)
	}
	normalized.Dataset = datasetKey
	return normalized, nil
}
