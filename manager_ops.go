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
	"context"
	"fmt"

	"github.com/treelinedb/gotreeline/content"
	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
	"github.com/treelinedb/gotreeline/rpc"
)

func (m *Manager) contentOverrides(
	source content.OverridesSource,
) (content.Overrides, error) {
	if source == nil {
		return content.Overrides{}, fmt.Errorf(
			"%w: no descriptor or overrides provided",
			ErrInvalidOptions,
		)
	}
	return source.DescriptorOverrides(), nil
}

func normalizeKeySet(keySet *keys.KeySet) *keys.KeySet {
	if keySet == nil {
		return keys.NewKeySet()
	}
	return keySet
}

// GetNodes returns a page of nodes under the parent key in the options. A
// nil parent key addresses the hierarchy roots
func (m *Manager) GetNodes(
	ctx context.Context,
	opts HierarchyOptions,
) ([]hierarchy.Node, error) {
	m.logger.Debug("calling GetNodes()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetNodes(ctx, &rpc.GetNodesRequest{
		RequestBase: base,
		ParentKey:   opts.ParentKey,
		Paging:      opts.Paging,
	})
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetNodes, err)
	}
	return result.Nodes, nil
}

// GetNodesCount returns the total number of nodes under the parent key in
// the options, regardless of paging
func (m *Manager) GetNodesCount(
	ctx context.Context,
	opts HierarchyOptions,
) (int64, error) {
	m.logger.Debug("calling GetNodesCount()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return 0, err
	}
	result, err := m.handler.GetNodesCount(ctx, &rpc.GetNodesCountRequest{
		RequestBase: base,
		ParentKey:   opts.ParentKey,
	})
	if err != nil {
		return 0, m.remoteErr(rpc.OpGetNodesCount, err)
	}
	return result.Count, nil
}

// GetNodesAndCount returns a page of nodes together with the total node
// count in a single round trip
func (m *Manager) GetNodesAndCount(
	ctx context.Context,
	opts HierarchyOptions,
) ([]hierarchy.Node, int64, error) {
	m.logger.Debug("calling GetNodesAndCount()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return nil, 0, err
	}
	result, err := m.handler.GetNodesAndCount(
		ctx,
		&rpc.GetNodesAndCountRequest{
			RequestBase: base,
			ParentKey:   opts.ParentKey,
			Paging:      opts.Paging,
		},
	)
	if err != nil {
		return nil, 0, m.remoteErr(rpc.OpGetNodesAndCount, err)
	}
	return result.Nodes, result.Count, nil
}

// GetNodePaths returns the hierarchy branches leading to the given instance
// key paths. markedIndex selects the path whose branch is marked in the
// result; pass a negative value to mark none
func (m *Manager) GetNodePaths(
	ctx context.Context,
	opts RequestOptions,
	paths [][]keys.InstanceKey,
	markedIndex int,
) ([]hierarchy.NodePathElement, error) {
	m.logger.Debug("calling GetNodePaths()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetNodePaths(ctx, &rpc.GetNodePathsRequest{
		RequestBase: base,
		Paths:       paths,
		MarkedIndex: markedIndex,
	})
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetNodePaths, err)
	}
	return result.Paths, nil
}

// GetFilteredNodePaths returns the hierarchy branches leading to nodes whose
// label matches the filter text
func (m *Manager) GetFilteredNodePaths(
	ctx context.Context,
	opts RequestOptions,
	filterText string,
) ([]hierarchy.NodePathElement, error) {
	m.logger.Debug("calling GetFilteredNodePaths()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetFilteredNodePaths(
		ctx,
		&rpc.GetFilteredNodePathsRequest{
			RequestBase: base,
			FilterText:  filterText,
		},
	)
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetFilteredNodePaths, err)
	}
	return result.Paths, nil
}

// GetContentDescriptor returns the descriptor for content of the given
// display type built from the given input keys. Returns nil without error
// when there is no content for the inputs
func (m *Manager) GetContentDescriptor(
	ctx context.Context,
	opts RequestOptions,
	displayType string,
	keySet *keys.KeySet,
	selection *content.SelectionInfo,
) (*content.Descriptor, error) {
	m.logger.Debug("calling GetContentDescriptor()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetContentDescriptor(
		ctx,
		&rpc.GetContentDescriptorRequest{
			RequestBase: base,
			DisplayType: displayType,
			Keys:        normalizeKeySet(keySet),
			Selection:   selection,
		},
	)
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetContentDescriptor, err)
	}
	return result.Descriptor, nil
}

// GetContentSetSize returns the total number of content records for the
// given descriptor and input keys, regardless of paging
func (m *Manager) GetContentSetSize(
	ctx context.Context,
	opts ContentOptions,
	source content.OverridesSource,
	keySet *keys.KeySet,
) (int64, error) {
	m.logger.Debug("calling GetContentSetSize()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return 0, err
	}
	overrides, err := m.contentOverrides(source)
	if err != nil {
		return 0, err
	}
	result, err := m.handler.GetContentSetSize(
		ctx,
		&rpc.GetContentSetSizeRequest{
			RequestBase: base,
			Overrides:   overrides,
			Keys:        normalizeKeySet(keySet),
		},
	)
	if err != nil {
		return 0, m.remoteErr(rpc.OpGetContentSetSize, err)
	}
	return result.Size, nil
}

// GetContent returns a page of content records for the given descriptor and
// input keys. Returns nil without error when there is no content for the
// inputs
func (m *Manager) GetContent(
	ctx context.Context,
	opts ContentOptions,
	source content.OverridesSource,
	keySet *keys.KeySet,
) (*content.Content, error) {
	m.logger.Debug("calling GetContent()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return nil, err
	}
	overrides, err := m.contentOverrides(source)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetContent(ctx, &rpc.GetContentRequest{
		RequestBase: base,
		Overrides:   overrides,
		Keys:        normalizeKeySet(keySet),
		Paging:      opts.Paging,
	})
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetContent, err)
	}
	return result.Content, nil
}

// GetContentAndSize returns a page of content records together with the
// total record count in a single round trip
func (m *Manager) GetContentAndSize(
	ctx context.Context,
	opts ContentOptions,
	source content.OverridesSource,
	keySet *keys.KeySet,
) (*content.Content, int64, error) {
	m.logger.Debug("calling GetContentAndSize()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return nil, 0, err
	}
	overrides, err := m.contentOverrides(source)
	if err != nil {
		return nil, 0, err
	}
	result, err := m.handler.GetContentAndSize(
		ctx,
		&rpc.GetContentAndSizeRequest{
			RequestBase: base,
			Overrides:   overrides,
			Keys:        normalizeKeySet(keySet),
			Paging:      opts.Paging,
		},
	)
	if err != nil {
		return nil, 0, m.remoteErr(rpc.OpGetContentAndSize, err)
	}
	return result.Content, result.Size, nil
}

// GetDistinctValues returns the distinct display values of a content field,
// at most maximumValueCount of them (0 means no limit)
func (m *Manager) GetDistinctValues(
	ctx context.Context,
	opts ContentOptions,
	source content.OverridesSource,
	keySet *keys.KeySet,
	fieldName string,
	maximumValueCount int,
) ([]string, error) {
	m.logger.Debug("calling GetDistinctValues()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts.RequestOptions)
	if err != nil {
		return nil, err
	}
	overrides, err := m.contentOverrides(source)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetDistinctValues(
		ctx,
		&rpc.GetDistinctValuesRequest{
			RequestBase:       base,
			Overrides:         overrides,
			Keys:              normalizeKeySet(keySet),
			FieldName:         fieldName,
			MaximumValueCount: maximumValueCount,
		},
	)
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetDistinctValues, err)
	}
	return result.Values, nil
}

// GetDisplayLabel returns the display label of a single element
func (m *Manager) GetDisplayLabel(
	ctx context.Context,
	opts RequestOptions,
	key keys.InstanceKey,
) (labels.Definition, error) {
	m.logger.Debug("calling GetDisplayLabel()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts)
	if err != nil {
		return labels.Definition{}, err
	}
	result, err := m.handler.GetDisplayLabel(ctx, &rpc.GetDisplayLabelRequest{
		RequestBase: base,
		Key:         key,
	})
	if err != nil {
		return labels.Definition{}, m.remoteErr(rpc.OpGetDisplayLabel, err)
	}
	return result.Label, nil
}

// GetDisplayLabels returns the display labels of multiple elements, in the
// same order as the given keys
func (m *Manager) GetDisplayLabels(
	ctx context.Context,
	opts RequestOptions,
	instanceKeys []keys.InstanceKey,
) ([]labels.Definition, error) {
	m.logger.Debug("calling GetDisplayLabels()",
		"component", "treeline",
		"role", "client",
		"client_id", m.clientID,
		"ruleset_id", opts.RulesetID,
	)
	base, err := m.prepareRequest(opts)
	if err != nil {
		return nil, err
	}
	result, err := m.handler.GetDisplayLabels(
		ctx,
		&rpc.GetDisplayLabelsRequest{
			RequestBase: base,
			Keys:        instanceKeys,
		},
	)
	if err != nil {
		return nil, m.remoteErr(rpc.OpGetDisplayLabels, err)
	}
	return result.Labels, nil
}
