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

package treeline_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	treeline "github.com/treelinedb/gotreeline"
	"github.com/treelinedb/gotreeline/content"
	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/internal/test/mockrpc"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
	"github.com/treelinedb/gotreeline/rpc"
)

var (
	keysWidget1 = keys.InstanceKey{Class: "Widget", ID: "0x1"}
	keysWidget2 = keys.InstanceKey{Class: "Widget", ID: "0x2"}
)

func hierarchyOpts() treeline.HierarchyOptions {
	return treeline.HierarchyOptions{
		RequestOptions: treeline.RequestOptions{Dataset: testDataset()},
	}
}

func contentOpts() treeline.ContentOptions {
	return treeline.ContentOptions{
		RequestOptions: treeline.RequestOptions{Dataset: testDataset()},
	}
}

func TestGetNodes(t *testing.T) {
	parentKey := &hierarchy.NodeKey{
		Type:         hierarchy.NodeClassGrouping,
		PathFromRoot: []string{"root"},
	}
	expectedNodes := []hierarchy.Node{
		{
			Key: hierarchy.NodeKey{
				Type:         hierarchy.NodeInstances,
				PathFromRoot: []string{"root", "child-1"},
				InstanceKeys: []keys.InstanceKey{keysWidget1},
			},
			Label:       labels.FromString("Child 1"),
			HasChildren: true,
		},
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetNodes,
			VerifyFunc: func(req any) error {
				nodesReq := req.(*rpc.GetNodesRequest)
				if nodesReq.ParentKey == nil ||
					!nodesReq.ParentKey.Equal(*parentKey) {
					return fmt.Errorf(
						"unexpected parent key: %+v",
						nodesReq.ParentKey,
					)
				}
				if nodesReq.Paging == nil || nodesReq.Paging.Size != 20 {
					return fmt.Errorf("unexpected paging: %+v", nodesReq.Paging)
				}
				return nil
			},
			Result: &rpc.GetNodesResult{Nodes: expectedNodes},
		},
	})
	m := newTestManager(t, mock)
	opts := hierarchyOpts()
	opts.ParentKey = parentKey
	opts.Paging = &rpc.PageSpec{Start: 0, Size: 20}
	nodes, err := m.GetNodes(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, expectedNodes, nodes)
}

func TestGetNodesAndCount(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetNodesAndCount,
			Result: &rpc.GetNodesAndCountResult{
				Nodes: []hierarchy.Node{
					{Label: labels.FromString("A")},
					{Label: labels.FromString("B")},
				},
				Count: 42,
			},
		},
	})
	m := newTestManager(t, mock)
	nodes, count, err := m.GetNodesAndCount(context.Background(), hierarchyOpts())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, int64(42), count)
}

func TestGetNodePaths(t *testing.T) {
	paths := [][]keys.InstanceKey{
		{keysWidget1},
		{keysWidget1, keysWidget2},
	}
	expected := []hierarchy.NodePathElement{
		{
			Node:     hierarchy.Node{Label: labels.FromString("Widget 1")},
			IsMarked: true,
			Children: []hierarchy.NodePathElement{
				{Node: hierarchy.Node{Label: labels.FromString("Widget 2")}},
			},
		},
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetNodePaths,
			VerifyFunc: func(req any) error {
				pathsReq := req.(*rpc.GetNodePathsRequest)
				if len(pathsReq.Paths) != 2 {
					return fmt.Errorf("unexpected paths: %+v", pathsReq.Paths)
				}
				if pathsReq.MarkedIndex != 1 {
					return fmt.Errorf(
						"unexpected marked index: %d",
						pathsReq.MarkedIndex,
					)
				}
				return nil
			},
			Result: &rpc.GetNodePathsResult{Paths: expected},
		},
	})
	m := newTestManager(t, mock)
	result, err := m.GetNodePaths(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		paths,
		1,
	)
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestGetFilteredNodePaths(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetFilteredNodePaths,
			VerifyFunc: func(req any) error {
				filterReq := req.(*rpc.GetFilteredNodePathsRequest)
				if filterReq.FilterText != "wid" {
					return fmt.Errorf(
						"unexpected filter text: %s",
						filterReq.FilterText,
					)
				}
				return nil
			},
			Result: &rpc.GetFilteredNodePathsResult{
				Paths: []hierarchy.NodePathElement{
					{
						Node: hierarchy.Node{Label: labels.FromString("Widget")},
						Filtering: &hierarchy.FilteringData{
							MatchesCount:      1,
							ChildMatchesCount: 3,
						},
					},
				},
			},
		},
	})
	m := newTestManager(t, mock)
	result, err := m.GetFilteredNodePaths(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		"wid",
	)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Filtering)
	assert.Equal(t, int64(3), result[0].Filtering.ChildMatchesCount)
}

func TestGetContentDescriptor(t *testing.T) {
	keySet := keys.NewKeySet(keysWidget1, keysWidget2)
	expected := &content.Descriptor{
		DisplayType: "Grid",
		Fields: []content.Field{
			{Name: "label", Label: "Label", Type: "string"},
		},
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetContentDescriptor,
			VerifyFunc: func(req any) error {
				descrReq := req.(*rpc.GetContentDescriptorRequest)
				if descrReq.DisplayType != "Grid" {
					return fmt.Errorf(
						"unexpected display type: %s",
						descrReq.DisplayType,
					)
				}
				if descrReq.Keys == nil || descrReq.Keys.Size() != 2 {
					return fmt.Errorf("unexpected key set: %+v", descrReq.Keys)
				}
				return nil
			},
			Result: &rpc.GetContentDescriptorResult{Descriptor: expected},
		},
	})
	m := newTestManager(t, mock)
	descriptor, err := m.GetContentDescriptor(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		"Grid",
		keySet,
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, expected, descriptor)
}

func TestGetContentDescriptorNoContent(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type:   mockrpc.EntryTypeCall,
			Op:     rpc.OpGetContentDescriptor,
			Result: &rpc.GetContentDescriptorResult{},
		},
	})
	m := newTestManager(t, mock)
	descriptor, err := m.GetContentDescriptor(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		"Grid",
		nil,
		nil,
	)
	require.NoError(t, err)
	assert.Nil(t, descriptor)
}

// A full descriptor passed as the overrides source is reduced to its
// override fields before it goes on the wire
func TestGetContentStripsDescriptor(t *testing.T) {
	descriptor := &content.Descriptor{
		DisplayType:      "Grid",
		ContentFlags:     content.FlagShowLabels,
		SortingFieldName: "label",
		Fields: []content.Field{
			{Name: "label", Label: "Label", Type: "string"},
		},
		SelectionInfo: &content.SelectionInfo{Level: 1},
	}
	expectedContent := &content.Content{
		Descriptor: *descriptor,
		Items: []content.Item{
			{
				Label:  labels.FromString("Widget 1"),
				Values: map[string]any{"label": "Widget 1"},
			},
		},
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetContent,
			VerifyFunc: func(req any) error {
				contentReq := req.(*rpc.GetContentRequest)
				overrides := contentReq.Overrides
				if overrides.DisplayType != "Grid" ||
					overrides.ContentFlags != content.FlagShowLabels ||
					overrides.SortingFieldName != "label" {
					return fmt.Errorf("unexpected overrides: %+v", overrides)
				}
				return nil
			},
			Result: &rpc.GetContentResult{Content: expectedContent},
		},
	})
	m := newTestManager(t, mock)
	result, err := m.GetContent(
		context.Background(),
		contentOpts(),
		descriptor,
		keys.NewKeySet(keysWidget1),
	)
	require.NoError(t, err)
	assert.Equal(t, expectedContent, result)
}

func TestGetContentSetSize(t *testing.T) {
	overrides := content.Overrides{
		DisplayType:  "List",
		ContentFlags: content.FlagKeysOnly,
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetContentSetSize,
			VerifyFunc: func(req any) error {
				sizeReq := req.(*rpc.GetContentSetSizeRequest)
				if !reflect.DeepEqual(sizeReq.Overrides, overrides) {
					return fmt.Errorf(
						"unexpected overrides: %+v",
						sizeReq.Overrides,
					)
				}
				return nil
			},
			Result: &rpc.GetContentSetSizeResult{Size: 117},
		},
	})
	m := newTestManager(t, mock)
	size, err := m.GetContentSetSize(
		context.Background(),
		contentOpts(),
		overrides,
		keys.NewKeySet(keysWidget1),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(117), size)
}

func TestGetContentAndSize(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetContentAndSize,
			Result: &rpc.GetContentAndSizeResult{
				Content: &content.Content{
					Items: []content.Item{{}, {}},
				},
				Size: 2,
			},
		},
	})
	m := newTestManager(t, mock)
	result, size, err := m.GetContentAndSize(
		context.Background(),
		contentOpts(),
		content.Overrides{DisplayType: "Grid"},
		nil,
	)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), size)
}

func TestGetDistinctValues(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetDistinctValues,
			VerifyFunc: func(req any) error {
				valuesReq := req.(*rpc.GetDistinctValuesRequest)
				if valuesReq.FieldName != "color" {
					return fmt.Errorf(
						"unexpected field name: %s",
						valuesReq.FieldName,
					)
				}
				if valuesReq.MaximumValueCount != 100 {
					return fmt.Errorf(
						"unexpected maximum value count: %d",
						valuesReq.MaximumValueCount,
					)
				}
				return nil
			},
			Result: &rpc.GetDistinctValuesResult{
				Values: []string{"blue", "green", "red"},
			},
		},
	})
	m := newTestManager(t, mock)
	values, err := m.GetDistinctValues(
		context.Background(),
		contentOpts(),
		content.Overrides{DisplayType: "Grid"},
		nil,
		"color",
		100,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue", "green", "red"}, values)
}

func TestGetDisplayLabel(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetDisplayLabel,
			VerifyFunc: func(req any) error {
				labelReq := req.(*rpc.GetDisplayLabelRequest)
				if labelReq.Key != keysWidget1 {
					return fmt.Errorf("unexpected key: %+v", labelReq.Key)
				}
				return nil
			},
			Result: &rpc.GetDisplayLabelResult{
				Label: labels.FromString("Widget 1"),
			},
		},
	})
	m := newTestManager(t, mock)
	label, err := m.GetDisplayLabel(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		keysWidget1,
	)
	require.NoError(t, err)
	assert.Equal(t, "Widget 1", label.DisplayValue)
}

func TestGetDisplayLabelsOrdered(t *testing.T) {
	expected := []labels.Definition{
		labels.FromString("Widget 1"),
		labels.FromString("Widget 2"),
	}
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetDisplayLabels,
			VerifyFunc: func(req any) error {
				labelsReq := req.(*rpc.GetDisplayLabelsRequest)
				if len(labelsReq.Keys) != 2 ||
					labelsReq.Keys[0] != keysWidget1 ||
					labelsReq.Keys[1] != keysWidget2 {
					return fmt.Errorf("unexpected keys: %+v", labelsReq.Keys)
				}
				return nil
			},
			Result: &rpc.GetDisplayLabelsResult{Labels: expected},
		},
	})
	m := newTestManager(t, mock)
	result, err := m.GetDisplayLabels(
		context.Background(),
		treeline.RequestOptions{Dataset: testDataset()},
		[]keys.InstanceKey{keysWidget1, keysWidget2},
	)
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestSequentialOperations(t *testing.T) {
	mock := mockrpc.NewHandler([]mockrpc.ConversationEntry{
		{
			Type:   mockrpc.EntryTypeCall,
			Op:     rpc.OpGetNodesCount,
			Result: &rpc.GetNodesCountResult{Count: 3},
		},
		{
			Type: mockrpc.EntryTypeCall,
			Op:   rpc.OpGetNodes,
			Result: &rpc.GetNodesResult{
				Nodes: []hierarchy.Node{{}, {}, {}},
			},
		},
		{
			Type: mockrpc.EntryTypeClose,
		},
	})
	m := newTestManager(t, mock)
	ctx := context.Background()
	count, err := m.GetNodesCount(ctx, hierarchyOpts())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	nodes, err := m.GetNodes(ctx, hierarchyOpts())
	require.NoError(t, err)
	assert.Len(t, nodes, int(count))
	require.NoError(t, m.Close())
	assert.Equal(t, 0, mock.Remaining())
}
