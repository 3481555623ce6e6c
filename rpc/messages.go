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

package rpc

import (
	"github.com/treelinedb/gotreeline/content"
	"github.com/treelinedb/gotreeline/hierarchy"
	"github.com/treelinedb/gotreeline/keys"
	"github.com/treelinedb/gotreeline/labels"
)

// Operation names, used in logs and errors
const (
	OpGetNodes             = "GetNodes"
	OpGetNodesCount        = "GetNodesCount"
	OpGetNodesAndCount     = "GetNodesAndCount"
	OpGetNodePaths         = "GetNodePaths"
	OpGetFilteredNodePaths = "GetFilteredNodePaths"
	OpGetContentDescriptor = "GetContentDescriptor"
	OpGetContentSetSize    = "GetContentSetSize"
	OpGetContent           = "GetContent"
	OpGetContentAndSize    = "GetContentAndSize"
	OpGetDistinctValues    = "GetDistinctValues"
	OpGetDisplayLabel      = "GetDisplayLabel"
	OpGetDisplayLabels     = "GetDisplayLabels"
	OpRegisterStateHolder  = "RegisterStateHolder"
)

// RegisterStateHolderRequest announces a state holder key that will appear
// in the state snapshots of subsequent requests
type RegisterStateHolderRequest struct {
	Key string `cbor:"key"`
}

type RegisterStateHolderResult struct{}

// GetNodesRequest requests a page of child nodes. A nil parent key selects
// the hierarchy roots
type GetNodesRequest struct {
	RequestBase
	ParentKey *hierarchy.NodeKey `cbor:"parentKey,omitempty"`
	Paging    *PageSpec          `cbor:"paging,omitempty"`
}

type GetNodesResult struct {
	Nodes []hierarchy.Node `cbor:"nodes"`
}

type GetNodesCountRequest struct {
	RequestBase
	ParentKey *hierarchy.NodeKey `cbor:"parentKey,omitempty"`
}

// GetNodesCountResult carries the total number of matching nodes, not a
// page-local count
type GetNodesCountResult struct {
	Count int64 `cbor:"count"`
}

type GetNodesAndCountRequest struct {
	RequestBase
	ParentKey *hierarchy.NodeKey `cbor:"parentKey,omitempty"`
	Paging    *PageSpec          `cbor:"paging,omitempty"`
}

type GetNodesAndCountResult struct {
	Nodes []hierarchy.Node `cbor:"nodes"`
	Count int64            `cbor:"count"`
}

type GetNodePathsRequest struct {
	RequestBase
	Paths       [][]keys.InstanceKey `cbor:"paths"`
	MarkedIndex int                  `cbor:"markedIndex"`
}

type GetNodePathsResult struct {
	Paths []hierarchy.NodePathElement `cbor:"paths"`
}

type GetFilteredNodePathsRequest struct {
	RequestBase
	FilterText string `cbor:"filterText"`
}

type GetFilteredNodePathsResult struct {
	Paths []hierarchy.NodePathElement `cbor:"paths"`
}

type GetContentDescriptorRequest struct {
	RequestBase
	DisplayType string                 `cbor:"displayType"`
	Keys        *keys.KeySet           `cbor:"keys"`
	Selection   *content.SelectionInfo `cbor:"selection,omitempty"`
}

// GetContentDescriptorResult carries a nil descriptor when there is no
// content for the request inputs
type GetContentDescriptorResult struct {
	Descriptor *content.Descriptor `cbor:"descriptor,omitempty"`
}

type GetContentSetSizeRequest struct {
	RequestBase
	Overrides content.Overrides `cbor:"overrides"`
	Keys      *keys.KeySet      `cbor:"keys"`
}

// GetContentSetSizeResult carries the total number of content records
type GetContentSetSizeResult struct {
	Size int64 `cbor:"size"`
}

type GetContentRequest struct {
	RequestBase
	Overrides content.Overrides `cbor:"overrides"`
	Keys      *keys.KeySet      `cbor:"keys"`
	Paging    *PageSpec         `cbor:"paging,omitempty"`
}

// GetContentResult carries nil content when there is no content for the
// request inputs
type GetContentResult struct {
	Content *content.Content `cbor:"content,omitempty"`
}

type GetContentAndSizeRequest struct {
	RequestBase
	Overrides content.Overrides `cbor:"overrides"`
	Keys      *keys.KeySet      `cbor:"keys"`
	Paging    *PageSpec         `cbor:"paging,omitempty"`
}

type GetContentAndSizeResult struct {
	Content *content.Content `cbor:"content,omitempty"`
	Size    int64            `cbor:"size"`
}

type GetDistinctValuesRequest struct {
	RequestBase
	Overrides         content.Overrides `cbor:"overrides"`
	Keys              *keys.KeySet      `cbor:"keys"`
	FieldName         string            `cbor:"fieldName"`
	MaximumValueCount int               `cbor:"maximumValueCount,omitempty"`
}

type GetDistinctValuesResult struct {
	Values []string `cbor:"values"`
}

type GetDisplayLabelRequest struct {
	RequestBase
	Key keys.InstanceKey `cbor:"key"`
}

type GetDisplayLabelResult struct {
	Label labels.Definition `cbor:"label"`
}

type GetDisplayLabelsRequest struct {
	RequestBase
	Keys []keys.InstanceKey `cbor:"keys"`
}

// GetDisplayLabelsResult labels appear in the same order as the request keys
type GetDisplayLabelsResult struct {
	Labels []labels.Definition `cbor:"labels"`
}
