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

// Package rpc defines the transport boundary between the Treeline client
// manager and a backend: the per-operation handler interface and the request
// and result types exchanged with it.
//
// Requests are self-contained. Each one carries the normalized options and a
// snapshot of the owning manager's client state, so a stateless backend can
// serve it without any session context. Concrete transports live in the
// streamrpc and grpcrpc subpackages; tests use the scripted handler from
// internal/test/mockrpc.
package rpc

import (
	"context"

	"github.com/treelinedb/gotreeline/state"
)

// DatasetKey identifies the remote dataset a request targets. It is resolved
// from the caller's dataset connection immediately before each request
type DatasetKey struct {
	ID       string `cbor:"id"`
	Revision string `cbor:"revision,omitempty"`
}

// IsValid returns true when the key identifies a dataset
func (k DatasetKey) IsValid() bool {
	return k.ID != ""
}

// RequestOptions is the normalized option set attached to every request
type RequestOptions struct {
	Dataset   DatasetKey `cbor:"dataset"`
	Locale    string     `cbor:"locale,omitempty"`
	RulesetID string     `cbor:"rulesetId,omitempty"`
	ClientID  string     `cbor:"clientId,omitempty"`
}

// PageSpec selects a page of a larger result set
type PageSpec struct {
	Start int64 `cbor:"start"`
	Size  int64 `cbor:"size"`
}

// RequestBase carries the fields common to all requests
type RequestBase struct {
	Options RequestOptions `cbor:"options"`
	State   []state.Entry  `cbor:"state,omitempty"`
}

// Handler is the transport boundary consumed by the manager. One method per
// remote operation; each call blocks until the backend responds or ctx is
// done. Implementations must be safe for concurrent use.
//
// RegisterStateHolder informs the transport of a holder whose state will
// appear in subsequent request snapshots; transports that push state
// eagerly can use it, others may ignore it. Close releases the underlying
// connection; in-flight calls fail.
type Handler interface {
	GetNodes(ctx context.Context, req *GetNodesRequest) (*GetNodesResult, error)
	GetNodesCount(ctx context.Context, req *GetNodesCountRequest) (*GetNodesCountResult, error)
	GetNodesAndCount(ctx context.Context, req *GetNodesAndCountRequest) (*GetNodesAndCountResult, error)
	GetNodePaths(ctx context.Context, req *GetNodePathsRequest) (*GetNodePathsResult, error)
	GetFilteredNodePaths(ctx context.Context, req *GetFilteredNodePathsRequest) (*GetFilteredNodePathsResult, error)
	GetContentDescriptor(ctx context.Context, req *GetContentDescriptorRequest) (*GetContentDescriptorResult, error)
	GetContentSetSize(ctx context.Context, req *GetContentSetSizeRequest) (*GetContentSetSizeResult, error)
	GetContent(ctx context.Context, req *GetContentRequest) (*GetContentResult, error)
	GetContentAndSize(ctx context.Context, req *GetContentAndSizeRequest) (*GetContentAndSizeResult, error)
	GetDistinctValues(ctx context.Context, req *GetDistinctValuesRequest) (*GetDistinctValuesResult, error)
	GetDisplayLabel(ctx context.Context, req *GetDisplayLabelRequest) (*GetDisplayLabelResult, error)
	GetDisplayLabels(ctx context.Context, req *GetDisplayLabelsRequest) (*GetDisplayLabelsResult, error)
	RegisterStateHolder(holder state.Holder)
	Close() error
}
