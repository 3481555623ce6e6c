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

// Package mockrpc provides a scripted mock of the rpc.Handler interface for
// tests. The mock is driven by a conversation: an ordered list of expected
// calls with canned responses. Any deviation from the script panics, which
// makes test failures loud and their cause obvious.
package mockrpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/state"
)

// Handler mocks an rpc.Handler with a scripted conversation
type Handler struct {
	mutex        sync.Mutex
	conversation []ConversationEntry
	position     int
	callCount    int
	registered   []state.Holder
	closed       bool
}

// NewHandler returns a new Handler with the provided conversation entries
func NewHandler(conversation []ConversationEntry) *Handler {
	return &Handler{
		conversation: conversation,
	}
}

// CallCount returns the number of operation calls the handler received
func (h *Handler) CallCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.callCount
}

// Registered returns the state holders registered with the handler, in
// registration order
func (h *Handler) Registered() []state.Holder {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	ret := make([]state.Holder, len(h.registered))
	copy(ret, h.registered)
	return ret
}

// Remaining returns the number of unconsumed conversation entries. Tests
// use it to assert the full conversation played out
func (h *Handler) Remaining() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.conversation) - h.position
}

// Closed returns true once Close was called
func (h *Handler) Closed() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.closed
}

// next consumes the next conversation entry for an operation call
func (h *Handler) next(op string, req any) (any, error) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		panic(fmt.Sprintf("%s called after handler close", op))
	}
	h.callCount++
	if h.position >= len(h.conversation) {
		panic(fmt.Sprintf("unexpected %s call: conversation exhausted", op))
	}
	entry := h.conversation[h.position]
	h.position++
	if entry.Type != EntryTypeCall {
		panic(fmt.Sprintf(
			"unexpected %s call: expected conversation entry type %d",
			op,
			entry.Type,
		))
	}
	if entry.Op != op {
		panic(fmt.Sprintf(
			"operation did not match expected value: expected %s, got %s",
			entry.Op,
			op,
		))
	}
	if entry.VerifyFunc != nil {
		if err := entry.VerifyFunc(req); err != nil {
			panic(fmt.Sprintf("%s request verification failed: %s", op, err))
		}
	}
	if entry.Err != nil {
		return nil, entry.Err
	}
	return entry.Result, nil
}

func (h *Handler) GetNodes(
	_ context.Context,
	req *rpc.GetNodesRequest,
) (*rpc.GetNodesResult, error) {
	result, err := h.next(rpc.OpGetNodes, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetNodesResult), nil
}

func (h *Handler) GetNodesCount(
	_ context.Context,
	req *rpc.GetNodesCountRequest,
) (*rpc.GetNodesCountResult, error) {
	result, err := h.next(rpc.OpGetNodesCount, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetNodesCountResult), nil
}

func (h *Handler) GetNodesAndCount(
	_ context.Context,
	req *rpc.GetNodesAndCountRequest,
) (*rpc.GetNodesAndCountResult, error) {
	result, err := h.next(rpc.OpGetNodesAndCount, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetNodesAndCountResult), nil
}

func (h *Handler) GetNodePaths(
	_ context.Context,
	req *rpc.GetNodePathsRequest,
) (*rpc.GetNodePathsResult, error) {
	result, err := h.next(rpc.OpGetNodePaths, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetNodePathsResult), nil
}

func (h *Handler) GetFilteredNodePaths(
	_ context.Context,
	req *rpc.GetFilteredNodePathsRequest,
) (*rpc.GetFilteredNodePathsResult, error) {
	result, err := h.next(rpc.OpGetFilteredNodePaths, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetFilteredNodePathsResult), nil
}

func (h *Handler) GetContentDescriptor(
	_ context.Context,
	req *rpc.GetContentDescriptorRequest,
) (*rpc.GetContentDescriptorResult, error) {
	result, err := h.next(rpc.OpGetContentDescriptor, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetContentDescriptorResult), nil
}

func (h *Handler) GetContentSetSize(
	_ context.Context,
	req *rpc.GetContentSetSizeRequest,
) (*rpc.GetContentSetSizeResult, error) {
	result, err := h.next(rpc.OpGetContentSetSize, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetContentSetSizeResult), nil
}

func (h *Handler) GetContent(
	_ context.Context,
	req *rpc.GetContentRequest,
) (*rpc.GetContentResult, error) {
	result, err := h.next(rpc.OpGetContent, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetContentResult), nil
}

func (h *Handler) GetContentAndSize(
	_ context.Context,
	req *rpc.GetContentAndSizeRequest,
) (*rpc.GetContentAndSizeResult, error) {
	result, err := h.next(rpc.OpGetContentAndSize, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetContentAndSizeResult), nil
}

func (h *Handler) GetDistinctValues(
	_ context.Context,
	req *rpc.GetDistinctValuesRequest,
) (*rpc.GetDistinctValuesResult, error) {
	result, err := h.next(rpc.OpGetDistinctValues, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetDistinctValuesResult), nil
}

func (h *Handler) GetDisplayLabel(
	_ context.Context,
	req *rpc.GetDisplayLabelRequest,
) (*rpc.GetDisplayLabelResult, error) {
	result, err := h.next(rpc.OpGetDisplayLabel, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetDisplayLabelResult), nil
}

func (h *Handler) GetDisplayLabels(
	_ context.Context,
	req *rpc.GetDisplayLabelsRequest,
) (*rpc.GetDisplayLabelsResult, error) {
	result, err := h.next(rpc.OpGetDisplayLabels, req)
	if err != nil {
		return nil, err
	}
	return result.(*rpc.GetDisplayLabelsResult), nil
}

// RegisterStateHolder records the holder for later inspection
func (h *Handler) RegisterStateHolder(holder state.Holder) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.registered = append(h.registered, holder)
}

// Close marks the handler closed, consuming an EntryTypeClose entry when one
// is next in the conversation. Closing twice panics
func (h *Handler) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		panic("handler closed twice")
	}
	h.closed = true
	if h.position < len(h.conversation) &&
		h.conversation[h.position].Type == EntryTypeClose {
		entry := h.conversation[h.position]
		h.position++
		return entry.Err
	}
	return nil
}
