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

// Package streamrpc implements the rpc.Handler transport over a single
// stream connection carrying length-prefixed CBOR frames.
//
// Every request is one frame; the backend answers with a frame echoing the
// request id, so responses can arrive in any order and calls from multiple
// goroutines share one connection. Backend failures arrive as error frames
// and are returned as *rpc.BackendError values.
package streamrpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/state"
	"github.com/treelinedb/gotreeline/wire"
)

// ErrClientClosed is returned by operations on a closed client, including
// calls that were in flight when the client closed
var ErrClientClosed = errors.New("stream client is closed")

// Client implements rpc.Handler over a stream connection. Create with
// NewClient or Dial
type Client struct {
	conn         net.Conn
	logger       *slog.Logger
	sendMutex    sync.Mutex
	onceClose    sync.Once
	onceShutdown sync.Once
	doneChan     chan struct{}
	errorChan    chan error
	requestID    atomic.Uint32

	pendingMutex sync.Mutex
	pending      map[uint32]chan *Frame
	failErr      error
}

// NewClient creates a Client on an established connection and starts reading
// responses from it. The client takes ownership of the connection
func NewClient(conn net.Conn, options ...ClientOptionFunc) *Client {
	c := &Client{
		conn:      conn,
		doneChan:  make(chan struct{}),
		errorChan: make(chan error, 10),
		pending:   map[uint32]chan *Frame{},
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	go c.readLoop()
	return c
}

// Dial connects to the given address and returns a Client on the new
// connection
func Dial(
	network string,
	address string,
	options ...ClientOptionFunc,
) (*Client, error) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, options...), nil
}

// ErrorChan returns the channel for asynchronous transport errors. It
// receives at most one error and is closed on shutdown
func (c *Client) ErrorChan() <-chan error {
	return c.errorChan
}

// Close shuts the client down and closes the underlying connection.
// In-flight calls fail with ErrClientClosed. Close is idempotent; only the
// first call can return an error
func (c *Client) Close() error {
	var err error
	c.onceClose.Do(func() {
		c.logger.Debug(
			"closing stream client",
			"component", "treeline",
			"role", "client",
		)
		c.shutdown(nil)
		err = c.conn.Close()
	})
	return err
}

// shutdown stops the client, recording err as the reason in-flight and
// future calls fail with. A nil err means a clean close
func (c *Client) shutdown(err error) {
	c.onceShutdown.Do(func() {
		close(c.doneChan)
		if err != nil {
			c.errorChan <- err
		}
		close(c.errorChan)
		c.pendingMutex.Lock()
		c.failErr = err
		if c.failErr == nil {
			c.failErr = ErrClientClosed
		}
		for id, respChan := range c.pending {
			delete(c.pending, id)
			close(respChan)
		}
		c.pendingMutex.Unlock()
	})
}

func (c *Client) readLoop() {
	for {
		// Break out of read loop if we're shutting down
		select {
		case <-c.doneChan:
			return
		default:
		}
		frame, err := ReadFrame(c.conn)
		if err != nil {
			// Read failures during shutdown are expected
			select {
			case <-c.doneChan:
			default:
				c.shutdown(err)
			}
			return
		}
		c.pendingMutex.Lock()
		respChan, ok := c.pending[frame.RequestID]
		delete(c.pending, frame.RequestID)
		c.pendingMutex.Unlock()
		if !ok {
			// Response to an abandoned or unknown request
			c.logger.Debug(
				"dropping frame for unknown request",
				"component", "treeline",
				"request_id", frame.RequestID,
				"op_code", frame.OpCode,
			)
			continue
		}
		respChan <- frame
	}
}

// send writes a single frame. A mutex makes sure concurrent calls don't
// interleave their frames on the wire
func (c *Client) send(frame *Frame) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return WriteFrame(c.conn, frame)
}

// failure returns the error that brought the client down
func (c *Client) failure() error {
	c.pendingMutex.Lock()
	defer c.pendingMutex.Unlock()
	if c.failErr != nil {
		return c.failErr
	}
	return ErrClientClosed
}

// call sends one request frame and blocks until its response arrives, ctx
// is done or the client shuts down
func (c *Client) call(
	ctx context.Context,
	opCode uint16,
	op string,
	req any,
	result any,
) error {
	payload, err := wire.Encode(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", op, err)
	}
	frame := NewFrame(c.requestID.Add(1), opCode, 0, payload)
	if frame == nil {
		return fmt.Errorf(
			"%s request of %d bytes exceeds maximum frame payload",
			op,
			len(payload),
		)
	}
	respChan := make(chan *Frame, 1)
	c.pendingMutex.Lock()
	if c.failErr != nil {
		c.pendingMutex.Unlock()
		return c.failErr
	}
	c.pending[frame.RequestID] = respChan
	c.pendingMutex.Unlock()
	if err := c.send(frame); err != nil {
		c.forget(frame.RequestID)
		return fmt.Errorf("send %s request: %w", op, err)
	}
	select {
	case <-ctx.Done():
		c.forget(frame.RequestID)
		return ctx.Err()
	case resp, ok := <-respChan:
		if !ok {
			return c.failure()
		}
		if resp.IsError() {
			backendErr := &rpc.BackendError{}
			if err := wire.DecodeFull(resp.Payload, backendErr); err != nil {
				return fmt.Errorf("decode %s failure: %w", op, err)
			}
			return backendErr
		}
		if err := wire.DecodeFull(resp.Payload, result); err != nil {
			return fmt.Errorf("decode %s result: %w", op, err)
		}
		return nil
	}
}

// forget drops the pending entry for an abandoned request. A response
// arriving later is discarded by the read loop
func (c *Client) forget(requestID uint32) {
	c.pendingMutex.Lock()
	delete(c.pending, requestID)
	c.pendingMutex.Unlock()
}

// RegisterStateHolder implements rpc.Handler. The holder key is announced to
// the backend with a one-way frame; the holder state itself travels with
// every request, so announcement failures only cost the backend a hint
func (c *Client) RegisterStateHolder(holder state.Holder) {
	payload, err := wire.Encode(rpc.RegisterStateHolderRequest{Key: holder.Key()})
	if err != nil {
		c.logger.Warn(
			"failed to encode state holder announcement",
			"component", "treeline",
			"key", holder.Key(),
			"error", err,
		)
		return
	}
	frame := NewFrame(
		c.requestID.Add(1),
		OpCodeRegisterState,
		FrameFlagOneWay,
		payload,
	)
	if frame == nil {
		c.logger.Warn(
			"state holder announcement exceeds maximum frame payload",
			"component", "treeline",
			"key", holder.Key(),
		)
		return
	}
	if err := c.send(frame); err != nil {
		c.logger.Warn(
			"failed to announce state holder",
			"component", "treeline",
			"key", holder.Key(),
			"error", err,
		)
	}
}

// GetNodes implements rpc.Handler
func (c *Client) GetNodes(
	ctx context.Context,
	req *rpc.GetNodesRequest,
) (*rpc.GetNodesResult, error) {
	result := &rpc.GetNodesResult{}
	if err := c.call(ctx, OpCodeGetNodes, rpc.OpGetNodes, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNodesCount implements rpc.Handler
func (c *Client) GetNodesCount(
	ctx context.Context,
	req *rpc.GetNodesCountRequest,
) (*rpc.GetNodesCountResult, error) {
	result := &rpc.GetNodesCountResult{}
	if err := c.call(ctx, OpCodeGetNodesCount, rpc.OpGetNodesCount, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNodesAndCount implements rpc.Handler
func (c *Client) GetNodesAndCount(
	ctx context.Context,
	req *rpc.GetNodesAndCountRequest,
) (*rpc.GetNodesAndCountResult, error) {
	result := &rpc.GetNodesAndCountResult{}
	if err := c.call(ctx, OpCodeGetNodesAndCount, rpc.OpGetNodesAndCount, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetNodePaths implements rpc.Handler
func (c *Client) GetNodePaths(
	ctx context.Context,
	req *rpc.GetNodePathsRequest,
) (*rpc.GetNodePathsResult, error) {
	result := &rpc.GetNodePathsResult{}
	if err := c.call(ctx, OpCodeGetNodePaths, rpc.OpGetNodePaths, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetFilteredNodePaths implements rpc.Handler
func (c *Client) GetFilteredNodePaths(
	ctx context.Context,
	req *rpc.GetFilteredNodePathsRequest,
) (*rpc.GetFilteredNodePathsResult, error) {
	result := &rpc.GetFilteredNodePathsResult{}
	if err := c.call(ctx, OpCodeGetFilteredNodePaths, rpc.OpGetFilteredNodePaths, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetContentDescriptor implements rpc.Handler
func (c *Client) GetContentDescriptor(
	ctx context.Context,
	req *rpc.GetContentDescriptorRequest,
) (*rpc.GetContentDescriptorResult, error) {
	result := &rpc.GetContentDescriptorResult{}
	if err := c.call(ctx, OpCodeGetContentDescriptor, rpc.OpGetContentDescriptor, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetContentSetSize implements rpc.Handler
func (c *Client) GetContentSetSize(
	ctx context.Context,
	req *rpc.GetContentSetSizeRequest,
) (*rpc.GetContentSetSizeResult, error) {
	result := &rpc.GetContentSetSizeResult{}
	if err := c.call(ctx, OpCodeGetContentSetSize, rpc.OpGetContentSetSize, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetContent implements rpc.Handler
func (c *Client) GetContent(
	ctx context.Context,
	req *rpc.GetContentRequest,
) (*rpc.GetContentResult, error) {
	result := &rpc.GetContentResult{}
	if err := c.call(ctx, OpCodeGetContent, rpc.OpGetContent, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetContentAndSize implements rpc.Handler
func (c *Client) GetContentAndSize(
	ctx context.Context,
	req *rpc.GetContentAndSizeRequest,
) (*rpc.GetContentAndSizeResult, error) {
	result := &rpc.GetContentAndSizeResult{}
	if err := c.call(ctx, OpCodeGetContentAndSize, rpc.OpGetContentAndSize, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDistinctValues implements rpc.Handler
func (c *Client) GetDistinctValues(
	ctx context.Context,
	req *rpc.GetDistinctValuesRequest,
) (*rpc.GetDistinctValuesResult, error) {
	result := &rpc.GetDistinctValuesResult{}
	if err := c.call(ctx, OpCodeGetDistinctValues, rpc.OpGetDistinctValues, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDisplayLabel implements rpc.Handler
func (c *Client) GetDisplayLabel(
	ctx context.Context,
	req *rpc.GetDisplayLabelRequest,
) (*rpc.GetDisplayLabelResult, error) {
	result := &rpc.GetDisplayLabelResult{}
	if err := c.call(ctx, OpCodeGetDisplayLabel, rpc.OpGetDisplayLabel, req, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetDisplayLabels implements rpc.Handler
func (c *Client) GetDisplayLabels(
	ctx context.Context,
	req *rpc.GetDisplayLabelsRequest,
) (*rpc.GetDisplayLabelsResult, error) {
	result := &rpc.GetDisplayLabelsResult{}
	if err := c.call(ctx, OpCodeGetDisplayLabels, rpc.OpGetDisplayLabels, req, result); err != nil {
		return nil, err
	}
	return result, nil
}
