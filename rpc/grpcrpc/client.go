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

// Package grpcrpc implements the rpc.Handler transport over gRPC with CBOR
// message encoding.
//
// Calls are plain unary RPCs against the treeline.v1.TreelineService
// service; no generated stubs are involved. Backend failures arrive as gRPC
// statuses and are returned as *rpc.BackendError values carrying the status
// code name and message.
package grpcrpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/state"
)

// ServiceName is the full gRPC service name operations are invoked against
const ServiceName = "treeline.v1.TreelineService"

func methodName(op string) string {
	return "/" + ServiceName + "/" + op
}

// Client implements rpc.Handler on a gRPC client connection. Create with
// NewClient or Dial
type Client struct {
	conn        grpc.ClientConnInterface
	logger      *slog.Logger
	dialOptions []grpc.DialOption
	closeFn     func() error
}

// NewClient creates a Client on an established gRPC connection. The
// connection stays owned by the caller; Close does not release it
func NewClient(
	conn grpc.ClientConnInterface,
	options ...ClientOptionFunc,
) *Client {
	c := &Client{conn: conn}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Dial connects to the given gRPC target and returns a Client owning the new
// connection. Transport security defaults to insecure; pass credentials via
// WithDialOptions to override
func Dial(target string, options ...ClientOptionFunc) (*Client, error) {
	c := &Client{}
	for _, option := range options {
		option(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	dialOptions := append(
		[]grpc.DialOption{
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		},
		c.dialOptions...,
	)
	conn, err := grpc.NewClient(target, dialOptions...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.closeFn = conn.Close
	return c, nil
}

// Close implements rpc.Handler. It releases the connection when the client
// owns one and is a no-op otherwise
func (c *Client) Close() error {
	c.logger.Debug(
		"closing grpc client",
		"component", "treeline",
		"role", "client",
	)
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

// call invokes a single unary operation. Context errors surface as such;
// every other failure is a gRPC status and comes back as *rpc.BackendError
func (c *Client) call(
	ctx context.Context,
	op string,
	req any,
	result any,
) error {
	err := c.conn.Invoke(
		ctx,
		methodName(op),
		req,
		result,
		grpc.ForceCodec(Codec{}),
	)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if st, ok := status.FromError(err); ok {
		return &rpc.BackendError{
			Code:    st.Code().String(),
			Message: st.Message(),
		}
	}
	return err
}

// RegisterStateHolder implements rpc.Handler. The holder key is announced
// with a RegisterStateHolder call; the holder state itself travels with
// every request, so announcement failures only cost the backend a hint
func (c *Client) RegisterStateHolder(holder state.Holder) {
	err := c.call(
		context.Background(),
		rpc.OpRegisterStateHolder,
		&rpc.RegisterStateHolderRequest{Key: holder.Key()},
		&rpc.RegisterStateHolderResult{},
	)
	if err != nil {
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
	if err := c.call(ctx, rpc.OpGetNodes, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetNodesCount, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetNodesAndCount, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetNodePaths, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetFilteredNodePaths, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetContentDescriptor, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetContentSetSize, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetContent, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetContentAndSize, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetDistinctValues, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetDisplayLabel, req, result); err != nil {
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
	if err := c.call(ctx, rpc.OpGetDisplayLabels, req, result); err != nil {
		return nil, err
	}
	return result, nil
}
