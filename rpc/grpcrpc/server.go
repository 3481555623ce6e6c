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

package grpcrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/treelinedb/gotreeline/rpc"
)

// Backend is the server-side counterpart of the client: one method per
// operation. Implementations express failures as gRPC status errors
type Backend interface {
	GetNodes(ctx context.Context, req *rpc.GetNodesRequest) (*rpc.GetNodesResult, error)
	GetNodesCount(ctx context.Context, req *rpc.GetNodesCountRequest) (*rpc.GetNodesCountResult, error)
	GetNodesAndCount(ctx context.Context, req *rpc.GetNodesAndCountRequest) (*rpc.GetNodesAndCountResult, error)
	GetNodePaths(ctx context.Context, req *rpc.GetNodePathsRequest) (*rpc.GetNodePathsResult, error)
	GetFilteredNodePaths(ctx context.Context, req *rpc.GetFilteredNodePathsRequest) (*rpc.GetFilteredNodePathsResult, error)
	GetContentDescriptor(ctx context.Context, req *rpc.GetContentDescriptorRequest) (*rpc.GetContentDescriptorResult, error)
	GetContentSetSize(ctx context.Context, req *rpc.GetContentSetSizeRequest) (*rpc.GetContentSetSizeResult, error)
	GetContent(ctx context.Context, req *rpc.GetContentRequest) (*rpc.GetContentResult, error)
	GetContentAndSize(ctx context.Context, req *rpc.GetContentAndSizeRequest) (*rpc.GetContentAndSizeResult, error)
	GetDistinctValues(ctx context.Context, req *rpc.GetDistinctValuesRequest) (*rpc.GetDistinctValuesResult, error)
	GetDisplayLabel(ctx context.Context, req *rpc.GetDisplayLabelRequest) (*rpc.GetDisplayLabelResult, error)
	GetDisplayLabels(ctx context.Context, req *rpc.GetDisplayLabelsRequest) (*rpc.GetDisplayLabelsResult, error)
	RegisterStateHolder(ctx context.Context, req *rpc.RegisterStateHolderRequest) (*rpc.RegisterStateHolderResult, error)
}

// UnimplementedBackend provides failing stubs for every operation. Embed it
// to implement backends that only serve a subset of the operations
type UnimplementedBackend struct{}

func (UnimplementedBackend) GetNodes(context.Context, *rpc.GetNodesRequest) (*rpc.GetNodesResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNodes not implemented")
}

func (UnimplementedBackend) GetNodesCount(context.Context, *rpc.GetNodesCountRequest) (*rpc.GetNodesCountResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNodesCount not implemented")
}

func (UnimplementedBackend) GetNodesAndCount(context.Context, *rpc.GetNodesAndCountRequest) (*rpc.GetNodesAndCountResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNodesAndCount not implemented")
}

func (UnimplementedBackend) GetNodePaths(context.Context, *rpc.GetNodePathsRequest) (*rpc.GetNodePathsResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNodePaths not implemented")
}

func (UnimplementedBackend) GetFilteredNodePaths(context.Context, *rpc.GetFilteredNodePathsRequest) (*rpc.GetFilteredNodePathsResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFilteredNodePaths not implemented")
}

func (UnimplementedBackend) GetContentDescriptor(context.Context, *rpc.GetContentDescriptorRequest) (*rpc.GetContentDescriptorResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContentDescriptor not implemented")
}

func (UnimplementedBackend) GetContentSetSize(context.Context, *rpc.GetContentSetSizeRequest) (*rpc.GetContentSetSizeResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContentSetSize not implemented")
}

func (UnimplementedBackend) GetContent(context.Context, *rpc.GetContentRequest) (*rpc.GetContentResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContent not implemented")
}

func (UnimplementedBackend) GetContentAndSize(context.Context, *rpc.GetContentAndSizeRequest) (*rpc.GetContentAndSizeResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetContentAndSize not implemented")
}

func (UnimplementedBackend) GetDistinctValues(context.Context, *rpc.GetDistinctValuesRequest) (*rpc.GetDistinctValuesResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDistinctValues not implemented")
}

func (UnimplementedBackend) GetDisplayLabel(context.Context, *rpc.GetDisplayLabelRequest) (*rpc.GetDisplayLabelResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDisplayLabel not implemented")
}

func (UnimplementedBackend) GetDisplayLabels(context.Context, *rpc.GetDisplayLabelsRequest) (*rpc.GetDisplayLabelsResult, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDisplayLabels not implemented")
}

func (UnimplementedBackend) RegisterStateHolder(context.Context, *rpc.RegisterStateHolderRequest) (*rpc.RegisterStateHolderResult, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterStateHolder not implemented")
}

// RegisterBackend registers a backend implementation with a gRPC server.
// The server must use the CBOR codec: grpc.NewServer(grpc.ForceServerCodec(Codec{}))
func RegisterBackend(registrar grpc.ServiceRegistrar, backend Backend) {
	registrar.RegisterService(&serviceDesc, backend)
}

// unaryHandler adapts one backend method to the grpc.MethodDesc handler
// shape, decoding into a fresh R and running any installed interceptor
func unaryHandler[R any](
	op string,
	invoke func(backend Backend, ctx context.Context, req *R) (any, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(
		srv any,
		ctx context.Context,
		dec func(any) error,
		interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		req := new(R)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(srv.(Backend), ctx, req)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: methodName(op),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return invoke(srv.(Backend), ctx, req.(*R))
		}
		return interceptor(ctx, req, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Backend)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: rpc.OpGetNodes,
			Handler: unaryHandler(rpc.OpGetNodes,
				func(backend Backend, ctx context.Context, req *rpc.GetNodesRequest) (any, error) {
					return backend.GetNodes(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetNodesCount,
			Handler: unaryHandler(rpc.OpGetNodesCount,
				func(backend Backend, ctx context.Context, req *rpc.GetNodesCountRequest) (any, error) {
					return backend.GetNodesCount(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetNodesAndCount,
			Handler: unaryHandler(rpc.OpGetNodesAndCount,
				func(backend Backend, ctx context.Context, req *rpc.GetNodesAndCountRequest) (any, error) {
					return backend.GetNodesAndCount(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetNodePaths,
			Handler: unaryHandler(rpc.OpGetNodePaths,
				func(backend Backend, ctx context.Context, req *rpc.GetNodePathsRequest) (any, error) {
					return backend.GetNodePaths(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetFilteredNodePaths,
			Handler: unaryHandler(rpc.OpGetFilteredNodePaths,
				func(backend Backend, ctx context.Context, req *rpc.GetFilteredNodePathsRequest) (any, error) {
					return backend.GetFilteredNodePaths(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetContentDescriptor,
			Handler: unaryHandler(rpc.OpGetContentDescriptor,
				func(backend Backend, ctx context.Context, req *rpc.GetContentDescriptorRequest) (any, error) {
					return backend.GetContentDescriptor(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetContentSetSize,
			Handler: unaryHandler(rpc.OpGetContentSetSize,
				func(backend Backend, ctx context.Context, req *rpc.GetContentSetSizeRequest) (any, error) {
					return backend.GetContentSetSize(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetContent,
			Handler: unaryHandler(rpc.OpGetContent,
				func(backend Backend, ctx context.Context, req *rpc.GetContentRequest) (any, error) {
					return backend.GetContent(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetContentAndSize,
			Handler: unaryHandler(rpc.OpGetContentAndSize,
				func(backend Backend, ctx context.Context, req *rpc.GetContentAndSizeRequest) (any, error) {
					return backend.GetContentAndSize(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetDistinctValues,
			Handler: unaryHandler(rpc.OpGetDistinctValues,
				func(backend Backend, ctx context.Context, req *rpc.GetDistinctValuesRequest) (any, error) {
					return backend.GetDistinctValues(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetDisplayLabel,
			Handler: unaryHandler(rpc.OpGetDisplayLabel,
				func(backend Backend, ctx context.Context, req *rpc.GetDisplayLabelRequest) (any, error) {
					return backend.GetDisplayLabel(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpGetDisplayLabels,
			Handler: unaryHandler(rpc.OpGetDisplayLabels,
				func(backend Backend, ctx context.Context, req *rpc.GetDisplayLabelsRequest) (any, error) {
					return backend.GetDisplayLabels(ctx, req)
				}),
		},
		{
			MethodName: rpc.OpRegisterStateHolder,
			Handler: unaryHandler(rpc.OpRegisterStateHolder,
				func(backend Backend, ctx context.Context, req *rpc.RegisterStateHolderRequest) (any, error) {
					return backend.RegisterStateHolder(ctx, req)
				}),
		},
	},
	Streams: []grpc.StreamDesc{},
}
