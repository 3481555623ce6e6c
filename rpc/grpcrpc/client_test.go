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

package grpcrpc_test

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	treeline "github.com/treelinedb/gotreeline"
	"github.com/treelinedb/gotreeline/rpc"
	"github.com/treelinedb/gotreeline/rpc/grpcrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeBackend serves canned results and records what it saw
type fakeBackend struct {
	grpcrpc.UnimplementedBackend

	mutex          sync.Mutex
	nodesCountReqs []*rpc.GetNodesCountRequest
	registeredKeys []string

	nodesCountResult *rpc.GetNodesCountResult
	nodesCountErr    error
	nodesErr         error
}

func (f *fakeBackend) GetNodesCount(
	_ context.Context,
	req *rpc.GetNodesCountRequest,
) (*rpc.GetNodesCountResult, error) {
	f.mutex.Lock()
	f.nodesCountReqs = append(f.nodesCountReqs, req)
	f.mutex.Unlock()
	return f.nodesCountResult, f.nodesCountErr
}

func (f *fakeBackend) GetNodes(
	context.Context,
	*rpc.GetNodesRequest,
) (*rpc.GetNodesResult, error) {
	return nil, f.nodesErr
}

func (f *fakeBackend) RegisterStateHolder(
	_ context.Context,
	req *rpc.RegisterStateHolderRequest,
) (*rpc.RegisterStateHolderResult, error) {
	f.mutex.Lock()
	f.registeredKeys = append(f.registeredKeys, req.Key)
	f.mutex.Unlock()
	return &rpc.RegisterStateHolderResult{}, nil
}

func (f *fakeBackend) countRequests() []*rpc.GetNodesCountRequest {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]*rpc.GetNodesCountRequest{}, f.nodesCountReqs...)
}

func (f *fakeBackend) registered() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string{}, f.registeredKeys...)
}

// startBackend serves the backend on an in-memory listener and returns a
// client connected to it
func startBackend(t *testing.T, backend grpcrpc.Backend) *grpcrpc.Client {
	t.Helper()
	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ForceServerCodec(grpcrpc.Codec{}))
	grpcrpc.RegisterBackend(server, backend)
	go func() {
		_ = server.Serve(listener)
	}()
	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(
			func(ctx context.Context, _ string) (net.Conn, error) {
				return listener.DialContext(ctx)
			},
		),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		server.Stop()
		listener.Close()
	})
	return grpcrpc.NewClient(conn)
}

func TestClientCall(t *testing.T) {
	backend := &fakeBackend{
		nodesCountResult: &rpc.GetNodesCountResult{Count: 7},
	}
	client := startBackend(t, backend)
	result, err := client.GetNodesCount(
		context.Background(),
		&rpc.GetNodesCountRequest{
			RequestBase: rpc.RequestBase{
				Options: rpc.RequestOptions{
					Dataset: rpc.DatasetKey{ID: "dataset-1"},
					Locale:  "en",
				},
			},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Count)
	reqs := backend.countRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "en", reqs[0].Options.Locale)
	assert.Equal(t, "dataset-1", reqs[0].Options.Dataset.ID)
}

func TestStatusErrorBecomesBackendError(t *testing.T) {
	backend := &fakeBackend{
		nodesErr: status.Error(codes.NotFound, "no such ruleset"),
	}
	client := startBackend(t, backend)
	_, err := client.GetNodes(context.Background(), &rpc.GetNodesRequest{})
	require.Error(t, err)
	var backendErr *rpc.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, codes.NotFound.String(), backendErr.Code)
	assert.Equal(t, "no such ruleset", backendErr.Message)
}

func TestUnimplementedOperation(t *testing.T) {
	client := startBackend(t, &fakeBackend{})
	_, err := client.GetContent(context.Background(), &rpc.GetContentRequest{})
	require.Error(t, err)
	var backendErr *rpc.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, codes.Unimplemented.String(), backendErr.Code)
}

func TestContextCancelSurfaces(t *testing.T) {
	client := startBackend(t, &fakeBackend{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetNodes(ctx, &rpc.GetNodesRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

// Covers the full client stack over gRPC: manager construction registers the
// rulesets store with the backend, variables holders are announced on first
// use and travel with requests in the state snapshot
func TestManagerOverGRPC(t *testing.T) {
	backend := &fakeBackend{
		nodesCountResult: &rpc.GetNodesCountResult{Count: 5},
	}
	client := startBackend(t, backend)
	m, err := treeline.NewManager(
		treeline.WithHandler(client),
		treeline.WithLocale("en"),
	)
	require.NoError(t, err)
	m.Vars("rulesetA").SetInt("x", 5)
	count, err := m.GetNodesCount(
		context.Background(),
		treeline.HierarchyOptions{
			RequestOptions: treeline.RequestOptions{
				Dataset:   treeline.NewStaticDataset("dataset-1", "rev-7"),
				RulesetID: "rulesetA",
			},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, []string{"rulesets", "rulesetA"}, backend.registered())
	reqs := backend.countRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "rulesetA", reqs[0].Options.RulesetID)
	stateKeys := make([]string, 0, len(reqs[0].State))
	for _, entry := range reqs[0].State {
		stateKeys = append(stateKeys, entry.Key)
	}
	assert.Equal(t, []string{"rulesetA", "rulesets"}, stateKeys)
	require.NoError(t, m.Close())
}
