package test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nervosnetwork/ckb-sdk-go/v2/indexer"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/client"
)

// MockRPCClient serves node RPC calls from configured functions. Results of
// raw calls are passed through JSON like a real node response.
type MockRPCClient struct {
	mu sync.Mutex

	getCells         func(ctx context.Context, searchKey *indexer.SearchKey, order indexer.SearchOrder, limit uint64, afterCursor string) (*indexer.LiveCells, error)
	getBlockByNumber func(ctx context.Context, number uint64) (*types.Block, error)
	methods          map[string]func(args ...interface{}) (interface{}, error)

	Calls []Call
}

// Call records a raw RPC call.
type Call struct {
	Method string
	Args   []interface{}
}

type MockRPCClientOpt func(*MockRPCClient)

func NewMockRPCClient(opts ...MockRPCClientOpt) *MockRPCClient {
	m := &MockRPCClient{
		methods: make(map[string]func(args ...interface{}) (interface{}, error)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func WithGetCells(f func(ctx context.Context, searchKey *indexer.SearchKey, order indexer.SearchOrder, limit uint64, afterCursor string) (*indexer.LiveCells, error)) MockRPCClientOpt {
	return func(m *MockRPCClient) {
		m.getCells = f
	}
}

func WithGetBlockByNumber(f func(ctx context.Context, number uint64) (*types.Block, error)) MockRPCClientOpt {
	return func(m *MockRPCClient) {
		m.getBlockByNumber = f
	}
}

// WithMethod serves the raw RPC method with f.
func WithMethod(method string, f func(args ...interface{}) (interface{}, error)) MockRPCClientOpt {
	return func(m *MockRPCClient) {
		m.methods[method] = f
	}
}

// GetCells implements client.RPCClient.
func (m *MockRPCClient) GetCells(ctx context.Context, searchKey *indexer.SearchKey, order indexer.SearchOrder, limit uint64, afterCursor string) (*indexer.LiveCells, error) {
	if m.getCells == nil {
		return nil, fmt.Errorf("get_cells not mocked")
	}
	return m.getCells(ctx, searchKey, order, limit, afterCursor)
}

// GetBlockByNumber implements client.RPCClient.
func (m *MockRPCClient) GetBlockByNumber(ctx context.Context, number uint64) (*types.Block, error) {
	if m.getBlockByNumber == nil {
		return nil, fmt.Errorf("get_block_by_number not mocked")
	}
	return m.getBlockByNumber(ctx, number)
}

// CallContext implements client.RPCClient.
func (m *MockRPCClient) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, Call{Method: method, Args: args})
	f, ok := m.methods[method]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("method %s not mocked", method)
	}
	v, err := f(args...)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

var _ client.RPCClient = (*MockRPCClient)(nil)
