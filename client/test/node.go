package test

import (
	"context"
	"errors"
	"sync"

	"github.com/nervosnetwork/ckb-sdk-go/v2/address"
	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/client"
)

var ErrMockSigner = errors.New("mock signer failure")

// StatusResponse is a single answer of MockNode to a status request.
type StatusResponse struct {
	Status types.TransactionStatus
	Reason string
	Err    error
}

// MockNode accepts every transaction and answers status requests from a
// script. The last response is repeated once the script is exhausted.
type MockNode struct {
	mu sync.Mutex

	// Hash is returned for every sent transaction not covered by Hashes.
	Hash      types.Hash
	Hashes    []types.Hash
	SendErr   error
	Responses []StatusResponse

	Sent       []*types.Transaction
	Validators []backend.OutputsValidator
	Polls      int
}

func NewMockNode(hash types.Hash, responses ...StatusResponse) *MockNode {
	return &MockNode{
		Hash:      hash,
		Responses: responses,
	}
}

// SendTransaction implements backend.Transactor.
func (n *MockNode) SendTransaction(_ context.Context, tx *types.Transaction, validator backend.OutputsValidator) (types.Hash, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.SendErr != nil {
		return types.Hash{}, n.SendErr
	}
	hash := n.Hash
	if len(n.Sent) < len(n.Hashes) {
		hash = n.Hashes[len(n.Sent)]
	}
	n.Sent = append(n.Sent, tx)
	n.Validators = append(n.Validators, validator)
	return hash, nil
}

// TransactionStatus implements client.Node.
func (n *MockNode) TransactionStatus(_ context.Context, _ types.Hash) (*client.TxStatus, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Polls++
	if len(n.Responses) == 0 {
		return &client.TxStatus{Status: types.TransactionStatusUnknown}, nil
	}
	i := n.Polls - 1
	if i >= len(n.Responses) {
		i = len(n.Responses) - 1
	}
	r := n.Responses[i]
	if r.Err != nil {
		return nil, r.Err
	}
	status := &client.TxStatus{Status: r.Status}
	if r.Reason != "" {
		reason := r.Reason
		status.Reason = &reason
	}
	return status, nil
}

// PollCount returns the number of status requests served so far.
func (n *MockNode) PollCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.Polls
}

var _ client.Node = (*MockNode)(nil)

// MockSigner returns transactions unchanged.
type MockSigner struct {
	Addr address.Address
	Fail bool
}

// SignTransaction implements backend.Signer.
func (s MockSigner) SignTransaction(tx *transaction.TransactionWithScriptGroups) (*transaction.TransactionWithScriptGroups, error) {
	if s.Fail {
		return nil, ErrMockSigner
	}
	return tx, nil
}

// Address implements backend.Signer.
func (s MockSigner) Address() address.Address {
	return s.Addr
}

var _ backend.Signer = MockSigner{}
