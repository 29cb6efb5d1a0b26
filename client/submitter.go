package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/go-perun/log"
	"perun.network/perun-ckb-sudt/backend"
)

// DefaultPollingInterval is the time between two status requests.
const DefaultPollingInterval = time.Second

var (
	ErrTimedOut = errors.New("transaction not committed in time")
	ErrRejected = errors.New("transaction rejected")
)

// TimeoutError is returned if a transaction was not committed within the
// polling bounds. It matches ErrTimedOut and unwraps to the context error, if
// any.
type TimeoutError struct {
	Hash     types.Hash
	Attempts uint
	Cause    error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("transaction %s not committed after %d attempts", e.Hash, e.Attempts)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimedOut
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Node submits transactions and reports their status.
type Node interface {
	backend.Transactor
	TransactionStatus(ctx context.Context, hash types.Hash) (*TxStatus, error)
}

// Submitter signs transactions, sends them to a node and waits until they are
// committed.
type Submitter struct {
	log.Embedding

	Node      Node
	Signer    backend.Signer
	Validator backend.OutputsValidator
	// PollingInterval defaults to DefaultPollingInterval.
	PollingInterval time.Duration
	// MaxAttempts bounds the number of status requests. Zero means unbounded,
	// in which case only the context ends the polling.
	MaxAttempts uint
}

func NewSubmitter(node Node, signer backend.Signer) *Submitter {
	return &Submitter{
		Embedding:       log.MakeEmbedding(log.Default()),
		Node:            node,
		Signer:          signer,
		Validator:       backend.WellKnownScriptsOnly,
		PollingInterval: DefaultPollingInterval,
	}
}

// Submit signs and sends the transaction. It returns the hash reported by the
// node.
func (s *Submitter) Submit(ctx context.Context, tx *transaction.TransactionWithScriptGroups) (types.Hash, error) {
	signed, err := s.Signer.SignTransaction(tx)
	if err != nil {
		return types.Hash{}, fmt.Errorf("signing transaction: %w", err)
	}
	hash, err := s.Node.SendTransaction(ctx, signed.TxView, s.validator())
	if err != nil {
		return types.Hash{}, fmt.Errorf("sending transaction: %w", err)
	}
	s.Log().WithField("hash", hash).Info("Transaction sent")
	return hash, nil
}

// Await polls the status of the transaction until it is committed. Failed
// status requests are logged and retried. A rejected transaction ends the
// polling with ErrRejected.
func (s *Submitter) Await(ctx context.Context, hash types.Hash) error {
	logger := s.Log().WithField("hash", hash)
	var last *TxStatus
	for attempt := uint(1); ; attempt++ {
		status, err := s.Node.TransactionStatus(ctx, hash)
		if err != nil {
			logger.WithError(err).WithField("last", last).Error("Fetching transaction status")
		} else {
			last = status
			logger.WithField("attempt", attempt).Infof("Transaction status: %s", status.Status)
			switch status.Status {
			case types.TransactionStatusCommitted:
				return nil
			case types.TransactionStatusRejected:
				reason := ""
				if status.Reason != nil {
					reason = *status.Reason
				}
				return fmt.Errorf("%w: %s: %s", ErrRejected, hash, reason)
			}
		}

		if s.MaxAttempts != 0 && attempt >= s.MaxAttempts {
			return &TimeoutError{Hash: hash, Attempts: attempt}
		}
		select {
		case <-ctx.Done():
			return &TimeoutError{Hash: hash, Attempts: attempt, Cause: ctx.Err()}
		case <-time.After(s.pollingInterval()):
		}
	}
}

// SubmitAndAwait submits the transaction and waits until it is committed.
func (s *Submitter) SubmitAndAwait(ctx context.Context, tx *transaction.TransactionWithScriptGroups) (types.Hash, error) {
	hash, err := s.Submit(ctx, tx)
	if err != nil {
		return types.Hash{}, err
	}
	return hash, s.Await(ctx, hash)
}

func (s *Submitter) pollingInterval() time.Duration {
	if s.PollingInterval <= 0 {
		return DefaultPollingInterval
	}
	return s.PollingInterval
}

func (s *Submitter) validator() backend.OutputsValidator {
	if s.Validator == "" {
		return backend.WellKnownScriptsOnly
	}
	return s.Validator
}
