package client_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"perun.network/go-perun/log"
	plogrus "perun.network/go-perun/log/logrus"
	"perun.network/perun-ckb-sudt/backend"
	btest "perun.network/perun-ckb-sudt/backend/test"
	"perun.network/perun-ckb-sudt/client"
	ctest "perun.network/perun-ckb-sudt/client/test"
	ptest "polycry.pt/poly-go/test"
)

const testTimeout = 5 * time.Second

func newTestSubmitter(node client.Node, signer backend.Signer) (*client.Submitter, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := client.NewSubmitter(node, signer)
	s.Embedding = log.MakeEmbedding(plogrus.FromLogrus(logger))
	s.PollingInterval = time.Millisecond
	return s, hook
}

func newTx() *transaction.TransactionWithScriptGroups {
	return &transaction.TransactionWithScriptGroups{TxView: &types.Transaction{}}
}

func TestSubmitter_Submit(t *testing.T) {
	rng := ptest.Prng(t)
	hash := btest.NewRandomHash(rng)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	t.Run("DefaultValidator", func(t *testing.T) {
		node := ctest.NewMockNode(hash)
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		tx := newTx()
		got, err := s.Submit(ctx, tx)
		require.NoError(t, err)
		require.Equal(t, hash, got)
		require.Equal(t, []*types.Transaction{tx.TxView}, node.Sent)
		require.Equal(t, []backend.OutputsValidator{backend.WellKnownScriptsOnly}, node.Validators)
	})

	t.Run("Passthrough", func(t *testing.T) {
		node := ctest.NewMockNode(hash)
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		s.Validator = backend.Passthrough
		_, err := s.Submit(ctx, newTx())
		require.NoError(t, err)
		require.Equal(t, []backend.OutputsValidator{backend.Passthrough}, node.Validators)
	})

	t.Run("SignerError", func(t *testing.T) {
		node := ctest.NewMockNode(hash)
		s, _ := newTestSubmitter(node, ctest.MockSigner{Fail: true})
		_, err := s.Submit(ctx, newTx())
		require.ErrorIs(t, err, ctest.ErrMockSigner)
		require.Empty(t, node.Sent)
	})

	t.Run("SendError", func(t *testing.T) {
		node := ctest.NewMockNode(hash)
		node.SendErr = errors.New("pool full")
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		_, err := s.SubmitAndAwait(ctx, newTx())
		require.ErrorIs(t, err, node.SendErr)
		require.Zero(t, node.PollCount())
	})
}

func TestSubmitter_Await(t *testing.T) {
	rng := ptest.Prng(t)
	hash := btest.NewRandomHash(rng)

	t.Run("StopsAfterCommitted", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		node := ctest.NewMockNode(hash,
			ctest.StatusResponse{Status: types.TransactionStatusPending},
			ctest.StatusResponse{Status: types.TransactionStatusProposed},
			ctest.StatusResponse{Status: types.TransactionStatusCommitted},
		)
		s, hook := newTestSubmitter(node, ctest.MockSigner{})
		require.NoError(t, s.Await(ctx, hash))
		require.Equal(t, 3, node.PollCount())

		time.Sleep(10 * s.PollingInterval)
		require.Equal(t, 3, node.PollCount(), "no polls after commitment")

		var statuses []string
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.InfoLevel {
				statuses = append(statuses, e.Message)
			}
		}
		require.Equal(t, []string{
			"Transaction status: pending",
			"Transaction status: proposed",
			"Transaction status: committed",
		}, statuses)
	})

	t.Run("ContinuesAfterError", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		rpcErr := errors.New("connection refused")
		node := ctest.NewMockNode(hash,
			ctest.StatusResponse{Status: types.TransactionStatusPending},
			ctest.StatusResponse{Err: rpcErr},
			ctest.StatusResponse{Status: types.TransactionStatusPending},
			ctest.StatusResponse{Status: types.TransactionStatusCommitted},
		)
		s, hook := newTestSubmitter(node, ctest.MockSigner{})
		require.NoError(t, s.Await(ctx, hash))
		require.Equal(t, 4, node.PollCount())

		var errEntries []*logrus.Entry
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.ErrorLevel {
				errEntries = append(errEntries, e)
			}
		}
		require.Len(t, errEntries, 1)
		require.Equal(t, rpcErr, errEntries[0].Data[logrus.ErrorKey])
		require.Equal(t, hash.String(), errEntries[0].Data["hash"], "fields are stringified by the logging backend")
		require.NotNil(t, errEntries[0].Data["last"])
	})

	t.Run("MaxAttempts", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		node := ctest.NewMockNode(hash, ctest.StatusResponse{Status: types.TransactionStatusPending})
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		s.MaxAttempts = 5
		err := s.Await(ctx, hash)
		require.ErrorIs(t, err, client.ErrTimedOut)
		require.Equal(t, 5, node.PollCount())

		var timeout *client.TimeoutError
		require.ErrorAs(t, err, &timeout)
		require.Equal(t, uint(5), timeout.Attempts)
		require.Equal(t, hash, timeout.Hash)
	})

	t.Run("MaxAttemptsWithErrors", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		node := ctest.NewMockNode(hash, ctest.StatusResponse{Err: errors.New("unreachable")})
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		s.MaxAttempts = 3
		require.ErrorIs(t, s.Await(ctx, hash), client.ErrTimedOut)
		require.Equal(t, 3, node.PollCount())
	})

	t.Run("Rejected", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		node := ctest.NewMockNode(hash,
			ctest.StatusResponse{Status: types.TransactionStatusPending},
			ctest.StatusResponse{Status: types.TransactionStatusRejected, Reason: "double spend"},
		)
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		err := s.Await(ctx, hash)
		require.ErrorIs(t, err, client.ErrRejected)
		require.Contains(t, err.Error(), "double spend")
		require.Equal(t, 2, node.PollCount())
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		node := ctest.NewMockNode(hash)
		s, _ := newTestSubmitter(node, ctest.MockSigner{})
		err := s.Await(ctx, hash)
		require.ErrorIs(t, err, client.ErrTimedOut)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Positive(t, node.PollCount())
	})
}

func TestSubmitter_SubmitAndAwait(t *testing.T) {
	rng := ptest.Prng(t)
	hash := btest.NewRandomHash(rng)
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	node := ctest.NewMockNode(hash, ctest.StatusResponse{Status: types.TransactionStatusCommitted})
	s, _ := newTestSubmitter(node, ctest.MockSigner{})
	got, err := s.SubmitAndAwait(ctx, newTx())
	require.NoError(t, err)
	require.Equal(t, hash, got)
	require.Len(t, node.Sent, 1)
	require.Equal(t, 1, node.PollCount())
}
