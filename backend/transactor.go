package backend

import (
	"context"

	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// OutputsValidator selects how strictly a node checks the outputs of a
// transaction before relaying it.
type OutputsValidator string

const (
	// WellKnownScriptsOnly rejects outputs using scripts unknown to the node.
	WellKnownScriptsOnly OutputsValidator = "well_known_scripts_only"
	// Passthrough skips output validation. Only suitable for development
	// chains, as outputs with custom scripts are relayed unchecked.
	Passthrough OutputsValidator = "passthrough"
)

// Valid reports whether v is a validator known to the node RPC.
func (v OutputsValidator) Valid() bool {
	return v == WellKnownScriptsOnly || v == Passthrough
}

// Transactor interacts with the blockchain and is able to submit signed
// transactions to the blockchain.
type Transactor interface {
	// SendTransaction submits the given transaction to the blockchain.
	SendTransaction(ctx context.Context, tx *types.Transaction, validator OutputsValidator) (types.Hash, error)
}
