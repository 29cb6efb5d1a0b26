package backend

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nervosnetwork/ckb-sdk-go/v2/address"
	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction"
	"github.com/nervosnetwork/ckb-sdk-go/v2/transaction/signer"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

var ErrNothingSigned = errors.New("no script group matches the signing key")

type Signer interface {
	// SignTransaction signs the transaction and returns the signed transaction or an error.
	SignTransaction(tx *transaction.TransactionWithScriptGroups) (*transaction.TransactionWithScriptGroups, error)
	// Address returns the address of the signer.
	Address() address.Address
}

// LocalSigner signs with a private key held in memory.
type LocalSigner struct {
	key      secp256k1.PrivateKey
	Addr     address.Address
	TxSigner signer.TransactionSigner
}

func NewSignerInstance(addr address.Address, key secp256k1.PrivateKey, network types.Network) *LocalSigner {
	return &LocalSigner{
		key:      key,
		Addr:     addr,
		TxSigner: *signer.GetTransactionSignerInstance(network),
	}
}

// SignTransaction signs every script group guarded by the signer's key. The
// witness placeholders must have been set when building the transaction.
func (s LocalSigner) SignTransaction(tx *transaction.TransactionWithScriptGroups) (*transaction.TransactionWithScriptGroups, error) {
	signed, err := s.TxSigner.SignTransactionByPrivateKeys(tx, s.key.Key.String())
	if err != nil {
		return nil, err
	}
	if len(signed) == 0 {
		return nil, ErrNothingSigned
	}
	return tx, nil
}

func (s LocalSigner) Address() address.Address {
	return s.Addr
}
