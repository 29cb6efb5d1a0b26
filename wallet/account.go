package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/nervosnetwork/ckb-sdk-go/v2/address"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/encoding"
)

var ErrInvalidKey = errors.New("invalid secp256k1 private key")

// Account holds a secp256k1 private key guarding cells with the default
// lock of a network.
type Account struct {
	key *secp256k1.PrivateKey
}

func NewAccount() (*Account, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return &Account{key: key}, nil
}

// NewAccountFromHex parses a 32 byte private key given in hex, with or without
// 0x prefix.
func NewAccountFromHex(hexKey string) (*Account, error) {
	if !strings.HasPrefix(hexKey, "0x") && !strings.HasPrefix(hexKey, "0X") {
		hexKey = "0x" + hexKey
	}
	raw, err := hexutil.Decode(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, secp256k1.PrivKeyBytesLen, len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero key", ErrInvalidKey)
	}
	return &Account{key: key}, nil
}

func (a Account) PubKey() *secp256k1.PublicKey {
	return a.key.PubKey()
}

// PubKeyHash returns the lock args identifying the account.
func (a Account) PubKeyHash() []byte {
	return encoding.PubKeyHash(a.key.PubKey())
}

// LockScript returns the secp256k1_blake160_sighash_all lock of the account.
func (a Account) LockScript(d backend.Deployment) *types.Script {
	return d.LockScript(a.PubKeyHash())
}

func (a Account) Address(d backend.Deployment) address.Address {
	return address.Address{
		Script:  a.LockScript(d),
		Network: d.Network,
	}
}

// Signer returns a signer for transactions spending the account's cells.
func (a Account) Signer(d backend.Deployment) *backend.LocalSigner {
	return backend.NewSignerInstance(a.Address(d), *a.key, d.Network)
}
