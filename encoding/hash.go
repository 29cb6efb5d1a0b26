package encoding

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/nervosnetwork/ckb-sdk-go/v2/crypto/blake2b"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// Blake160Length is the length of a public key hash in secp256k1 lock args.
const Blake160Length = 20

// Blake2b256 returns the 32 byte ckb-default-hash digest of data. Code hashes
// of scripts referenced with hash type data are computed this way.
func Blake2b256(data []byte) types.Hash {
	return types.BytesToHash(blake2b.Blake256(data))
}

// Blake160 returns the first 20 bytes of the ckb-default-hash digest of data.
func Blake160(data []byte) []byte {
	return blake2b.Blake160(data)
}

// PubKeyHash returns the blake160 hash of the compressed SEC1 encoding of key,
// which is the args of a secp256k1_blake160_sighash_all lock.
func PubKeyHash(key *secp256k1.PublicKey) []byte {
	return Blake160(key.SerializeCompressed())
}
