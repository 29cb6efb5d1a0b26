package backend

import (
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

// Deployment contains all information about the on-chain scripts necessary to
// issue sUDT tokens. This includes the sUDT code cell and the default
// secp256k1_blake160_sighash_all lock of the respective network.
type Deployment struct {
	Network types.Network

	SUDTDep      types.CellDep
	SUDTCodeHash types.Hash
	SUDTHashType types.ScriptHashType

	DefaultLockScript    types.Script
	DefaultLockScriptDep types.CellDep
}

// DeploymentConfig describes the system lock of a network, usually resolved
// from its genesis block.
type DeploymentConfig struct {
	DefaultLockScript    types.Script
	DefaultLockScriptDep types.CellDep
}

// MkDeployment combines the system lock of a network with the location of a
// deployed sUDT binary. The sUDT script is referenced by the hash of its
// binary, i.e. with hash type data.
func MkDeployment(network types.Network, config DeploymentConfig, sudtOutPoint types.OutPoint, sudtCodeHash types.Hash) *Deployment {
	op := sudtOutPoint
	return &Deployment{
		Network: network,
		SUDTDep: types.CellDep{
			OutPoint: &op,
			DepType:  types.DepTypeCode,
		},
		SUDTCodeHash:         sudtCodeHash,
		SUDTHashType:         types.HashTypeData,
		DefaultLockScript:    config.DefaultLockScript,
		DefaultLockScriptDep: config.DefaultLockScriptDep,
	}
}

// LockScript returns the default lock script guarding cells of the owner of
// the given public key hash.
func (d Deployment) LockScript(pubKeyHash []byte) *types.Script {
	return &types.Script{
		CodeHash: d.DefaultLockScript.CodeHash,
		HashType: d.DefaultLockScript.HashType,
		Args:     append([]byte{}, pubKeyHash...),
	}
}
