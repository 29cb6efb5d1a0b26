package backend

import (
	"errors"

	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
)

var ErrRecordFieldSet = errors.New("record field already set")

// Record holds the results of the deployment steps run so far. A Record is
// never mutated: every step returns a new Record with one more field set.
type Record struct {
	DeployTxHash   *types.Hash
	SUDTTypeScript *types.Script
	IssueTxHash    *types.Hash
}

// WithDeployment returns a copy of r holding the hash of the transaction that
// deployed the sUDT binary.
func (r Record) WithDeployment(txHash types.Hash) (Record, error) {
	if r.DeployTxHash != nil && *r.DeployTxHash != txHash {
		return r, ErrRecordFieldSet
	}
	r.DeployTxHash = &txHash
	return r, nil
}

// WithTypeScript returns a copy of r holding the derived sUDT type script.
func (r Record) WithTypeScript(script *types.Script) (Record, error) {
	if r.SUDTTypeScript != nil && !r.SUDTTypeScript.Equals(script) {
		return r, ErrRecordFieldSet
	}
	s := *script
	s.Args = append([]byte{}, script.Args...)
	r.SUDTTypeScript = &s
	return r, nil
}

// WithIssue returns a copy of r holding the hash of the issuance transaction.
func (r Record) WithIssue(txHash types.Hash) (Record, error) {
	if r.IssueTxHash != nil && *r.IssueTxHash != txHash {
		return r, ErrRecordFieldSet
	}
	r.IssueTxHash = &txHash
	return r, nil
}
