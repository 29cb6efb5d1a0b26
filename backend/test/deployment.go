package test

import (
	"math/rand"

	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"perun.network/perun-ckb-sudt/backend"
)

func NewRandomDeployment(rng *rand.Rand, opt ...DeploymentOpt) *backend.Deployment {
	d := &backend.Deployment{
		Network:              types.NetworkTest,
		SUDTDep:              *NewRandomCellDep(rng),
		SUDTCodeHash:         NewRandomHash(rng),
		SUDTHashType:         types.HashTypeData,
		DefaultLockScript:    *NewRandomScriptWithHashType(rng, types.HashTypeType),
		DefaultLockScriptDep: *NewRandomDepGroup(rng),
	}
	for _, o := range opt {
		o(d)
	}
	return d
}

type DeploymentOpt func(*backend.Deployment)

func WithNetwork(network types.Network) DeploymentOpt {
	return func(d *backend.Deployment) {
		d.Network = network
	}
}

func WithSUDT(h types.Hash, dep types.CellDep) DeploymentOpt {
	return func(d *backend.Deployment) {
		d.SUDTCodeHash = h
		d.SUDTDep = dep
		d.SUDTHashType = types.HashTypeData
	}
}

func WithDefaultLockScript(s types.Script, dep types.CellDep) DeploymentOpt {
	return func(d *backend.Deployment) {
		d.DefaultLockScript = s
		d.DefaultLockScriptDep = dep
	}
}
