package test

import (
	"fmt"

	"perun.network/perun-ckb-sudt/wallet"
)

// Keys of the development chain accounts used by the deployment scripts.
const (
	SenderKey    = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2bc"
	RecipientKey = "d00c06bfd800d27397002dca6fb0993d5ba6399b4238b2f29ee9deb97593d2b0"
)

func NewRandomAccount() *wallet.Account {
	acc, err := wallet.NewAccount()
	if err != nil {
		panic(fmt.Sprintf("generating secp256k1 private key: %v", err))
	}
	return acc
}

func MustAccountFromHex(hexKey string) *wallet.Account {
	acc, err := wallet.NewAccountFromHex(hexKey)
	if err != nil {
		panic(err)
	}
	return acc
}
