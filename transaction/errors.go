package transaction

import (
	"errors"

	"perun.network/perun-ckb-sudt/encoding"
)

var (
	ErrNoInputs           = errors.New("no spendable cells")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrTokenCellTooSmall  = errors.New("token cell capacity below occupied capacity")
	ErrChangeCellTooSmall = errors.New("change below occupied capacity of a change cell")
	ErrCapacityOverflow   = encoding.ErrCapacityOverflow
	ErrNoSUDTDeployment   = errors.New("sUDT code cell unknown")
)
