package model

import (
	"errors"
	"math"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOverflow        = errors.New("global supply overflow")
	ErrUnderflow       = errors.New("balance underflow")
	ErrIndexOutOfRange = errors.New("operation index out of range")
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrWalletExists    = errors.New("wallet already registered")
	ErrWalletClosed    = errors.New("wallet closed")
	ErrWalletMoved     = errors.New("wallet moved")
	ErrReadOnly        = errors.New("wallet is read-only")
)

const (
	// UnitsInB is the number of sub-units in one whole B.
	UnitsInB int64 = 100_000_000

	// MaxSupplyWhole is the global supply ceiling in whole units.
	MaxSupplyWhole int64 = 21_000_000

	// MaxSupplyUnits is the global supply ceiling in sub-units.
	MaxSupplyUnits = MaxSupplyWhole * UnitsInB

	// MaxWholeDelta is the largest whole-unit amount whose sub-unit value fits in an int64.
	MaxWholeDelta = math.MaxInt64 / UnitsInB
)

type OperationType string

const (
	Create      OperationType = "CREATE"
	Deposit     OperationType = "DEPOSIT"
	Withdraw    OperationType = "WITHDRAW"
	TransferIn  OperationType = "TRANSFER_IN"
	TransferOut OperationType = "TRANSFER_OUT"
	Scale       OperationType = "SCALE"
	Move        OperationType = "MOVE"
	Merge       OperationType = "MERGE"
)

// WholeToUnits converts a signed whole-unit count into sub-units. Amounts too
// large to represent report ErrOverflow when positive and ErrUnderflow when
// negative, since no wallet can hold or lose that much.
func WholeToUnits(n int64) (int64, error) {
	if n > MaxWholeDelta {
		return 0, ErrOverflow
	}
	if n < -MaxWholeDelta {
		return 0, ErrUnderflow
	}
	return n * UnitsInB, nil
}
