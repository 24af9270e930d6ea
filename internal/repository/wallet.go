package repository

import (
	"github.com/google/uuid"
)

// SupplyRepository tracks how much of the global supply every live wallet
// holds. The sum of all holdings is the total supply and never exceeds Cap.
type SupplyRepository interface {
	Open(walletID uuid.UUID) error
	Adjust(walletID uuid.UUID, delta int64) (int64, error)
	Transfer(fromID, toID uuid.UUID, amount int64) error
	Release(walletID uuid.UUID) (int64, error)
	Holding(walletID uuid.UUID) (int64, error)
	Total() int64
	Cap() int64
}
