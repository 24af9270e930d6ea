package repository

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"WalletSupply/internal/model"
)

type MemoryRepository struct {
	mu       sync.Mutex
	holdings map[uuid.UUID]int64
	total    int64
	cap      int64
}

// NewMemoryRepository creates a repository whose total supply may not exceed
// capUnits sub-units.
func NewMemoryRepository(capUnits int64) *MemoryRepository {
	return &MemoryRepository{
		holdings: make(map[uuid.UUID]int64),
		cap:      capUnits,
	}
}

func (r *MemoryRepository) Open(walletID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.holdings[walletID]; exists {
		return fmt.Errorf("%w: %s", model.ErrWalletExists, walletID)
	}
	r.holdings[walletID] = 0
	return nil
}

// Adjust changes the holding of a wallet by delta sub-units and returns the
// new total supply. Nothing changes when an error is returned.
func (r *MemoryRepository) Adjust(walletID uuid.UUID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 1. Checking the wallet's existence
	holding, ok := r.holdings[walletID]
	if !ok {
		return r.total, fmt.Errorf("%w: %s", model.ErrWalletNotFound, walletID)
	}

	// 2. We check whether the wallet holds enough to debit
	if delta < 0 && holding < -delta {
		return r.total, fmt.Errorf("%w: holding %d, debit %d", model.ErrUnderflow, holding, -delta)
	}

	// 3. We check whether the credit fits under the cap
	if delta > 0 && delta > r.cap-r.total {
		return r.total, fmt.Errorf("%w: total %d, credit %d, cap %d", model.ErrOverflow, r.total, delta, r.cap)
	}

	// 4. Committing
	r.holdings[walletID] = holding + delta
	r.total += delta
	return r.total, nil
}

// Transfer moves amount sub-units of holding between two wallets. The total
// supply is unchanged.
func (r *MemoryRepository) Transfer(fromID, toID uuid.UUID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative transfer %d", model.ErrInvalidArgument, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	from, ok := r.holdings[fromID]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrWalletNotFound, fromID)
	}
	to, ok := r.holdings[toID]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrWalletNotFound, toID)
	}
	if from < amount {
		return fmt.Errorf("%w: holding %d, transfer %d", model.ErrUnderflow, from, amount)
	}

	if fromID == toID {
		return nil
	}
	r.holdings[fromID] = from - amount
	r.holdings[toID] = to + amount
	return nil
}

// Release forgets a wallet and returns the holding it gave back to the supply.
func (r *MemoryRepository) Release(walletID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	holding, ok := r.holdings[walletID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", model.ErrWalletNotFound, walletID)
	}
	delete(r.holdings, walletID)
	r.total -= holding
	return holding, nil
}

func (r *MemoryRepository) Holding(walletID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	holding, ok := r.holdings[walletID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", model.ErrWalletNotFound, walletID)
	}
	return holding, nil
}

func (r *MemoryRepository) Total() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

func (r *MemoryRepository) Cap() int64 {
	return r.cap
}
