package wallet

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"WalletSupply/internal/model"
)

type state int

const (
	live state = iota
	moved
	closed
)

// noCopy makes go vet report copies of a Wallet. A copy would count the
// same holding twice against the supply.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Wallet holds a balance in sub-units and the history of every balance
// change. Wallets are move-only: pass *Wallet, and use Move or Merge to hand a
// balance to a new wallet. Close returns the balance to the supply.
//
// A Wallet is not safe for concurrent use.
type Wallet struct {
	_ noCopy

	id         uuid.UUID
	units      int64
	operations []model.Operation
	registry   *Registry
	state      state
	readOnly   bool
}

func (w *Wallet) ID() uuid.UUID { return w.id }

// Units returns the balance in sub-units.
func (w *Wallet) Units() int64 { return w.units }

// OpSize returns the number of operation records.
func (w *Wallet) OpSize() int { return len(w.operations) }

// At returns the i-th operation record, oldest first.
func (w *Wallet) At(i int) (model.Operation, error) {
	if i < 0 || i >= len(w.operations) {
		return model.Operation{}, fmt.Errorf("%w: %d of %d", model.ErrIndexOutOfRange, i, len(w.operations))
	}
	return w.operations[i], nil
}

// Operations returns a copy of the history, oldest first.
func (w *Wallet) Operations() []model.Operation {
	return slices.Clone(w.operations)
}

// Add credits n whole units; a negative n debits.
func (w *Wallet) Add(n int64) error {
	kind := model.Deposit
	if n < 0 {
		kind = model.Withdraw
	}
	return w.applyWhole(kind, n)
}

// Sub debits n whole units.
func (w *Wallet) Sub(n int64) error {
	if n == math.MinInt64 {
		return w.rejectNow(model.Deposit, fmt.Errorf("%w: %d B", model.ErrOverflow, n))
	}
	return w.Add(-n)
}

// AddWallet moves the whole-unit part of rhs into w. Sub-units below one B
// stay in rhs. rhs is debited before w is credited, so the transfer never
// needs spare room under the cap.
func (w *Wallet) AddWallet(rhs *Wallet) error {
	if err := w.transferable(rhs, model.TransferIn); err != nil {
		return err
	}
	k := rhs.units / model.UnitsInB
	if err := rhs.applyWhole(model.TransferOut, -k); err != nil {
		return err
	}
	return w.applyWhole(model.TransferIn, k)
}

// SubWallet moves from w into rhs as many whole units as rhs holds. It is a
// transfer out of w, not a subtraction of balances.
func (w *Wallet) SubWallet(rhs *Wallet) error {
	if err := w.transferable(rhs, model.TransferOut); err != nil {
		return err
	}
	k := rhs.units / model.UnitsInB
	if err := w.applyWhole(model.TransferOut, -k); err != nil {
		return err
	}
	return rhs.applyWhole(model.TransferIn, k)
}

// Mul scales the balance by n, to whole-unit precision: the balance changes
// by (n*units - units) / UnitsInB whole units, truncated toward zero.
func (w *Wallet) Mul(n int64) error {
	delta, err := scaleDelta(w.units, n)
	if err != nil {
		return w.rejectNow(model.Scale, err)
	}
	return w.applyWhole(model.Scale, delta)
}

// Close returns the balance of w to the supply. Closing a closed or moved
// wallet does nothing.
func (w *Wallet) Close() error {
	if w.readOnly {
		return model.ErrReadOnly
	}
	if w.state != live {
		return nil
	}
	if _, err := w.registry.repo.Release(w.id); err != nil {
		return err
	}
	w.state = closed
	w.registry.metrics.WalletClosed()
	w.registry.metrics.SetSupply(w.registry.repo.Total())
	w.registry.logger.Debug("wallet closed", "wallet_id", w.id, "units", w.units)
	return nil
}

// Compare orders wallets by balance.
func (w *Wallet) Compare(other *Wallet) int {
	return cmp.Compare(w.units, other.units)
}

func (w *Wallet) Equal(other *Wallet) bool          { return w.Compare(other) == 0 }
func (w *Wallet) Less(other *Wallet) bool           { return w.Compare(other) < 0 }
func (w *Wallet) LessOrEqual(other *Wallet) bool    { return w.Compare(other) <= 0 }
func (w *Wallet) Greater(other *Wallet) bool        { return w.Compare(other) > 0 }
func (w *Wallet) GreaterOrEqual(other *Wallet) bool { return w.Compare(other) >= 0 }

// EqualWhole reports whether the balance is exactly n whole units.
func (w *Wallet) EqualWhole(n int64) bool {
	return w.units%model.UnitsInB == 0 && w.units/model.UnitsInB == n
}

func (w *Wallet) String() string {
	return fmt.Sprintf("Wallet[%d B]", w.units/model.UnitsInB)
}

func (w *Wallet) applyWhole(kind model.OperationType, n int64) error {
	delta, err := model.WholeToUnits(n)
	if err != nil {
		return w.rejectNow(kind, fmt.Errorf("%w: %d B", err, n))
	}
	return w.apply(kind, delta)
}

// apply is the single path through which balances change: check underflow,
// check overflow, commit, record. Nothing changes when it fails.
func (w *Wallet) apply(kind model.OperationType, delta int64) error {
	if err := w.mutable(); err != nil {
		return w.rejectNow(kind, err)
	}
	if delta < 0 && -delta > w.units {
		return w.rejectNow(kind, fmt.Errorf("%w: balance %d, debit %d", model.ErrUnderflow, w.units, -delta))
	}
	if delta > 0 && delta > w.registry.repo.Cap()-w.units {
		return w.rejectNow(kind, fmt.Errorf("%w: balance %d, credit %d", model.ErrOverflow, w.units, delta))
	}

	total, err := w.registry.repo.Adjust(w.id, delta)
	if err != nil {
		return w.rejectNow(kind, err)
	}

	w.units += delta
	w.record(kind)
	w.registry.committed(w, kind, total)
	return nil
}

func (w *Wallet) record(kind model.OperationType) {
	w.operations = append(w.operations, model.NewOperation(kind, w.units, w.registry.clock.Now()))
}

func (w *Wallet) rejectNow(kind model.OperationType, err error) error {
	w.registry.reject(w.id, kind, err)
	return err
}

func (w *Wallet) mutable() error {
	switch {
	case w.readOnly:
		return model.ErrReadOnly
	case w.state == moved:
		return model.ErrWalletMoved
	case w.state == closed:
		return model.ErrWalletClosed
	}
	return nil
}

func (w *Wallet) transferable(rhs *Wallet, kind model.OperationType) error {
	if err := w.mutable(); err != nil {
		return w.rejectNow(kind, err)
	}
	if err := rhs.mutable(); err != nil {
		return w.rejectNow(kind, err)
	}
	if w.registry != rhs.registry {
		return w.rejectNow(kind, fmt.Errorf("%w: wallets belong to different registries", model.ErrInvalidArgument))
	}
	return nil
}
