package wallet

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"WalletSupply/internal/model"
)

var (
	unitsPerB = decimal.NewFromInt(model.UnitsInB)
	maxWhole  = decimal.NewFromInt(model.MaxWholeDelta)
)

// Move opens a wallet that takes over the balance and history of src and
// records the move. src is left empty and can only be closed afterwards.
func Move(src *Wallet) (*Wallet, error) {
	if err := src.mutable(); err != nil {
		return nil, src.rejectNow(model.Move, err)
	}

	r := src.registry
	dst, err := r.adopt()
	if err != nil {
		return nil, err
	}
	if err := r.repo.Transfer(src.id, dst.id, src.units); err != nil {
		r.abandon(dst)
		return nil, err
	}
	r.retire(src)

	dst.units = src.units
	dst.operations = src.operations
	src.consume()

	dst.record(model.Move)
	r.committed(dst, model.Move, r.repo.Total())
	return dst, nil
}

// Merge opens a wallet holding the balances of a and b. The two histories
// are folded into one in the order the records were made, followed by a
// record of the merged balance. a and b are left empty.
func Merge(a, b *Wallet) (*Wallet, error) {
	if a == b {
		return nil, a.rejectNow(model.Merge, fmt.Errorf("%w: cannot merge a wallet with itself", model.ErrInvalidArgument))
	}
	if err := a.transferable(b, model.Merge); err != nil {
		return nil, err
	}

	r := a.registry
	dst, err := r.adopt()
	if err != nil {
		return nil, err
	}
	if err := r.repo.Transfer(a.id, dst.id, a.units); err != nil {
		r.abandon(dst)
		return nil, err
	}
	if err := r.repo.Transfer(b.id, dst.id, b.units); err != nil {
		if undoErr := r.repo.Transfer(dst.id, a.id, a.units); undoErr != nil {
			err = errors.Join(err, undoErr)
		}
		r.abandon(dst)
		return nil, err
	}
	r.retire(a)
	r.retire(b)

	operations := make([]model.Operation, 0, len(a.operations)+len(b.operations)+1)
	operations = append(operations, a.operations...)
	operations = append(operations, b.operations...)
	slices.SortStableFunc(operations, model.Operation.Compare)

	dst.units = a.units + b.units
	dst.operations = operations
	a.consume()
	b.consume()

	dst.record(model.Merge)
	r.committed(dst, model.Merge, r.repo.Total())
	return dst, nil
}

// Sum transfers b's whole units into a, then moves a into the result. b stays
// live with whatever sub-units it could not give away.
func Sum(a, b *Wallet) (*Wallet, error) {
	if err := a.AddWallet(b); err != nil {
		return nil, err
	}
	return Move(a)
}

// Difference transfers from a into b as many whole units as b holds, then
// moves what is left of a into the result.
func Difference(a, b *Wallet) (*Wallet, error) {
	if err := a.SubWallet(b); err != nil {
		return nil, err
	}
	return Move(a)
}

// Product scales w by n and moves the result into a new wallet. Scaling
// commutes, so the same call serves n*w.
func Product(w *Wallet, n int64) (*Wallet, error) {
	if err := w.Mul(n); err != nil {
		return nil, err
	}
	return Move(w)
}

func scaleDelta(units, n int64) (int64, error) {
	u := decimal.NewFromInt(units)
	q, _ := decimal.NewFromInt(n).Mul(u).Sub(u).QuoRem(unitsPerB, 0)
	if q.GreaterThan(maxWhole) {
		return 0, fmt.Errorf("%w: scaling %d sub-units by %d", model.ErrOverflow, units, n)
	}
	if q.LessThan(maxWhole.Neg()) {
		return 0, fmt.Errorf("%w: scaling %d sub-units by %d", model.ErrUnderflow, units, n)
	}
	return q.IntPart(), nil
}

// retire unregisters a source whose holding has been transferred away.
func (r *Registry) retire(src *Wallet) {
	if _, err := r.repo.Release(src.id); err != nil {
		r.logger.Error("release moved wallet", "wallet_id", src.id, "error", err)
	}
}

// abandon unregisters a wallet opened by adopt that never took a balance.
func (r *Registry) abandon(w *Wallet) {
	if _, err := r.repo.Release(w.id); err != nil {
		r.logger.Error("release abandoned wallet", "wallet_id", w.id, "error", err)
	}
	r.metrics.WalletClosed()
}

func (w *Wallet) consume() {
	w.units = 0
	w.operations = nil
	w.state = moved
	w.registry.metrics.WalletClosed()
}
