package wallet

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"WalletSupply/internal/logging"
	"WalletSupply/internal/metrics"
	"WalletSupply/internal/model"
	"WalletSupply/internal/repository"
)

// Clock stamps operation records.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Registry owns the supply accounting shared by a family of wallets. Every
// wallet belongs to exactly one registry for its whole life.
type Registry struct {
	repo    repository.SupplyRepository
	clock   Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Registry)

func WithClock(clock Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// NewRegistry creates a registry accounting supply in repo. Without options
// it uses the system clock, discards logs and registers metrics on a private
// Prometheus registry.
func NewRegistry(repo repository.SupplyRepository, opts ...Option) *Registry {
	r := &Registry{
		repo:   repo,
		clock:  systemClock{},
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}
	return r
}

// TotalSupply returns the sub-units held by all live wallets of the registry.
func (r *Registry) TotalSupply() int64 {
	return r.repo.Total()
}

// Cap returns the supply ceiling in sub-units.
func (r *Registry) Cap() int64 {
	return r.repo.Cap()
}

// New opens a wallet with a zero balance.
func (r *Registry) New() (*Wallet, error) {
	return r.open(0)
}

// FromWhole opens a wallet holding n whole units.
func (r *Registry) FromWhole(n int64) (*Wallet, error) {
	return r.Open(WholeUnits(n))
}

// Parse opens a wallet from a decimal amount such as " 1.2000 " or "1,2".
func (r *Registry) Parse(s string) (*Wallet, error) {
	return r.Open(DecimalString(s))
}

// FromBinary opens a wallet holding the whole-unit count written in base 2.
func (r *Registry) FromBinary(s string) (*Wallet, error) {
	return r.Open(BinaryString(s))
}

// Open opens a wallet holding amount.
func (r *Registry) Open(amount Amount) (*Wallet, error) {
	units, err := amount.subUnits()
	if err != nil {
		r.reject(uuid.Nil, model.Create, err)
		return nil, err
	}
	return r.open(units)
}

// open registers a fresh wallet and funds it through the shared balance
// primitive. A rejected balance unregisters the wallet again, so a failed
// construction leaves the supply as it was.
func (r *Registry) open(units int64) (*Wallet, error) {
	w := &Wallet{
		id:       uuid.New(),
		registry: r,
	}
	if err := r.repo.Open(w.id); err != nil {
		return nil, err
	}
	if err := w.apply(model.Create, units); err != nil {
		if _, releaseErr := r.repo.Release(w.id); releaseErr != nil {
			return nil, errors.Join(err, releaseErr)
		}
		return nil, err
	}
	r.metrics.WalletOpened()
	return w, nil
}

// adopt registers an empty wallet that is about to take over the balance of
// one or more sources.
func (r *Registry) adopt() (*Wallet, error) {
	w := &Wallet{
		id:       uuid.New(),
		registry: r,
	}
	if err := r.repo.Open(w.id); err != nil {
		return nil, err
	}
	r.metrics.WalletOpened()
	return w, nil
}

func (r *Registry) committed(w *Wallet, kind model.OperationType, total int64) {
	r.metrics.RecordOperation(string(kind))
	r.metrics.SetSupply(total)
	r.logger.Debug("wallet operation",
		"wallet_id", w.id,
		"kind", kind,
		"units", w.units,
		"total_supply", total,
	)
}

func (r *Registry) reject(walletID uuid.UUID, kind model.OperationType, err error) {
	r.metrics.RecordRejection(string(kind), reason(err))
	r.logger.Debug("wallet operation rejected",
		"wallet_id", walletID,
		"kind", kind,
		"error", err,
	)
}

func reason(err error) string {
	switch {
	case errors.Is(err, model.ErrOverflow):
		return "overflow"
	case errors.Is(err, model.ErrUnderflow):
		return "underflow"
	case errors.Is(err, model.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, model.ErrReadOnly):
		return "read_only"
	case errors.Is(err, model.ErrWalletClosed), errors.Is(err, model.ErrWalletMoved):
		return "not_live"
	default:
		return "other"
	}
}
