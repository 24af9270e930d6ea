package wallet

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"WalletSupply/internal/config"
	"WalletSupply/internal/logging"
	"WalletSupply/internal/metrics"
	"WalletSupply/internal/repository"
)

var defaultRegistry = sync.OnceValue(func() *Registry {
	cfg, err := config.Load()
	if err != nil {
		fallback := config.Defaults()
		logging.New(fallback.LogLevel).Warn("load wallet config, using defaults", "error", err)
		cfg = fallback
	}

	return NewRegistry(
		repository.NewMemoryRepository(cfg.SupplyCapUnits),
		WithLogger(logging.New(cfg.LogLevel)),
		WithMetrics(metrics.NewMetrics(prometheus.DefaultRegisterer)),
	)
})

var empty = sync.OnceValue(func() *Wallet {
	w, err := Default().New()
	if err != nil {
		panic("wallet: open empty wallet: " + err.Error())
	}
	w.readOnly = true
	return w
})

// Default returns the process-wide registry, configured from the
// environment on first use.
func Default() *Registry {
	return defaultRegistry()
}

// Empty returns the shared zero-balance wallet. It is read-only: every
// mutation, Move, Merge or Close of it fails with model.ErrReadOnly.
func Empty() *Wallet {
	return empty()
}

func New() (*Wallet, error) {
	return Default().New()
}

func FromWhole(n int64) (*Wallet, error) {
	return Default().FromWhole(n)
}

func Parse(s string) (*Wallet, error) {
	return Default().Parse(s)
}

func FromBinary(s string) (*Wallet, error) {
	return Default().FromBinary(s)
}
