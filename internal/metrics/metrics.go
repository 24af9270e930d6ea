package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a wallet registry.
type Metrics struct {
	supplyUnits     prometheus.Gauge
	liveWallets     prometheus.Gauge
	operationsTotal *prometheus.CounterVec
	rejectedTotal   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		supplyUnits: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_supply_units",
				Help: "Sub-units held by all live wallets",
			},
		),
		liveWallets: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_live_wallets",
				Help: "Number of wallets that have been opened and not yet closed or moved",
			},
		),
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_operations_total",
				Help: "Total number of committed wallet operations by kind",
			},
			[]string{"kind"},
		),
		rejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_operations_rejected_total",
				Help: "Total number of rejected wallet operations by kind and reason",
			},
			[]string{"kind", "reason"},
		),
	}
}

// SetSupply records the current total supply in sub-units.
func (m *Metrics) SetSupply(units int64) {
	m.supplyUnits.Set(float64(units))
}

func (m *Metrics) WalletOpened() {
	m.liveWallets.Inc()
}

func (m *Metrics) WalletClosed() {
	m.liveWallets.Dec()
}

// RecordOperation counts a committed operation.
func (m *Metrics) RecordOperation(kind string) {
	m.operationsTotal.WithLabelValues(kind).Inc()
}

// RecordRejection counts an operation refused before any state changed.
func (m *Metrics) RecordRejection(kind, reason string) {
	m.rejectedTotal.WithLabelValues(kind, reason).Inc()
}
