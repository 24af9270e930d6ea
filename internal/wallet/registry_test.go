package wallet_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"WalletSupply/internal/logging"
	"WalletSupply/internal/metrics"
	"WalletSupply/internal/model"
	"WalletSupply/internal/repository"
	"WalletSupply/internal/wallet"
)

// MockClock implements wallet.Clock
type MockClock struct {
	mock.Mock
}

func (m *MockClock) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func TestRegistry_StampsOperationsWithClock(t *testing.T) {
	created := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	deposited := time.Date(2024, time.March, 16, 9, 0, 0, 0, time.UTC)

	clock := new(MockClock)
	clock.On("Now").Return(created).Once()
	clock.On("Now").Return(deposited).Once()

	r := wallet.NewRegistry(repository.NewMemoryRepository(model.MaxSupplyUnits), wallet.WithClock(clock))

	w, err := r.FromWhole(3)
	require.NoError(t, err)
	require.NoError(t, w.Add(1))

	first, _ := w.At(0)
	second, _ := w.At(1)
	assert.Equal(t, created, first.Time())
	assert.Equal(t, deposited, second.Time())
	assert.Equal(t, "Wallet balance is 300000000 sub-units after operation made at day 2024-03-15", first.String())
	assert.Equal(t, "Wallet balance is 400000000 sub-units after operation made at day 2024-03-16", second.String())

	clock.AssertExpectations(t)
}

func TestRegistry_RejectedOperationsAreNotStamped(t *testing.T) {
	clock := new(MockClock)
	clock.On("Now").Return(time.Now())

	r := wallet.NewRegistry(repository.NewMemoryRepository(model.MaxSupplyUnits), wallet.WithClock(clock))

	w, err := r.FromWhole(1)
	require.NoError(t, err)
	assert.ErrorIs(t, w.Sub(2), model.ErrUnderflow)
	_, err = r.Parse("abcd")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	clock.AssertNumberOfCalls(t, "Now", 1)
}

func TestRegistry_Logging(t *testing.T) {
	var buf bytes.Buffer
	r := wallet.NewRegistry(
		repository.NewMemoryRepository(model.MaxSupplyUnits),
		wallet.WithLogger(logging.NewWriter(&buf, "debug")),
	)

	w, err := r.FromWhole(2)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"wallet operation"`)
	assert.Contains(t, buf.String(), `"kind":"CREATE"`)
	assert.Contains(t, buf.String(), `"wallet_id":"`+w.ID().String()+`"`)

	buf.Reset()
	require.Error(t, w.Sub(3))
	assert.Contains(t, buf.String(), `"msg":"wallet operation rejected"`)
	assert.Contains(t, buf.String(), `"kind":"WITHDRAW"`)

	buf.Reset()
	require.NoError(t, w.Close())
	assert.Contains(t, buf.String(), `"msg":"wallet closed"`)
}

func TestRegistry_LoggingRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	r := wallet.NewRegistry(
		repository.NewMemoryRepository(model.MaxSupplyUnits),
		wallet.WithLogger(logging.NewWriter(&buf, "info")),
	)

	w, err := r.FromWhole(2)
	require.NoError(t, err)
	require.NoError(t, w.Add(1))

	assert.Empty(t, buf.String())
}

func TestRegistry_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := wallet.NewRegistry(
		repository.NewMemoryRepository(model.MaxSupplyUnits),
		wallet.WithMetrics(metrics.NewMetrics(reg)),
	)

	a, err := r.FromWhole(3)
	require.NoError(t, err)
	b, err := r.FromWhole(2)
	require.NoError(t, err)
	require.NoError(t, a.Add(1))
	_, err = r.FromWhole(-1)
	require.Error(t, err)

	expected := `
# HELP wallet_live_wallets Number of wallets that have been opened and not yet closed or moved
# TYPE wallet_live_wallets gauge
wallet_live_wallets 2
# HELP wallet_operations_rejected_total Total number of rejected wallet operations by kind and reason
# TYPE wallet_operations_rejected_total counter
wallet_operations_rejected_total{kind="CREATE",reason="underflow"} 1
# HELP wallet_operations_total Total number of committed wallet operations by kind
# TYPE wallet_operations_total counter
wallet_operations_total{kind="CREATE"} 2
wallet_operations_total{kind="DEPOSIT"} 1
# HELP wallet_supply_units Sub-units held by all live wallets
# TYPE wallet_supply_units gauge
wallet_supply_units 6e+08
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"wallet_live_wallets",
		"wallet_operations_rejected_total",
		"wallet_operations_total",
		"wallet_supply_units",
	))

	merged, err := wallet.Merge(a, b)
	require.NoError(t, err)
	liveAfterMerge := `
# HELP wallet_live_wallets Number of wallets that have been opened and not yet closed or moved
# TYPE wallet_live_wallets gauge
wallet_live_wallets 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(liveAfterMerge), "wallet_live_wallets"))

	require.NoError(t, merged.Close())
	drained := `
# HELP wallet_live_wallets Number of wallets that have been opened and not yet closed or moved
# TYPE wallet_live_wallets gauge
wallet_live_wallets 0
# HELP wallet_supply_units Sub-units held by all live wallets
# TYPE wallet_supply_units gauge
wallet_supply_units 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(drained),
		"wallet_live_wallets",
		"wallet_supply_units",
	))
}
