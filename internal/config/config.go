package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"WalletSupply/internal/model"
)

const (
	defaultLogLevel   = "info"
	logLevelEnvVar    = "WALLET_LOG_LEVEL"
	supplyCapEnvVar   = "WALLET_SUPPLY_CAP"
	defaultSupplyCapB = model.MaxSupplyWhole
)

// Config captures the settings of the process-wide wallet registry.
type Config struct {
	LogLevel string
	// SupplyCapUnits is the global supply ceiling in sub-units.
	SupplyCapUnits int64
}

// Defaults returns the configuration used when the environment sets nothing.
func Defaults() Config {
	return Config{
		LogLevel:       defaultLogLevel,
		SupplyCapUnits: defaultSupplyCapB * model.UnitsInB,
	}
}

// Load reads configuration values from the environment. WALLET_SUPPLY_CAP is
// given in whole units.
func Load() (Config, error) {
	cfg := Defaults()
	cfg.LogLevel = strings.ToLower(getEnv(logLevelEnvVar, defaultLogLevel))

	if v := os.Getenv(supplyCapEnvVar); v != "" {
		whole, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", supplyCapEnvVar, err)
		}
		if whole <= 0 || whole > model.MaxWholeDelta {
			return Config{}, fmt.Errorf("invalid %s: %d out of range", supplyCapEnvVar, whole)
		}
		cfg.SupplyCapUnits = whole * model.UnitsInB
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
