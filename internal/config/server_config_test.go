package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/config"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestSecretsAreNotPrinted(t *testing.T) {
	t.Setenv("WALLET_PASSWORD", "hunter2")
	t.Setenv("WALLET_MNEMONIC", "abandon abandon")

	cfg := config.DefaultServiceConfigFromEnv()
	assert.Equal(t, "hunter2", cfg.Wallet.Password)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
	assert.NotContains(t, string(out), "abandon")
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_LOGGER_LEVEL", "debug")
	t.Setenv("DEVICE_TX_FORMAT", "RLP")
	t.Setenv("DEVICE_DECIMALS", "9")
	t.Setenv("SERVER_MANAGEMENT_READINESS_TIMEOUT", "250ms")
	t.Setenv("SERVER_TCP_ENABLED", "false")

	cfg := config.DefaultServiceConfigFromEnv()
	assert.Equal(t, zerolog.DebugLevel, cfg.Logger.Level)
	assert.Equal(t, "rlp", cfg.Device.TxFormat)
	assert.Equal(t, int32(9), cfg.Device.Decimals)
	assert.Equal(t, 250*time.Millisecond, cfg.Management.ReadinessTimeout)
	assert.False(t, cfg.TCP.Enabled)
}

func TestUnknownLogLevelFallsBack(t *testing.T) {
	t.Setenv("SERVER_LOGGER_LEVEL", "chatty")

	cfg := config.DefaultServiceConfigFromEnv()
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
}

func TestFormattedBuildArgs(t *testing.T) {
	assert.Contains(t, config.GetFormattedBuildArgs(), config.ModuleName)
}
