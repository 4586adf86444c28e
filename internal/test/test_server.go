package test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github/chapool/go-ledger-app/internal/api"
	"github/chapool/go-ledger-app/internal/api/router"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/settings"
	"github/chapool/go-ledger-app/internal/ui"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

const (
	// Mnemonic is the well-known all-abandon test vector.
	Mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	// Address is the address of Mnemonic at m/44'/60'/0'/0/0.
	Address = "9858effd232b4033e47d90003d41ec34ecaeda94"
)

// Device bundles a dispatcher with the components it was built from.
type Device struct {
	App      *device.App
	Seed     seed.Manager
	Engine   signer.Engine
	Settings *settings.Memory
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
}

// NewTestDevice returns a dispatcher over the test mnemonic, reviewing with reviewer.
func NewTestDevice(t *testing.T, reviewer ui.Reviewer) *Device {
	t.Helper()

	seedManager := seed.NewManager()
	require.NoError(t, seedManager.Initialize(Mnemonic, ""))
	t.Cleanup(seedManager.Clear)

	engine := signer.NewEngine(seedManager)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := settings.NewMemory()

	app := device.NewApp(DeviceConfig(), signer.NewService(engine), reviewer, store, m)

	return &Device{
		App:      app,
		Seed:     seedManager,
		Engine:   engine,
		Settings: store,
		Registry: registry,
		Metrics:  m,
	}
}

func DeviceConfig() device.Config {
	return device.Config{
		AppName:  "Conflux",
		Version:  "1.2.3",
		Ticker:   "CFX",
		Decimals: 18,
		TxFormat: transaction.FormatBinary,
	}
}

// WithTestServer runs closure against a fully wired server whose reviewer approves everything.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	closure(NewTestServer(t, ui.Static{Approve: true}))
}

func NewTestServer(t *testing.T, reviewer ui.Reviewer) *api.Server {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Logger.PrettyPrintConsole = false
	cfg.Device.Ticker = "CRAB"
	cfg.Device.Decimals = 9

	d := NewTestDevice(t, reviewer)

	s := api.NewServer(cfg)
	s.Seed = d.Seed
	s.Engine = d.Engine
	s.App = d.App
	s.Registry = d.Registry
	s.Metrics = d.Metrics

	router.Init(s)

	return s
}
