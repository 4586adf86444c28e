package api

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/device"
	"github/chapool/go-ledger-app/internal/metrics"
	"github/chapool/go-ledger-app/internal/settings"
	"github/chapool/go-ledger-app/internal/ui"
	"github/chapool/go-ledger-app/internal/wallet"
	"github/chapool/go-ledger-app/internal/wallet/keystore"
	"github/chapool/go-ledger-app/internal/wallet/seed"
	"github/chapool/go-ledger-app/internal/wallet/signer"
	"github/chapool/go-ledger-app/internal/wallet/transaction"
)

// InitNewServer returns a new Server with all components but Echo and Router
// initialized according to cfg. The seed is unlocked, prompting on the terminal
// if no password is configured.
func InitNewServer(ctx context.Context, cfg config.Server) (*Server, error) {
	s := NewServer(cfg)

	deviceConfig, err := NewDeviceConfig(cfg.Device)
	if err != nil {
		return nil, err
	}

	reviewer, err := NewReviewer(cfg.Device)
	if err != nil {
		return nil, err
	}

	seedManager, err := NewSeed(ctx, cfg.Wallet)
	if err != nil {
		return nil, err
	}

	s.Seed = seedManager
	s.Registry = NewRegistry()
	s.Metrics = metrics.New(s.Registry)
	s.Engine = signer.NewEngine(seedManager)
	s.App = device.NewApp(deviceConfig, signer.NewService(s.Engine), reviewer, NewSettings(cfg.Device), s.Metrics)

	return s, nil
}

func NewDeviceConfig(cfg config.Device) (device.Config, error) {
	format, err := transaction.ParseFormat(cfg.TxFormat)
	if err != nil {
		return device.Config{}, errors.Wrap(err, "invalid DEVICE_TX_FORMAT")
	}

	return device.Config{
		AppName:  cfg.AppName,
		Version:  cfg.AppVersion,
		Ticker:   cfg.Ticker,
		Decimals: cfg.Decimals,
		TxFormat: format,
	}, nil
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewReviewer(cfg config.Device) (ui.Reviewer, error) {
	switch cfg.Reviewer {
	case config.ReviewerConsole:
		console, err := ui.NewStdioConsole()
		if err != nil {
			return nil, errors.Wrap(err, "console reviewer needs an interactive terminal")
		}
		return console, nil
	case config.ReviewerApprove:
		log.Warn().Msg("Every request is approved without review")
		return ui.Static{Approve: true}, nil
	case config.ReviewerReject:
		return ui.Static{Approve: false}, nil
	default:
		return nil, errors.Errorf("invalid DEVICE_REVIEWER %q", cfg.Reviewer)
	}
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSettings(cfg config.Device) settings.Store {
	if cfg.SettingsFile == "" {
		return settings.NewMemory()
	}
	return settings.NewFile(cfg.SettingsFile)
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSeed(ctx context.Context, cfg config.Wallet) (seed.Manager, error) {
	seedManager := seed.NewManager()

	if err := wallet.InitializeSeed(ctx, cfg, seedManager, NewKeystore(cfg), wallet.TerminalPrompt); err != nil {
		return nil, errors.Wrap(err, "failed to unlock seed")
	}

	return seedManager, nil
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewKeystore(cfg config.Wallet) keystore.Service {
	if cfg.LightScrypt {
		return keystore.NewService(keystore.LightScryptParams())
	}
	return keystore.NewService(keystore.DefaultScryptParams())
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
