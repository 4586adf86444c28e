package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type EchoServer struct {
	Debug         bool
	ListenAddress string
}

type TCPServer struct {
	Enabled       bool
	ListenAddress string
}

type LoggerServer struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

type Management struct {
	ProbeBaseURL     string
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

// Device configures the signing application itself.
type Device struct {
	AppName      string
	AppVersion   string
	Ticker       string
	Decimals     int32
	TxFormat     string
	Reviewer     string
	SettingsFile string
}

// Wallet configures where the seed comes from. Mnemonic takes precedence over the keystore.
type Wallet struct {
	KeystoreFile string
	Password     string `json:"-"`
	Mnemonic     string `json:"-"`
	Passphrase   string `json:"-"`
	LightScrypt  bool
}

type Server struct {
	Echo       EchoServer
	TCP        TCPServer
	Logger     LoggerServer
	Management Management
	Device     Device
	Wallet     Wallet
}

const (
	ReviewerConsole = "console"
	ReviewerApprove = "approve"
	ReviewerReject  = "reject"

	dotEnvFile = ".env"
)

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below. An optional .env file in the working directory
// is loaded first and never overrides variables already set.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
func DefaultServiceConfigFromEnv() Server {
	if err := loadDotEnv(dotEnvFile); err != nil {
		log.Warn().Err(err).Str("file", dotEnvFile).Msg("Failed to load dotenv file")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Server{
		Echo: EchoServer{
			Debug:         v.GetBool("SERVER_ECHO_DEBUG"),
			ListenAddress: v.GetString("SERVER_ECHO_LISTEN_ADDRESS"),
		},
		TCP: TCPServer{
			Enabled:       v.GetBool("SERVER_TCP_ENABLED"),
			ListenAddress: v.GetString("SERVER_TCP_LISTEN_ADDRESS"),
		},
		Logger: LoggerServer{
			Level:              parseLevel(v.GetString("SERVER_LOGGER_LEVEL")),
			PrettyPrintConsole: v.GetBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE"),
		},
		Management: Management{
			ProbeBaseURL:     v.GetString("SERVER_MANAGEMENT_PROBE_BASE_URL"),
			ReadinessTimeout: v.GetDuration("SERVER_MANAGEMENT_READINESS_TIMEOUT"),
			LivenessTimeout:  v.GetDuration("SERVER_MANAGEMENT_LIVENESS_TIMEOUT"),
		},
		Device: Device{
			AppName:      v.GetString("DEVICE_APP_NAME"),
			AppVersion:   v.GetString("DEVICE_APP_VERSION"),
			Ticker:       v.GetString("DEVICE_TICKER"),
			Decimals:     v.GetInt32("DEVICE_DECIMALS"),
			TxFormat:     strings.ToLower(v.GetString("DEVICE_TX_FORMAT")),
			Reviewer:     strings.ToLower(v.GetString("DEVICE_REVIEWER")),
			SettingsFile: v.GetString("DEVICE_SETTINGS_FILE"),
		},
		Wallet: Wallet{
			KeystoreFile: v.GetString("WALLET_KEYSTORE_FILE"),
			Password:     v.GetString("WALLET_PASSWORD"),
			Mnemonic:     v.GetString("WALLET_MNEMONIC"),
			Passphrase:   v.GetString("WALLET_PASSPHRASE"),
			LightScrypt:  v.GetBool("WALLET_LIGHT_SCRYPT"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ECHO_DEBUG", false)
	v.SetDefault("SERVER_ECHO_LISTEN_ADDRESS", ":8080")
	v.SetDefault("SERVER_TCP_ENABLED", true)
	v.SetDefault("SERVER_TCP_LISTEN_ADDRESS", ":9999")
	v.SetDefault("SERVER_LOGGER_LEVEL", zerolog.InfoLevel.String())
	v.SetDefault("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false)
	v.SetDefault("SERVER_MANAGEMENT_PROBE_BASE_URL", "http://127.0.0.1:8080")
	v.SetDefault("SERVER_MANAGEMENT_READINESS_TIMEOUT", 4*time.Second) //nolint:mnd
	v.SetDefault("SERVER_MANAGEMENT_LIVENESS_TIMEOUT", 2*time.Second)  //nolint:mnd
	v.SetDefault("DEVICE_APP_NAME", "Conflux")
	v.SetDefault("DEVICE_APP_VERSION", "1.0.0")
	v.SetDefault("DEVICE_TICKER", "CFX")
	v.SetDefault("DEVICE_DECIMALS", 18) //nolint:mnd
	v.SetDefault("DEVICE_TX_FORMAT", "binary")
	v.SetDefault("DEVICE_REVIEWER", ReviewerConsole)
	v.SetDefault("DEVICE_SETTINGS_FILE", "settings.toml")
	v.SetDefault("WALLET_KEYSTORE_FILE", "keystore.json")
	v.SetDefault("WALLET_LIGHT_SCRYPT", false)
}

func parseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("level", s).Msg("Unknown log level, falling back to info")
		return zerolog.InfoLevel
	}
	return level
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := gotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}
