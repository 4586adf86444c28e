package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-ledger-app/cmd/client"
	"github/chapool/go-ledger-app/cmd/env"
	"github/chapool/go-ledger-app/cmd/keystore"
	"github/chapool/go-ledger-app/cmd/probe"
	"github/chapool/go-ledger-app/cmd/server"
	"github/chapool/go-ledger-app/cmd/settings"
	"github/chapool/go-ledger-app/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

A transaction signing device speaking APDU over HTTP and TCP.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		client.New(),
		env.New(),
		keystore.New(),
		probe.New(),
		server.New(),
		settings.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
