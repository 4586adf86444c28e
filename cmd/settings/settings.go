package settings

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-ledger-app/internal/config"
	store "github/chapool/go-ledger-app/internal/settings"
	"github/chapool/go-ledger-app/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("settings",
		newGet(),
		newSet(),
	)
}

func newGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <index>",
		Short: "Prints one settings byte",
		Long:  fmt.Sprintf("Prints the byte at index 0..%d of DEVICE_SETTINGS_FILE. Index %d toggles the memo display.", store.Size-1, store.DisplayMemo),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid index")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			v, err := store.NewFile(cfg.Device.SettingsFile).Get(index)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newSet() *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <value>",
		Short: "Writes one settings byte",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid index")
			}

			value, err := strconv.ParseUint(args[1], 0, 8)
			if err != nil {
				return errors.Wrap(err, "invalid value")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			return store.NewFile(cfg.Device.SettingsFile).Set(index, byte(value))
		},
	}
}
