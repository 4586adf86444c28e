package client

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	ledger "github/chapool/go-ledger-app/internal/client"
	"github/chapool/go-ledger-app/internal/transport"
	"github/chapool/go-ledger-app/internal/util"
	"github/chapool/go-ledger-app/internal/util/command"
	"github/chapool/go-ledger-app/internal/wallet/address"
)

const (
	httpFlag    = "http"
	tcpFlag     = "tcp"
	pathFlag    = "path"
	displayFlag = "display"
	timeoutFlag = "timeout"

	defaultPath = "m/44'/503'/0'/0/0"
)

func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("client",
		newVersion(),
		newAppName(),
		newPubkey(),
		newSign(),
	)
	cmd.Short = "Talks to a running device"

	cmd.PersistentFlags().String(httpFlag, "http://127.0.0.1:8080", "Base URL of the device REST endpoint.")
	cmd.PersistentFlags().String(tcpFlag, "", "Address of the device TCP endpoint, takes precedence over --http.")
	cmd.PersistentFlags().Duration(timeoutFlag, 5*time.Minute, "Deadline of the whole exchange, includes operator review.") //nolint:mnd

	return cmd
}

// connect returns a client over the selected transport. The closer is never nil.
func connect(cmd *cobra.Command) (*ledger.Client, io.Closer, error) {
	tcpAddr, err := cmd.Flags().GetString(tcpFlag)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to get %s flag", tcpFlag)
	}

	if tcpAddr != "" {
		c, err := transport.Dial(cmd.Context(), tcpAddr)
		if err != nil {
			return nil, nil, err
		}
		return ledger.New(c), c, nil
	}

	baseURL, err := cmd.Flags().GetString(httpFlag)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to get %s flag", httpFlag)
	}

	return ledger.New(ledger.HTTP{BaseURL: baseURL, Client: http.DefaultClient}), io.NopCloser(nil), nil
}

// withClient runs f with a connected client under the configured timeout.
func withClient(cmd *cobra.Command, f func(ctx context.Context, c *ledger.Client) error) error {
	timeout, err := cmd.Flags().GetDuration(timeoutFlag)
	if err != nil {
		return errors.Wrapf(err, "failed to get %s flag", timeoutFlag)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	cmd.SetContext(ctx)

	c, closer, err := connect(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	return f(ctx, c)
}

func pathFromFlag(cmd *cobra.Command) (address.DerivationPath, error) {
	raw, err := cmd.Flags().GetString(pathFlag)
	if err != nil {
		return address.DerivationPath{}, errors.Wrapf(err, "failed to get %s flag", pathFlag)
	}
	return address.ParseBIP44Path(raw)
}

func newVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the application version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *ledger.Client) error {
				v, err := c.GetVersion(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newAppName() *cobra.Command {
	return &cobra.Command{
		Use:   "app-name",
		Short: "Prints the application name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(ctx context.Context, c *ledger.Client) error {
				name, err := c.GetAppName(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func newPubkey() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Prints the public key, chain code and address at a path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := pathFromFlag(cmd)
			if err != nil {
				return err
			}

			display, err := cmd.Flags().GetBool(displayFlag)
			if err != nil {
				return errors.Wrapf(err, "failed to get %s flag", displayFlag)
			}

			return withClient(cmd, func(ctx context.Context, c *ledger.Client) error {
				pub, err := c.GetPublicKey(ctx, path, display)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "path:       %s\n", path)
				fmt.Fprintf(out, "public key: %s\n", hex.EncodeToString(pub.Key))
				fmt.Fprintf(out, "chain code: %s\n", hex.EncodeToString(pub.ChainCode))
				fmt.Fprintf(out, "address:    0x%s\n", pub.Address.Hex())
				return nil
			})
		},
	}
	cmd.Flags().String(pathFlag, defaultPath, "Derivation path.")
	cmd.Flags().Bool(displayFlag, false, "Ask the operator to confirm the address.")

	return cmd
}

func newSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <raw-tx-hex>",
		Short: "Signs a raw transaction in the configured device format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := pathFromFlag(cmd)
			if err != nil {
				return err
			}

			raw, err := util.DecodeHex(args[0])
			if err != nil {
				return errors.Wrap(err, "invalid transaction hex")
			}

			return withClient(cmd, func(ctx context.Context, c *ledger.Client) error {
				sig, err := c.SignTransaction(ctx, path, raw)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "signature: %s\n", hex.EncodeToString(sig.DER))
				fmt.Fprintf(out, "parity:    %d\n", sig.Parity)
				return nil
			})
		},
	}
	cmd.Flags().String(pathFlag, defaultPath, "Derivation path.")

	return cmd
}
