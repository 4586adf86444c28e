package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/go-ledger-app/internal/config"
	"github/chapool/go-ledger-app/internal/util/command"
)

const (
	verboseFlag string = "verbose"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long:  `Exits with code 1 if the running server does not report itself healthy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			return runProbe(cmd, cfg.Management.ProbeBaseURL+"/-/healthy", cfg.Management.LivenessTimeout)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `Exits with code 1 if the running server has not unlocked its seed or is not fully wired.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			return runProbe(cmd, cfg.Management.ProbeBaseURL+"/-/ready", cfg.Management.ReadinessTimeout)
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runProbe(cmd *cobra.Command, url string, timeout time.Duration) error {
	verbose, err := cmd.Flags().GetBool(verboseFlag)
	if err != nil {
		return errors.Wrapf(err, "failed to get %s flag", verboseFlag)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	status, body, err := probe(ctx, url)
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "GET %s: %d %s\n", url, status, body)
	}
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return errors.Errorf("probe %s failed with status %d: %s", url, status, body)
	}

	return nil
}

func probe(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", errors.Wrap(err, "failed to create probe request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", errors.Wrap(err, "probe request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 256)) //nolint:mnd
	if err != nil {
		return res.StatusCode, "", errors.Wrap(err, "failed to read probe response")
	}

	return res.StatusCode, strings.TrimSpace(string(body)), nil
}
