package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/movers-solution/movers/internal/backend"
	"github.com/movers-solution/movers/internal/config"
)

// LogoutClient is the backend call the probe makes
type LogoutClient interface {
	Logout(ctx context.Context) backend.Result
}

// NewLogoutCmd creates the logout probe command
func NewLogoutCmd() *cobra.Command {
	var (
		backendURL string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Send DELETE /logout to the auth backend and report the outcome",
		Long: `Send the same logout request the web front sends and print how it
would be classified: success, recoverable (retry may work) or fatal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backendURL == "" || timeout == 0 {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if backendURL == "" {
					backendURL = cfg.Backend.BaseURL
				}
				if timeout == 0 {
					timeout = cfg.Backend.Timeout
				}
			}

			return runLogout(cmd.Context(), backend.New(backendURL, timeout), backendURL, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&backendURL, "backend", "", "Backend base URL (default from BACKEND_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Request timeout (default from BACKEND_TIMEOUT)")

	return cmd
}

func runLogout(ctx context.Context, client LogoutClient, backendURL string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	res := client.Logout(ctx)

	fmt.Fprintf(out, "Backend:  %s\n", backendURL)
	fmt.Fprintf(out, "Outcome:  %s\n", res.Outcome)
	if res.StatusCode != 0 {
		fmt.Fprintf(out, "Status:   %d\n", res.StatusCode)
	}
	if res.Err != nil {
		fmt.Fprintf(out, "Error:    %v\n", res.Err)
	}

	if !res.OK() {
		return fmt.Errorf("logout %s", res.Outcome)
	}
	return nil
}
