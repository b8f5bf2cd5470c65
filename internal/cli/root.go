package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/movers-solution/movers/internal/cli/commands"
)

// NewRootCmd builds the movers command tree
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "movers",
		Short: "Movers - operator tools for the movers web front",
		Long: `Movers CLI - inspect and probe the movers web front.

Use it to check the auth backend's logout endpoint and to inspect or
validate the navigation policy that decides which links each role sees.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "movers version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewPolicyCmd())

	return rootCmd
}

// ExecuteContext runs the root command; ctx reaches every subcommand
func ExecuteContext(ctx context.Context, version string) error {
	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
