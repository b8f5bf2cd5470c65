package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/config"
	"github.com/movers-solution/movers/internal/navigation"
	"github.com/movers-solution/movers/internal/session"
)

// NewPolicyCmd creates the policy command group
func NewPolicyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and validate the navigation policy",
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", "", "Policy file (default from NAV_POLICY_FILE, else built-in)")

	load := func() (*access.Policy, error) {
		if file == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
			file = cfg.Nav.PolicyFile
		}
		return access.LoadPolicy(file)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective policy as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load()
			if err != nil {
				return err
			}
			return showPolicy(p, cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check that the policy file parses and only names known routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(); err != nil {
				return err
			}
			source := file
			if source == "" {
				source = "built-in policy"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", source)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "links",
		Short: "Show the navigation links each role sees",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := load()
			if err != nil {
				return err
			}
			return printLinks(p, cmd.OutOrStdout())
		},
	})

	return cmd
}

func showPolicy(p *access.Policy, out io.Writer) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode policy: %w", err)
	}
	return enc.Close()
}

func printLinks(p *access.Policy, out io.Writer) error {
	rows := []struct {
		name string
		sess session.Session
	}{
		{"(anonymous)", session.Empty()},
		{string(session.RoleUser), session.New("0", "", "", session.RoleUser)},
		{string(session.RoleMover), session.New("0", "", "", session.RoleMover)},
		{string(session.RoleAdmin), session.New("0", "", "", session.RoleAdmin)},
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tLINKS\tLOGOUT")
	fmt.Fprintln(w, "────\t─────\t──────")
	for _, row := range rows {
		v := navigation.Render(p, row.sess)
		labels := make([]string, len(v.Links))
		for i, l := range v.Links {
			labels[i] = l.Label
		}
		logout := "no"
		if v.ShowLogout {
			logout = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.name, strings.Join(labels, ", "), logout)
	}
	return w.Flush()
}
