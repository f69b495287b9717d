package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-modular/app"
	"github.com/km-arc/go-modular/framework/config"
	applog "github.com/km-arc/go-modular/framework/log"
	"github.com/km-arc/go-modular/framework/modules"
)

var modulesOutput string

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Show which modules would be activated",
	Long: `Computes the activation plan for the current configuration without starting
anything and prints one line per module with its flag and the reason it is
active or not.

Examples:
  # Table
  modular modules

  # With a specific config file
  modular modules --config deploy/prod.yaml

  # Machine readable
  modular modules --output yaml
  modular modules -o json | jq '.decisions[] | select(.active)'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := config.Load(configOptions())
		if err != nil {
			return err
		}
		logger := applog.New(repo.Config().Log, cmd.ErrOrStderr())
		plan := modules.NewLoader(repo, modules.WithLogger(logger)).Plan(app.Marker(), app.Manifest())
		return writePlan(cmd.OutOrStdout(), plan, modulesOutput)
	},
}

func init() {
	modulesCmd.Flags().StringVarP(&modulesOutput, "output", "o", "table", "output format: table, yaml or json")
	rootCmd.AddCommand(modulesCmd)
}

func writePlan(w io.Writer, plan *modules.Plan, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MODULE\tACTIVE\tFLAG\tREASON")
		for _, d := range plan.Decisions {
			fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", d.Module, d.Active, d.Flag, d.Reason)
		}
		return tw.Flush()
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
