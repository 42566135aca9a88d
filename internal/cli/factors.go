package cli

import (
	"github.com/spf13/cobra"
)

// NewFactorsCmd creates the "factors" subcommand for inspecting the
// emission factor table the calculator will apply.
func NewFactorsCmd() *cobra.Command {
	var factorsFile string
	var output string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Print the emission factor table",
		Long: `Print the emission factor table the calculator will apply, after
any configured or flag-provided override file. Factors are expressed
in kg CO2e per tonne-kilometre.`,
		Example: factorsCmdExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())

			table, err := loadFactorTable(cfg, factorsFile)
			if err != nil {
				return err
			}

			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), table)
			}
			return renderFactorsTable(cmd.OutOrStdout(), table)
		},
	}

	cmd.Flags().StringVar(&factorsFile, "factors", "",
		"emission factor table YAML (overrides built-in factors)")
	cmd.Flags().StringVar(&output, "output", outputTable, "output format: table or json")

	return cmd
}

const factorsCmdExample = `  # Print the built-in factor table
  carboncalc factors

  # Inspect a custom table before using it
  carboncalc factors --factors factors.yaml

  # JSON output for scripting
  carboncalc factors --output json`
