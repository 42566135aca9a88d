package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
)

// defaultWeightKG is the shipment weight assumed when none is given:
// one metric tonne, which makes the per-leg arithmetic legible.
const defaultWeightKG = 1000.0

// calculateParams holds the flag values for the calculate command.
type calculateParams struct {
	input       string
	excel       string
	sheet       string
	enrich      bool
	weightKG    float64
	roadSubtype string
	airSubtype  string
	seaSubtype  string
	factorsFile string
	output      string
	tui         bool
}

// NewCalculateCmd creates the "calculate" subcommand: parse, resolve,
// and compute per-sector and total CO2e emissions in one run.
//
// Registered flags:
//   - --input / --excel / --sheet / --enrich: as on the parse command
//   - --weight-kg: shipment weight in kilograms
//   - --road-subtype / --air-subtype / --sea-subtype: per-mode vehicle subtypes
//   - --factors: emission factor table YAML overriding the built-in factors
//   - --output: table or json
//   - --tui: browse results in the interactive terminal UI
func NewCalculateCmd() *cobra.Command {
	var params calculateParams
	defaults := emissions.DefaultParams()

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate Scope 1 CO2e emissions for a manifest",
		Long: `Parse a logistics manifest, resolve every journey sector to
coordinates, and calculate per-sector and total CO2e emissions.

Sectors whose endpoints cannot be resolved contribute zero and are
counted as unresolved in the output.`,
		Example: calculateCmdExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCalculate(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.input, "input", "-", `manifest text file ("-" reads stdin)`)
	cmd.Flags().StringVar(&params.excel, "excel", "", "manifest Excel workbook, instead of --input")
	cmd.Flags().StringVar(&params.sheet, "sheet", "", "worksheet name (defaults to the first sheet)")
	cmd.Flags().BoolVar(&params.enrich, "enrich", false, "normalize addresses via LLM before resolving")
	cmd.Flags().Float64Var(&params.weightKG, "weight-kg", defaultWeightKG, "shipment weight in kilograms")
	cmd.Flags().StringVar(&params.roadSubtype, "road-subtype", defaults.RoadSubtype,
		"road vehicle subtype: heavy_full, heavy_avg, medium, or light")
	cmd.Flags().StringVar(&params.airSubtype, "air-subtype", defaults.AirSubtype,
		"air freight subtype: freighter or belly")
	cmd.Flags().StringVar(&params.seaSubtype, "sea-subtype", defaults.SeaSubtype,
		"sea vessel subtype: container, bulk_carrier, tanker, or general_cargo")
	cmd.Flags().StringVar(&params.factorsFile, "factors", "",
		"emission factor table YAML (overrides built-in factors)")
	cmd.Flags().StringVar(&params.output, "output", outputTable, "output format: table or json")
	cmd.Flags().BoolVar(&params.tui, "tui", false, "browse results in an interactive terminal UI")

	return cmd
}

const calculateCmdExample = `  # Calculate with defaults (1 tonne, belly freight, average truck)
  carboncalc calculate --input manifest.txt

  # Heavier shipment on a dedicated freighter
  carboncalc calculate --input manifest.txt --weight-kg 2500 --air-subtype freighter

  # JSON output for scripting
  carboncalc calculate --input manifest.txt --output json

  # Custom emission factor table
  carboncalc calculate --input manifest.txt --factors factors.yaml

  # Interactive result browser
  carboncalc calculate --input manifest.txt --tui

  # Straight from an Excel workbook
  carboncalc calculate --excel manifest.xlsx --weight-kg 800`

// executeCalculate runs the full pipeline for the "calculate" command:
// load shipments, resolve sector distances, apply the factor table,
// and render the results in the requested format.
func executeCalculate(cmd *cobra.Command, params calculateParams) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	log := logging.FromContext(ctx)

	if params.excel != "" && params.input != "-" {
		return errConflictingInputs
	}
	if params.output != outputTable && params.output != outputJSON {
		return fmt.Errorf("unsupported output format: %s", params.output)
	}

	table, err := loadFactorTable(cfg, params.factorsFile)
	if err != nil {
		return err
	}
	normalizer, err := buildNormalizer(cfg, params.enrich)
	if err != nil {
		return err
	}

	shipments, skipped, _, err := loadShipments(cmd, params.input, params.excel, params.sheet)
	if err != nil {
		return err
	}

	start := time.Now()
	eng := engine.New(buildResolver(cfg), emissions.NewCalculator(table), normalizer)

	shipments, err = eng.Resolve(ctx, shipments)
	if err != nil {
		return fmt.Errorf("resolving locations: %w", err)
	}

	result := eng.Calculate(ctx, shipments, emissions.Params{
		WeightKG:    params.weightKG,
		RoadSubtype: params.roadSubtype,
		AirSubtype:  params.airSubtype,
		SeaSubtype:  params.seaSubtype,
	})

	log.Debug().Str("operation", "calculate").Str("batch_id", result.BatchID).
		Int("shipments", len(shipments)).Int("skipped", skipped).
		Dur("duration", time.Since(start)).Msg("calculation complete")

	return renderCalculateOutput(cmd, params.output, params.tui, result)
}
