package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/ingest"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// parseParams holds the flag values for the parse command.
type parseParams struct {
	input   string
	excel   string
	sheet   string
	resolve bool
	enrich  bool
}

// NewParseCmd creates the "parse" subcommand for turning manifest input
// into structured shipment records.
//
// Registered flags:
//   - --input: manifest text file; "-" reads stdin (the default)
//   - --excel: manifest Excel workbook, instead of --input
//   - --sheet: worksheet name inside the workbook
//   - --resolve: geocode sector endpoints and fill leg distances
//   - --enrich: normalize free-form addresses via LLM first (implies --resolve)
func NewParseCmd() *cobra.Command {
	var params parseParams

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a logistics manifest into structured shipments",
		Long: `Parse tab-separated manifest text (or an Excel workbook) into
structured shipment records with expanded journey sectors.

Input is read from stdin by default. With --resolve, every sector
endpoint is geocoded and great-circle leg distances are filled in.
With --enrich, free-form addresses are first normalized through the
configured LLM so more of them geocode successfully.`,
		Example: parseCmdExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeParse(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.input, "input", "-", `manifest text file ("-" reads stdin)`)
	cmd.Flags().StringVar(&params.excel, "excel", "", "manifest Excel workbook, instead of --input")
	cmd.Flags().StringVar(&params.sheet, "sheet", "", "worksheet name (defaults to the first sheet)")
	cmd.Flags().BoolVar(&params.resolve, "resolve", false, "resolve locations and fill leg distances")
	cmd.Flags().BoolVar(&params.enrich, "enrich", false,
		"normalize addresses via LLM before resolving (implies --resolve)")

	return cmd
}

const parseCmdExample = `  # Parse manifest text from a file
  carboncalc parse --input manifest.txt

  # Parse from stdin
  cat manifest.txt | carboncalc parse

  # Parse and resolve leg distances
  carboncalc parse --input manifest.txt --resolve

  # Normalize free-form addresses before resolving
  carboncalc parse --input manifest.txt --enrich

  # Ingest an Excel workbook
  carboncalc parse --excel manifest.xlsx --sheet "Sheet1"`

// executeParse parses the selected input, optionally resolves leg
// distances, and writes the batch as indented JSON to stdout.
func executeParse(cmd *cobra.Command, params parseParams) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	log := logging.FromContext(ctx)

	if params.excel != "" && params.input != "-" {
		return errConflictingInputs
	}

	shipments, skipped, notes, err := loadShipments(cmd, params.input, params.excel, params.sheet)
	if err != nil {
		return err
	}

	result := &engine.ExtractResult{
		BatchID:   ulid.Make().String(),
		Shipments: shipments,
		Skipped:   skipped,
		Notes:     notes,
	}

	if params.resolve || params.enrich {
		normalizer, normErr := buildNormalizer(cfg, params.enrich)
		if normErr != nil {
			return normErr
		}

		start := time.Now()
		eng := engine.New(buildResolver(cfg), nil, normalizer)
		result.Shipments, err = eng.Resolve(ctx, result.Shipments)
		if err != nil {
			return fmt.Errorf("resolving locations: %w", err)
		}
		log.Debug().Str("batch_id", result.BatchID).Int("shipments", len(result.Shipments)).
			Dur("duration", time.Since(start)).Msg("distances resolved")
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

// loadShipments reads shipment records from either tab-separated
// manifest text or an Excel workbook, returning the records together
// with the skipped-line count and parser diagnostics.
func loadShipments(cmd *cobra.Command, input, excel, sheet string) ([]manifest.ShipmentRecord, int, []string, error) {
	if excel != "" {
		result, err := ingest.ReadManifestFile(excel, sheet)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("reading workbook %s: %w", excel, err)
		}
		if len(result.Errors) > 0 {
			return nil, 0, nil, fmt.Errorf("workbook %s: %s", excel, strings.Join(result.Errors, "; "))
		}
		return ingest.ToShipments(result.Records), 0, result.Warnings, nil
	}

	text, err := readInput(cmd, input)
	if err != nil {
		return nil, 0, nil, err
	}

	parsed := manifest.Parse(cmd.Context(), text)
	return parsed.Shipments, parsed.Skipped, parsed.Notes, nil
}

// readInput returns the manifest text from path, or from stdin when
// path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return string(data), nil
}
