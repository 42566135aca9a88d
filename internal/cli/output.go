package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/equiv"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/tui"
)

// Output format names accepted by --output flags.
const (
	outputTable = "table"
	outputJSON  = "json"
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderCalculateOutput routes calculation results to JSON, a plain or
// styled table, or the interactive browser, based on the requested
// format and the terminal.
func renderCalculateOutput(cmd *cobra.Command, format string, interactive bool, result *engine.CalculateResult) error {
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	switch tui.DetectOutputMode(false, false, interactive) {
	case tui.OutputModeInteractive:
		return runResultsTUI(cmd.Context(), result.Results)

	case tui.OutputModeStyled:
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderEmissionsSummary(result.Results, tui.TerminalWidth()))
		return renderResultsTable(cmd.OutOrStdout(), result.Results)

	case tui.OutputModePlain:
		return renderResultsTable(cmd.OutOrStdout(), result.Results)

	default:
		return renderResultsTable(cmd.OutOrStdout(), result.Results)
	}
}

// runResultsTUI opens the interactive shipment browser.
func runResultsTUI(ctx context.Context, results []emissions.Result) error {
	p := tea.NewProgram(tui.NewResultsModel(ctx, results))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running interactive browser: %w", err)
	}
	return nil
}

// renderResultsTable writes one row per shipment, a total line, and an
// equivalency footer relating the total to everyday activities.
func renderResultsTable(w io.Writer, results []emissions.Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tSECTORS\tUNRESOLVED\tKG CO2E")

	total := 0.0
	for _, r := range results {
		total += r.TotalEmissionsKG
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			r.Reference, len(r.Sectors), r.UnresolvedSectors, printer.Sprintf("%.2f", r.TotalEmissionsKG))
	}

	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", printer.Sprintf("%.2f", total))
	if err := tw.Flush(); err != nil {
		return err
	}

	if eq, err := equiv.Calculate(equiv.Input{Value: total, Unit: "kg"}); err == nil && !eq.IsEmpty {
		fmt.Fprintln(w, eq.DisplayText)
	}
	return nil
}

// renderFactorsTable writes the factor table grouped by mode, one row
// per subtype.
func renderFactorsTable(w io.Writer, table *emissions.Table) error {
	fmt.Fprintf(w, "Factor table %s, short-haul threshold %.0f km\n\n", table.Version, table.ShortHaulMaxKM)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tSUBTYPE\tKG CO2E / TONNE-KM")

	groups := []struct {
		mode    string
		factors map[string]float64
	}{
		{"road", table.Road},
		{"air", table.Air},
		{"sea", table.Sea},
	}
	for _, group := range groups {
		keys := make([]string, 0, len(group.factors))
		for k := range group.factors {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%s\t%.3f\n", group.mode, k, group.factors[k])
		}
	}

	return tw.Flush()
}
