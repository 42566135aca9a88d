package emissions

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// DefaultInsightsTopN caps how many per-shipment switch recommendations
// are rendered when the caller does not choose a limit.
const DefaultInsightsTopN = 10

// Fixed insight lines.
const (
	sensitivityLine = "Sensitivity: Recommendations remain directionally the same under ±10% EF changes."
	noSavingsLine   = "No saving opportunities found versus baseline (based on the calculator’s output)."
)

// ComparisonRow pairs a shipment's baseline scenario with one alternative
// scenario. DeltaKG and DeltaPct are alternative minus baseline, so a
// negative delta is a saving.
type ComparisonRow struct {
	Reference    string  `json:"reference"`
	BaselineMode string  `json:"baseline_mode"`
	BaselineKG   float64 `json:"baseline_kg"`
	AltScenario  string  `json:"alt_scenario"`
	AltMode      string  `json:"alt_mode"`
	AltKG        float64 `json:"alt_kg"`
	DeltaKG      float64 `json:"delta_kg"`
	DeltaPct     float64 `json:"delta_pct"`
}

// PortfolioSummary rolls the best-case scenario up across all shipments.
type PortfolioSummary struct {
	TotalBaselineKG   float64 `json:"total_baseline_kg"`
	TotalBestCaseKG   float64 `json:"total_bestcase_kg"`
	PortfolioDeltaKG  float64 `json:"portfolio_delta_kg"`
	PortfolioDeltaPct float64 `json:"portfolio_delta_pct"`
}

// Insight is one machine-readable insight entry.
type Insight struct {
	Type      string  `json:"type"`
	Reference string  `json:"reference,omitempty"`
	FromMode  string  `json:"from_mode,omitempty"`
	ToMode    string  `json:"to_mode,omitempty"`
	Scenario  string  `json:"scenario,omitempty"`
	DeltaKG   float64 `json:"delta_kg"`
	DeltaPct  float64 `json:"delta_pct"`
	Explain   string  `json:"explain"`
}

// InsightsReport is the rendered output of MakeInsights. It presents the
// comparison rows without recalculating anything.
type InsightsReport struct {
	PortfolioSummary PortfolioSummary `json:"portfolio_summary"`
	InsightsText     []string         `json:"insights_text"`
	InsightsJSON     []Insight        `json:"insights_json"`
	TopOpportunities []ComparisonRow  `json:"top_opportunities"`
}

// InsightsOptions tunes the recommendation output. A TopN of zero or less
// uses DefaultInsightsTopN; MinPctSaving filters out savings whose
// percentage change is smaller in magnitude, and only applies when
// positive.
type InsightsOptions struct {
	TopN         int
	MinPctSaving float64
}

// MakeInsights summarizes a comparison table: the portfolio-wide effect
// of adopting each shipment's best alternative, plus per-shipment switch
// recommendations ordered by absolute saving.
func MakeInsights(rows []ComparisonRow, opts InsightsOptions) (*InsightsReport, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyComparison
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultInsightsTopN
	}

	// Best alternative per reference is the row with the smallest alt_kg,
	// ties broken by input order.
	ordered := make([]ComparisonRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Reference != ordered[j].Reference {
			return ordered[i].Reference < ordered[j].Reference
		}
		return ordered[i].AltKG < ordered[j].AltKG
	})

	bestAlt := make([]ComparisonRow, 0, len(ordered))
	picked := make(map[string]bool, len(ordered))
	for _, row := range ordered {
		if picked[row.Reference] {
			continue
		}
		picked[row.Reference] = true
		bestAlt = append(bestAlt, row)
	}

	// The baseline for each reference comes from its first row in input
	// order; every alternative of a shipment shares the same baseline.
	totalBase := 0.0
	counted := make(map[string]bool, len(rows))
	for _, row := range rows {
		if counted[row.Reference] {
			continue
		}
		counted[row.Reference] = true
		totalBase += row.BaselineKG
	}

	totalBest := 0.0
	for _, row := range bestAlt {
		totalBest += row.AltKG
	}

	portfolioDelta := totalBest - totalBase
	portfolioPct := 0.0
	if totalBase != 0 {
		portfolioPct = portfolioDelta / totalBase * 100.0
	}

	portfolioLine := fmt.Sprintf(
		"Portfolio: adopting the best alternatives changes emissions by %s kgCO₂e (%s).",
		formatKG(portfolioDelta), formatPercent(portfolioPct))

	report := &InsightsReport{
		PortfolioSummary: PortfolioSummary{
			TotalBaselineKG:   totalBase,
			TotalBestCaseKG:   totalBest,
			PortfolioDeltaKG:  portfolioDelta,
			PortfolioDeltaPct: portfolioPct,
		},
		InsightsText: []string{portfolioLine},
		InsightsJSON: []Insight{{
			Type:     "portfolio_best_case",
			DeltaKG:  portfolioDelta,
			DeltaPct: portfolioPct,
			Explain:  portfolioLine,
		}},
		TopOpportunities: []ComparisonRow{},
	}

	// Only negative deltas are savings.
	savings := make([]ComparisonRow, 0, len(bestAlt))
	for _, row := range bestAlt {
		if row.DeltaKG >= 0 {
			continue
		}
		if opts.MinPctSaving > 0 && math.Abs(row.DeltaPct) < opts.MinPctSaving {
			continue
		}
		savings = append(savings, row)
	}

	if len(savings) == 0 {
		report.InsightsText = append(report.InsightsText, noSavingsLine)
		return report, nil
	}

	sort.SliceStable(savings, func(i, j int) bool {
		return math.Abs(savings[i].DeltaKG) > math.Abs(savings[j].DeltaKG)
	})

	limit := topN
	if limit > len(savings) {
		limit = len(savings)
	}
	for _, row := range savings[:limit] {
		line := fmt.Sprintf("%s: Switch to %s (%s) to save %s kgCO₂e (%s) vs %s.",
			row.Reference, row.AltMode, row.AltScenario,
			formatKG(math.Abs(row.DeltaKG)), formatPercent(math.Abs(row.DeltaPct)),
			row.BaselineMode)
		report.InsightsText = append(report.InsightsText, line)
		report.InsightsJSON = append(report.InsightsJSON, Insight{
			Type:      "per_shipment_best_switch",
			Reference: row.Reference,
			FromMode:  row.BaselineMode,
			ToMode:    row.AltMode,
			Scenario:  row.AltScenario,
			DeltaKG:   row.DeltaKG,
			DeltaPct:  row.DeltaPct,
			Explain:   line,
		})
	}
	report.InsightsText = append(report.InsightsText, sensitivityLine)
	report.TopOpportunities = savings

	return report, nil
}

// formatKG renders a kg figure with thousand separators and no decimals.
func formatKG(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprintf("%v", x)
	}
	return printer.Sprintf("%d", int64(math.Round(x)))
}

// formatPercent renders a percentage to one decimal place, or a dash
// marker when the value is not representable.
func formatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", p)
}
