package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/equiv"
)

// Layout constants.
const (
	maxLocationDisplayLen = 26
	truncateSuffix        = "..."
	borderPadding         = 2
	defaultTableHeight    = 12
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// ShipmentRow represents a single row in the interactive shipment table.
type ShipmentRow struct {
	Reference   string
	Route       string // "first origin -> last destination", truncated.
	Sectors     int
	Unresolved  int
	EmissionsKG float64
}

// NewShipmentRow converts an emissions.Result into a display-ready row.
func NewShipmentRow(result emissions.Result) ShipmentRow {
	row := ShipmentRow{
		Reference:   result.Reference,
		Sectors:     len(result.Sectors),
		Unresolved:  result.UnresolvedSectors,
		EmissionsKG: result.TotalEmissionsKG,
	}
	if len(result.Sectors) > 0 {
		first := result.Sectors[0]
		last := result.Sectors[len(result.Sectors)-1]
		row.Route = truncateLocation(first.From) + " -> " + truncateLocation(last.To)
	}
	return row
}

// truncateLocation shortens a location string for the route column.
func truncateLocation(s string) string {
	if len(s) <= maxLocationDisplayLen {
		return s
	}
	return s[:maxLocationDisplayLen-len(truncateSuffix)] + truncateSuffix
}

// browserState identifies which view the browser is showing.
type browserState int

const (
	stateList browserState = iota
	stateDetail
)

// ResultsModel is the Bubble Tea model for browsing shipment results:
// a summary plus table in the list state, a per-sector breakdown in
// the detail state.
type ResultsModel struct {
	ctx     context.Context
	results []emissions.Result
	table   table.Model
	state   browserState
	cursor  int
	width   int
	height  int
}

// NewResultsModel creates the interactive browser over calculated
// shipment results.
func NewResultsModel(ctx context.Context, results []emissions.Result) *ResultsModel {
	return &ResultsModel{
		ctx:     ctx,
		results: results,
		table:   NewResultsTable(results, defaultTableHeight),
		width:   defaultTerminalWidth,
	}
}

// NewResultsTable creates and configures the shipment table model.
func NewResultsTable(results []emissions.Result, height int) table.Model {
	columns := []table.Column{
		{Title: "Reference", Width: 12},  //nolint:mnd // Column width.
		{Title: "Route", Width: 34},      //nolint:mnd // Column width.
		{Title: "Sectors", Width: 8},     //nolint:mnd // Column width.
		{Title: "Unresolved", Width: 11}, //nolint:mnd // Column width.
		{Title: "kgCO2e", Width: 14},     //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(results))
	for i, r := range results {
		row := NewShipmentRow(r)
		rows[i] = table.Row{
			row.Reference,
			row.Route,
			strconv.Itoa(row.Sectors),
			formatUnresolvedColumn(row.Unresolved),
			printer.Sprintf("%.2f", row.EmissionsKG),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}

// formatUnresolvedColumn returns "-" for zero so the column stays
// visually clean.
func formatUnresolvedColumn(count int) string {
	if count == 0 {
		return "-"
	}
	return strconv.Itoa(count)
}

// Init implements tea.Model.
func (m *ResultsModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input, forwarding navigation keys to
// the table while in the list state.
//
//nolint:exhaustive // Only handling relevant key types for browser navigation.
func (m *ResultsModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			if m.state == stateDetail {
				m.state = stateList
				return m, nil
			}
			return m, tea.Quit
		}

	case tea.KeyEnter:
		if m.state == stateList && len(m.results) > 0 {
			m.cursor = m.table.Cursor()
			m.state = stateDetail
		}
		return m, nil

	case tea.KeyEsc:
		if m.state == stateDetail {
			m.state = stateList
		}
		return m, nil
	}

	if m.state == stateList {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *ResultsModel) View() string {
	if m.state == stateDetail && m.cursor < len(m.results) {
		detail := RenderShipmentDetail(m.results[m.cursor], m.width)
		return detail + "\n" + SubtleStyle.Render("esc back  q quit")
	}

	summary := RenderEmissionsSummary(m.results, m.width)
	help := SubtleStyle.Render("enter detail  q quit")
	return summary + "\n" + m.table.View() + "\n" + help
}

// RenderEmissionsSummary renders a boxed summary of total emissions,
// shipment count, the per-mode emission split sorted by descending
// share, and an everyday-activity equivalency for the total. The width
// parameter controls the total box width. If results is empty, the
// function returns a "No results to display." message.
func RenderEmissionsSummary(results []emissions.Result, width int) string {
	if len(results) == 0 {
		return InfoStyle.Render("No results to display.")
	}

	totalKG := 0.0
	unresolved := 0
	modeKG := make(map[string]float64)

	for _, r := range results {
		totalKG += r.TotalEmissionsKG
		unresolved += r.UnresolvedSectors
		for _, s := range r.Sectors {
			modeKG[string(s.Mode)] += s.EmissionsKG
		}
	}

	var content strings.Builder

	content.WriteString(HeaderStyle.Render("EMISSIONS SUMMARY"))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Total:      "))
	content.WriteString(ValueStyle.Render(printer.Sprintf("%.2f kgCO2e", totalKG)))
	content.WriteString(LabelStyle.Render("    Shipments: "))
	content.WriteString(ValueStyle.Render(strconv.Itoa(len(results))))
	content.WriteString("\n")

	type modeShare struct {
		Mode string
		KG   float64
	}
	shares := make([]modeShare, 0, len(modeKG))
	for mode, kg := range modeKG {
		shares = append(shares, modeShare{mode, kg})
	}
	sort.Slice(shares, func(i, j int) bool {
		return shares[i].KG > shares[j].KG
	})

	parts := make([]string, 0, len(shares))
	for _, share := range shares {
		pct := 0.0
		if totalKG > 0 {
			pct = share.KG / totalKG * 100 //nolint:mnd // Percentage calculation.
		}
		parts = append(parts, fmt.Sprintf("%s: %s (%.1f%%)",
			share.Mode, printer.Sprintf("%.2f", share.KG), pct))
	}
	content.WriteString(LabelStyle.Render(strings.Join(parts, "  ")))

	if eq, err := equiv.Calculate(equiv.Input{Value: totalKG, Unit: "kg"}); err == nil && !eq.IsEmpty {
		content.WriteString("\n")
		content.WriteString(SubtleStyle.Render(eq.DisplayText))
	}

	if unresolved > 0 {
		content.WriteString("\n")
		content.WriteString(WarningStyle.Render(
			fmt.Sprintf("%d sector(s) unresolved, contributing zero", unresolved)))
	}

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}

// RenderShipmentDetail renders a boxed per-sector breakdown for one
// shipment: mode, endpoints, distance, the factor applied, and the leg
// emissions. Unresolved legs are flagged instead of showing arithmetic.
func RenderShipmentDetail(result emissions.Result, width int) string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("SHIPMENT DETAIL"))
	content.WriteString("\n\n")

	content.WriteString(LabelStyle.Render("Reference:   "))
	content.WriteString(ValueStyle.Render(result.Reference))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Total:       "))
	content.WriteString(ValueStyle.Render(printer.Sprintf("%.2f kgCO2e", result.TotalEmissionsKG)))
	content.WriteString("\n\n")

	content.WriteString(HeaderStyle.Render("SECTORS"))
	content.WriteString("\n")

	for _, s := range result.Sectors {
		fmt.Fprintf(&content, "%d. [%s] %s -> %s\n", s.Index, s.Mode, s.From, s.To)

		if s.DistanceKM != nil {
			fmt.Fprintf(&content, "   %.1f km x %.3f = %s kgCO2e\n",
				*s.DistanceKM, s.EmissionFactor, printer.Sprintf("%.2f", s.EmissionsKG))
		} else {
			content.WriteString(WarningStyle.Render("   distance unresolved, contributes zero"))
			content.WriteString("\n")
		}

		if s.TransportNumber != "" {
			meta := s.TransportNumber
			if s.TransportDate != "" {
				meta += " on " + s.TransportDate
			}
			content.WriteString(SubtleStyle.Render("   " + meta))
			content.WriteString("\n")
		}
	}

	return BoxStyle.Width(width - borderPadding).Render(content.String())
}
