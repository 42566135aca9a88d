// Package ingest reads shipment manifests out of Excel workbooks. The
// expected sheet carries a two-row header: a band row naming up to three
// sector blocks and a column row with the field names, merged here into
// flat names such as "1st sector Flight Number".
package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// constError is a sentinel error type that can be declared as a constant.
type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrHeaderNotFound indicates a sheet without a "Ref No" header cell.
const ErrHeaderNotFound = constError("could not find 'Ref No' in header rows")

// Well-known column names of the manifest sheet.
const (
	columnRefNo       = "Ref No"
	columnOrigin      = "Origin"
	columnDestination = "Destination"
	columnDeliveryTo  = "Delivery To"
)

// sectorBlock names the four subcolumns of one sector band.
type sectorBlock struct {
	date   string
	number string
	from   string
	to     string
}

// sectorBlocks lists the sector bands a sheet may carry, with their
// flattened column names.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var sectorBlocks = []sectorBlock{
	{"1st sector Flight Date", "1st sector Flight Number", "1st sector From", "1st sector To"},
	{"2nd Sector Flight Date", "2nd Sector Flight Number", "2nd Sector From", "2nd Sector To"},
	{"3rd Sector Flight Date", "3rd Sector Flight Number", "3rd Sector From", "3rd Sector To"},
}

// ScenarioBaseline marks records read straight from a manifest, before
// any alternative scenarios are derived.
const ScenarioBaseline = "baseline"

// Segment is one flight leg of a manifest row. Only segments with both
// endpoints filled are kept.
type Segment struct {
	FlightDate   string `json:"flight_date,omitempty"`
	FlightNumber string `json:"flight_number,omitempty"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// Record is one manifest row in its raw workbook shape. The manifest
// format is an air freight manifest, so every record starts life as a
// baseline air record.
type Record struct {
	Reference   string    `json:"reference"`
	Scenario    string    `json:"scenario"`
	Mode        string    `json:"mode"`
	Origin      string    `json:"origin,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Segments    []Segment `json:"segments"`
	Notes       string    `json:"notes,omitempty"`
}

// Result is the outcome of reading one workbook.
type Result struct {
	Records  []Record `json:"records"`
	Count    int      `json:"count"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// ReadManifestFile reads a manifest workbook from disk. An empty sheet
// name selects the first sheet.
func ReadManifestFile(path, sheet string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return ReadManifest(f, sheet)
}

// ReadManifest reads a manifest workbook from r. Structural problems
// such as an unreadable workbook or a missing header row return an
// error; missing required columns are reported in Result.Errors with no
// records, matching how a partially broken sheet should degrade.
func ReadManifest(r io.Reader, sheet string) (*Result, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	defer workbook.Close()

	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	headerRow := findHeaderRow(rows)
	if headerRow < 0 {
		return nil, ErrHeaderNotFound
	}
	columns := flattenHeader(rows, headerRow)

	result := &Result{
		Records:  []Record{},
		Warnings: []string{},
		Errors:   []string{},
	}
	for _, required := range []string{columnRefNo, columnOrigin, columnDestination} {
		if _, ok := columns[required]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required column '%s'.", required))
		}
	}
	if len(result.Errors) > 0 {
		return result, nil
	}

	for _, row := range rows[headerRow+1:] {
		reference := cellValue(row, columns, columnRefNo)
		if reference == "" {
			continue
		}

		record := Record{
			Reference:   reference,
			Scenario:    ScenarioBaseline,
			Mode:        "air",
			Origin:      cellValue(row, columns, columnOrigin),
			Destination: cellValue(row, columns, columnDestination),
			Segments:    collectSegments(row, columns),
			Notes:       cellValue(row, columns, columnDeliveryTo),
		}
		result.Records = append(result.Records, record)
	}
	result.Count = len(result.Records)

	return result, nil
}

// findHeaderRow returns the index of the first row containing a
// "Ref No" cell, or -1.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) == columnRefNo {
				return i
			}
		}
	}
	return -1
}

// flattenHeader merges the band row above the header row with the header
// row itself, producing a map from flattened column name to column
// index. Band cells are forward filled across the full sheet width the
// way merged cells render, and only bands naming a sector prefix their
// columns.
func flattenHeader(rows [][]string, headerRow int) map[string]int {
	header := rows[headerRow]
	width := len(header)
	var bands []string
	if headerRow > 0 {
		if len(rows[headerRow-1]) > width {
			width = len(rows[headerRow-1])
		}
		bands = forwardFill(rows[headerRow-1], width)
	}

	columns := make(map[string]int, len(header))
	for i := 0; i < width; i++ {
		band := strings.TrimSpace(cellAt(bands, i))
		name := strings.TrimSpace(cellAt(header, i))

		combined := name
		switch {
		case band != "" && name != "" && strings.Contains(strings.ToLower(band), "sector"):
			combined = band + " " + name
		case name == "":
			combined = band
		}
		if combined == "" {
			continue
		}
		if _, exists := columns[combined]; !exists {
			columns[combined] = i
		}
	}
	return columns
}

// forwardFill carries the last non-empty cell into following empty
// cells up to width, reconstructing the values of merged band cells.
func forwardFill(row []string, width int) []string {
	filled := make([]string, width)
	last := ""
	for i := 0; i < width; i++ {
		if cell := cellAt(row, i); strings.TrimSpace(cell) != "" {
			last = cell
		}
		filled[i] = last
	}
	return filled
}

// collectSegments keeps the sector blocks of a row that have both
// endpoints filled.
func collectSegments(row []string, columns map[string]int) []Segment {
	var segments []Segment
	for _, block := range sectorBlocks {
		segment := Segment{
			FlightDate:   cellValue(row, columns, block.date),
			FlightNumber: cellValue(row, columns, block.number),
			From:         cellValue(row, columns, block.from),
			To:           cellValue(row, columns, block.to),
		}
		if segment.From != "" && segment.To != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func cellValue(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(cellAt(row, idx))
}
