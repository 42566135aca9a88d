package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/cli"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// airManifest is a single air shipment whose endpoints are facility
// codes, so every location resolves against the built-in table without
// touching a geocoding provider.
const airManifest = "1\tA001\tNO PICKUP\tSGSIN\tKRICN\t\t3/7/2025\tSQ600\tSGSIN\tKRICN"

// airManifestWithDelivery adds a street delivery address, which only
// matters to tests that never ask for distance resolution.
const airManifestWithDelivery = "1\tA001\tNO PICKUP\tSGSIN\tKRICN\t123 Main St\t3/7/2025\tSQ600\tSGSIN\tKRICN"

// writeManifestFile drops manifest text into a temp file and returns
// its path.
func writeManifestFile(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

// writeWorkbookFile builds a manifest workbook in the July layout and
// saves it to a temp file.
func writeWorkbookFile(t *testing.T, data [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"July Air Freight Manifest"},
		{"", "", "", "", "1st sector"},
		{
			"Ref No", "Origin", "Destination", "Delivery To",
			"Flight Date", "Flight Number", "From", "To",
		},
	}
	rows = append(rows, data...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// runParse executes the parse subcommand through the root command and
// returns the decoded batch.
func runParse(t *testing.T, args ...string) *engine.ExtractResult {
	t.Helper()
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")

	var buf bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"parse"}, args...))

	require.NoError(t, root.Execute())

	var result engine.ExtractResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result), "output: %s", buf.String())
	return &result
}

func TestParseCmdFlags(t *testing.T) {
	cmd := cli.NewParseCmd()

	tests := []struct {
		name     string
		flagType string
		defValue string
	}{
		{name: "input", flagType: "string", defValue: "-"},
		{name: "excel", flagType: "string", defValue: ""},
		{name: "sheet", flagType: "string", defValue: ""},
		{name: "resolve", flagType: "bool", defValue: "false"},
		{name: "enrich", flagType: "bool", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.flagType, flag.Value.Type())
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestParseCmdMetadata(t *testing.T) {
	cmd := cli.NewParseCmd()

	assert.Equal(t, "parse", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Example, "carboncalc parse --input manifest.txt")
	assert.Contains(t, cmd.Example, "--excel manifest.xlsx")
}

func TestParseFromFile(t *testing.T) {
	path := writeManifestFile(t, airManifestWithDelivery)

	result := runParse(t, "--input", path)

	assert.Len(t, result.BatchID, 26)
	assert.Zero(t, result.Skipped)
	require.Len(t, result.Shipments, 1)

	shipment := result.Shipments[0]
	assert.Equal(t, "A001", shipment.Reference)
	assert.Equal(t, manifest.TransportAir, shipment.TransportType)
	assert.Equal(t, "123 Main St", shipment.DeliveryTo)

	require.Len(t, shipment.Sectors, 2)
	assert.Equal(t, manifest.ModeAir, shipment.Sectors[0].Mode)
	assert.Equal(t, "SGSIN", shipment.Sectors[0].From)
	assert.Equal(t, "KRICN", shipment.Sectors[0].To)
	assert.Equal(t, "SQ600", shipment.Sectors[0].TransportNumber)

	assert.Equal(t, manifest.ModeTruck, shipment.Sectors[1].Mode)
	assert.Equal(t, "KRICN airport", shipment.Sectors[1].From)
	assert.Equal(t, "123 Main St", shipment.Sectors[1].To)

	// Without --resolve no distances are filled in.
	for _, sector := range shipment.Sectors {
		assert.Nil(t, sector.DistanceKM)
	}
}

func TestParseFromStdin(t *testing.T) {
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")

	var buf bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(airManifestWithDelivery))
	root.SetArgs([]string{"parse"})

	require.NoError(t, root.Execute())

	var result engine.ExtractResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result.Shipments, 1)
	assert.Equal(t, "A001", result.Shipments[0].Reference)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	path := writeManifestFile(t, airManifestWithDelivery+"\n2\tshort line")

	result := runParse(t, "--input", path)

	require.Len(t, result.Shipments, 1)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Notes, 1)
	assert.Contains(t, result.Notes[0], "columns")
}

func TestParseExcel(t *testing.T) {
	path := writeWorkbookFile(t, [][]any{
		{"A001", "SIN", "ICN", "Seoul warehouse", "3/7/2025", "SQ600", "SIN", "ICN"},
	})

	result := runParse(t, "--excel", path)

	require.Len(t, result.Shipments, 1)
	shipment := result.Shipments[0]
	assert.Equal(t, "A001", shipment.Reference)
	assert.Equal(t, manifest.TransportAir, shipment.TransportType)

	// One flight segment plus the delivery truck leg.
	require.Len(t, shipment.Sectors, 2)
	assert.Equal(t, manifest.ModeAir, shipment.Sectors[0].Mode)
	assert.Equal(t, "ICN airport", shipment.Sectors[1].From)
	assert.Equal(t, "Seoul warehouse", shipment.Sectors[1].To)
}

func TestParseExcelSheetSelection(t *testing.T) {
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")
	path := writeWorkbookFile(t, [][]any{
		{"A001", "SIN", "ICN", "", "3/7/2025", "SQ600", "SIN", "ICN"},
	})

	result := runParse(t, "--excel", path, "--sheet", "Sheet1")
	assert.Len(t, result.Shipments, 1)

	root := cli.NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", "--excel", path, "--sheet", "Nope"})
	assert.Error(t, root.Execute())
}

func TestParseConflictingInputs(t *testing.T) {
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")

	root := cli.NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", "--input", "manifest.txt", "--excel", "manifest.xlsx"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine --input and --excel")
}

func TestParseMissingInputFile(t *testing.T) {
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")

	root := cli.NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", "--input", filepath.Join(t.TempDir(), "missing.txt")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading manifest")
}

// TestParseResolve uses facility-code endpoints only, so the whole
// resolution runs against the static table.
func TestParseResolve(t *testing.T) {
	path := writeManifestFile(t, airManifest)

	result := runParse(t, "--input", path, "--resolve")

	require.Len(t, result.Shipments, 1)
	sectors := result.Shipments[0].Sectors
	require.Len(t, sectors, 2)

	// Singapore to Incheon is roughly 4,650 km great circle.
	air := sectors[0]
	require.NotNil(t, air.DistanceKM)
	assert.Greater(t, *air.DistanceKM, 4000.0)
	assert.Less(t, *air.DistanceKM, 5200.0)

	// The delivery leg has an empty destination and stays unresolved.
	assert.Nil(t, sectors[1].DistanceKM)
}

func TestParseEnrichRequiresAPIKey(t *testing.T) {
	t.Setenv("CARBONCALC_LOG_LEVEL", "error")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	path := writeManifestFile(t, airManifest)

	root := cli.NewRootCmd("test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"parse", "--input", path, "--enrich"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}
