package ingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/ingest"
)

// buildManifestWorkbook writes a July-style sheet: a title row, a band
// row with merged-style sector names, the column header row, then data.
func buildManifestWorkbook(t *testing.T, data [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"July Air Freight Manifest"},
		{"", "", "", "", "1st sector", "", "", "", "2nd Sector"},
		{
			"Ref No", "Origin", "Destination", "Delivery To",
			"Flight Date", "Flight Number", "From", "To",
			"Flight Date", "Flight Number", "From", "To",
		},
	}
	rows = append(rows, data...)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadManifest(t *testing.T) {
	workbook := buildManifestWorkbook(t, [][]any{
		{"A001", "SIN", "ICN", "Seoul warehouse", "3/7/2025", "SQ600", "SIN", "ICN"},
		{
			"A002", "SIN", "ZRH", "",
			"4/7/2025", "SQ328", "SIN", "DXB",
			"5/7/2025", "SQ345", "DXB", "ZRH",
		},
	})

	result, err := ingest.ReadManifest(bytes.NewReader(workbook), "")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Equal(t, 2, result.Count)

	first := result.Records[0]
	assert.Equal(t, "A001", first.Reference)
	assert.Equal(t, ingest.ScenarioBaseline, first.Scenario)
	assert.Equal(t, "air", first.Mode)
	assert.Equal(t, "SIN", first.Origin)
	assert.Equal(t, "ICN", first.Destination)
	assert.Equal(t, "Seoul warehouse", first.Notes)
	require.Len(t, first.Segments, 1)
	assert.Equal(t, ingest.Segment{
		FlightDate:   "3/7/2025",
		FlightNumber: "SQ600",
		From:         "SIN",
		To:           "ICN",
	}, first.Segments[0])

	second := result.Records[1]
	require.Len(t, second.Segments, 2)
	assert.Equal(t, "DXB", second.Segments[0].To)
	assert.Equal(t, "DXB", second.Segments[1].From)
	assert.Empty(t, second.Notes)
}

func TestReadManifestSkipsBlankReferences(t *testing.T) {
	workbook := buildManifestWorkbook(t, [][]any{
		{"A001", "SIN", "ICN", "", "3/7/2025", "SQ600", "SIN", "ICN"},
		{"", "SIN", "ZRH", "stray row without a reference"},
		{"   ", "SIN", "ZRH", "whitespace reference"},
	})

	result, err := ingest.ReadManifest(bytes.NewReader(workbook), "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestReadManifestDropsHalfFilledSegments(t *testing.T) {
	workbook := buildManifestWorkbook(t, [][]any{
		{
			"A003", "SIN", "ZRH", "",
			"4/7/2025", "SQ328", "SIN", "",
			"", "", "DXB", "ZRH",
		},
	})

	result, err := ingest.ReadManifest(bytes.NewReader(workbook), "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	// The first block lacks a "To", so only the complete block survives.
	segments := result.Records[0].Segments
	require.Len(t, segments, 1)
	assert.Equal(t, "DXB", segments[0].From)
	assert.Equal(t, "ZRH", segments[0].To)
}

func TestReadManifestExplicitSheet(t *testing.T) {
	workbook := buildManifestWorkbook(t, [][]any{
		{"A001", "SIN", "ICN", "", "3/7/2025", "SQ600", "SIN", "ICN"},
	})

	result, err := ingest.ReadManifest(bytes.NewReader(workbook), "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	_, err = ingest.ReadManifest(bytes.NewReader(workbook), "Nope")
	assert.Error(t, err)
}

func TestReadManifestMissingHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Reference", "Origin"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ingest.ReadManifest(bytes.NewReader(buf.Bytes()), "")
	assert.ErrorIs(t, err, ingest.ErrHeaderNotFound)
}

func TestReadManifestMissingRequiredColumns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Ref No", "Destination"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"A001", "ICN"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := ingest.ReadManifest(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Zero(t, result.Count)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Missing required column 'Origin'.", result.Errors[0])
}

func TestReadManifestNotAWorkbook(t *testing.T) {
	_, err := ingest.ReadManifest(strings.NewReader("ref\torigin\tdest"), "")
	assert.Error(t, err)
}
