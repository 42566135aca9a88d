package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/ingest"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

func TestToShipments(t *testing.T) {
	records := []ingest.Record{
		{
			Reference:   "A001",
			Scenario:    ingest.ScenarioBaseline,
			Mode:        "air",
			Origin:      "SIN",
			Destination: "ICN",
			Notes:       "Seoul warehouse",
			Segments: []ingest.Segment{
				{FlightDate: "3/7/2025", FlightNumber: "SQ600", From: "SIN", To: "ICN"},
			},
		},
	}

	shipments := ingest.ToShipments(records)
	require.Len(t, shipments, 1)

	shipment := shipments[0]
	assert.Equal(t, "A001", shipment.Reference)
	assert.Equal(t, manifest.TransportAir, shipment.TransportType)
	assert.Equal(t, "Seoul warehouse", shipment.DeliveryTo)

	// No pickup column exists in the workbook, so the journey starts at
	// the first flight and ends with the delivery road leg.
	require.Len(t, shipment.Sectors, 2)

	flight := shipment.Sectors[0]
	assert.Equal(t, 1, flight.Index)
	assert.Equal(t, manifest.ModeAir, flight.Mode)
	assert.Equal(t, "SIN", flight.From)
	assert.Equal(t, "ICN", flight.To)
	assert.Equal(t, "SQ600", flight.TransportNumber)
	assert.Equal(t, "3/7/2025", flight.TransportDate)

	delivery := shipment.Sectors[1]
	assert.Equal(t, 2, delivery.Index)
	assert.Equal(t, manifest.ModeTruck, delivery.Mode)
	assert.Equal(t, "ICN airport", delivery.From)
	assert.Equal(t, "Seoul warehouse", delivery.To)
}

func TestToShipmentsMultiLeg(t *testing.T) {
	records := []ingest.Record{
		{
			Reference:   "A002",
			Origin:      "SIN",
			Destination: "ZRH",
			Segments: []ingest.Segment{
				{FlightNumber: "SQ328", From: "SIN", To: "DXB"},
				{FlightNumber: "SQ345", From: "DXB", To: "ZRH"},
			},
		},
	}

	shipments := ingest.ToShipments(records)
	require.Len(t, shipments, 1)

	sectors := shipments[0].Sectors
	require.Len(t, sectors, 3)
	assert.Equal(t, manifest.ModeAir, sectors[0].Mode)
	assert.Equal(t, manifest.ModeAir, sectors[1].Mode)
	assert.Equal(t, manifest.ModeTruck, sectors[2].Mode)
	assert.Equal(t, "ZRH airport", sectors[2].From)
	assert.Empty(t, sectors[2].To)

	for i, sector := range sectors {
		assert.Equal(t, i+1, sector.Index)
	}
}

func TestToShipmentsEmpty(t *testing.T) {
	assert.Empty(t, ingest.ToShipments(nil))
}
