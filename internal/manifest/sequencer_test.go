package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

func TestIsNoPickup(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: true},
		{name: "blank", value: "   ", want: true},
		{name: "canonical sentinel", value: "NO PICKUP", want: true},
		{name: "lower case sentinel", value: "no pickup", want: true},
		{name: "mixed case sentinel", value: "No Pickup", want: true},
		{name: "n/a", value: "n/a", want: true},
		{name: "na", value: "NA", want: true},
		{name: "none padded", value: "  none  ", want: true},
		{name: "real address", value: "Industriestrasse 5, Wallisellen", want: false},
		{name: "address containing sentinel word", value: "None Street 4", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manifest.IsNoPickup(tt.value))
		})
	}
}

func TestSequenceAirWithPickup(t *testing.T) {
	rec := manifest.ShipmentRecord{
		Reference:     "A1024",
		PickupFrom:    "Acme Fabrik AG",
		Origin:        "ZRH",
		Destination:   "JFK",
		DeliveryTo:    "123 Liberty St",
		TransportType: manifest.TransportAir,
		Sectors: []manifest.Sector{
			{Index: 1, Mode: manifest.ModeAir, From: "ZRH", To: "JFK", TransportNumber: "LX14", TransportDate: "15/3/2025"},
		},
	}

	manifest.Sequence(&rec)

	require.Len(t, rec.Sectors, 3)
	assert.Equal(t, manifest.ModeTruck, rec.Sectors[0].Mode)
	assert.Equal(t, "Acme Fabrik AG", rec.Sectors[0].From)
	assert.Equal(t, "ZRH airport", rec.Sectors[0].To)

	assert.Equal(t, manifest.ModeAir, rec.Sectors[1].Mode)

	assert.Equal(t, manifest.ModeTruck, rec.Sectors[2].Mode)
	assert.Equal(t, "JFK airport", rec.Sectors[2].From)
	assert.Equal(t, "123 Liberty St", rec.Sectors[2].To)

	for i, s := range rec.Sectors {
		assert.Equal(t, i+1, s.Index)
	}
}

func TestSequenceSeaUsesSeaportSuffix(t *testing.T) {
	rec := manifest.ShipmentRecord{
		Reference:     "S2001",
		PickupFrom:    "Warehouse 7",
		Origin:        "DEHAM",
		Destination:   "CNSHA",
		DeliveryTo:    "Free Trade Zone",
		TransportType: manifest.TransportSea,
		Sectors: []manifest.Sector{
			{Index: 1, Mode: manifest.ModeSea, From: "DEHAM", To: "CNSHA"},
		},
	}

	manifest.Sequence(&rec)

	require.Len(t, rec.Sectors, 3)
	assert.Equal(t, "DEHAM seaport", rec.Sectors[0].To)
	assert.Equal(t, "CNSHA seaport", rec.Sectors[2].From)
}

func TestSequenceSentinelSuppressesPickupLeg(t *testing.T) {
	rec := manifest.ShipmentRecord{
		Reference:     "A001",
		PickupFrom:    "N/A",
		Origin:        "SGSIN",
		Destination:   "KRICN",
		DeliveryTo:    "123 Main St",
		TransportType: manifest.TransportAir,
		Sectors: []manifest.Sector{
			{Index: 1, Mode: manifest.ModeAir, From: "SGSIN", To: "KRICN"},
		},
	}

	manifest.Sequence(&rec)

	require.Len(t, rec.Sectors, 2)
	assert.Equal(t, manifest.ModeAir, rec.Sectors[0].Mode)
	assert.Equal(t, manifest.ModeTruck, rec.Sectors[1].Mode)
}

func TestSequenceUnknownTypeWithoutBaseLegs(t *testing.T) {
	rec := manifest.ShipmentRecord{
		Reference:     "X9",
		PickupFrom:    "",
		Origin:        "ZRH",
		Destination:   "JFK",
		DeliveryTo:    "Somewhere",
		TransportType: manifest.TransportUnknown,
	}

	manifest.Sequence(&rec)

	// Empty pickup is a sentinel, so only the delivery leg remains.
	require.Len(t, rec.Sectors, 1)
	assert.Equal(t, 1, rec.Sectors[0].Index)
	assert.Equal(t, manifest.ModeTruck, rec.Sectors[0].Mode)
	assert.Equal(t, "JFK seaport", rec.Sectors[0].From)
	assert.Equal(t, "Somewhere", rec.Sectors[0].To)
}
