package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/engine"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/geo"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// missGeocoder stands in for the network tiers and never matches, so
// only the static facility table resolves locations.
type missGeocoder struct{}

func (missGeocoder) Name() string { return "miss" }

func (missGeocoder) Geocode(context.Context, string) (geo.Coordinates, error) {
	return geo.Coordinates{}, geo.ErrNoMatch
}

type stubNormalizer struct {
	got     []string
	mapping map[string]string
	err     error
}

func (s *stubNormalizer) Name() string { return "stub" }

func (s *stubNormalizer) Normalize(_ context.Context, locations []string) (map[string]string, error) {
	s.got = locations
	if s.err != nil {
		return nil, s.err
	}
	return s.mapping, nil
}

func newTestEngine(normalizer *stubNormalizer) *engine.Engine {
	resolver := geo.NewResolver(geo.NewMemoryCache(),
		geo.DefaultStrategies(geo.DefaultFacilities(), missGeocoder{})...)
	if normalizer == nil {
		return engine.New(resolver, nil, nil)
	}
	return engine.New(resolver, nil, normalizer)
}

const singleAirManifest = "1\tA001\tNO PICKUP\tSGSIN\tKRICN\t123 Main St\t3/7/2025\tSQ600\tSGSIN\tKRICN"

func TestExtract(t *testing.T) {
	eng := newTestEngine(nil)

	result, err := eng.Extract(context.Background(), singleAirManifest)
	require.NoError(t, err)
	require.Len(t, result.Shipments, 1)
	assert.Len(t, result.BatchID, 26)
	assert.Zero(t, result.Skipped)

	sectors := result.Shipments[0].Sectors
	require.Len(t, sectors, 2)

	// The flight endpoints are UN/LOCODEs the facility table knows.
	flight := sectors[0]
	assert.Equal(t, manifest.ModeAir, flight.Mode)
	require.NotNil(t, flight.DistanceKM)
	assert.Greater(t, *flight.DistanceKM, 4000.0)
	assert.Less(t, *flight.DistanceKM, 5200.0)

	// The delivery address cannot be resolved without a live geocoder.
	delivery := sectors[1]
	assert.Equal(t, manifest.ModeTruck, delivery.Mode)
	assert.Nil(t, delivery.DistanceKM)
}

func TestExtractEmptyText(t *testing.T) {
	eng := newTestEngine(nil)

	result, err := eng.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, result.Shipments)
	assert.NotEmpty(t, result.BatchID)
}

func TestExtractWithNormalizer(t *testing.T) {
	normalizer := &stubNormalizer{
		mapping: map[string]string{"123 Main St": "SGSIN"},
	}
	eng := newTestEngine(normalizer)

	result, err := eng.Extract(context.Background(), singleAirManifest)
	require.NoError(t, err)
	require.Len(t, result.Shipments, 1)

	// The normalizer saw the distinct endpoints in sorted order.
	assert.Equal(t, []string{"123 Main St", "KRICN", "KRICN airport", "SGSIN"}, normalizer.got)

	// With the delivery address normalized to a known code, the final
	// road leg resolves too.
	sectors := result.Shipments[0].Sectors
	require.Len(t, sectors, 2)
	assert.Equal(t, "SGSIN", sectors[1].To)
	require.NotNil(t, sectors[1].DistanceKM)
}

func TestExtractNormalizerFailureDegrades(t *testing.T) {
	normalizer := &stubNormalizer{err: errors.New("model unavailable")}
	eng := newTestEngine(normalizer)

	result, err := eng.Extract(context.Background(), singleAirManifest)
	require.NoError(t, err)
	require.Len(t, result.Shipments, 1)

	// Enrichment failure leaves the raw endpoints in place.
	sectors := result.Shipments[0].Sectors
	assert.Equal(t, "123 Main St", sectors[1].To)
	require.NotNil(t, sectors[0].DistanceKM)
}

func TestExtractContextCanceled(t *testing.T) {
	eng := newTestEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Extract(ctx, singleAirManifest)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculate(t *testing.T) {
	eng := newTestEngine(nil)
	dist := 4000.0
	shipments := []manifest.ShipmentRecord{
		{
			Reference: "A001",
			Sectors: []manifest.Sector{
				{Index: 1, Mode: manifest.ModeAir, DistanceKM: &dist},
				{Index: 2, Mode: manifest.ModeTruck},
			},
		},
	}

	result := eng.Calculate(context.Background(), shipments, emissions.Params{WeightKG: 1000})

	require.Len(t, result.Results, 1)
	assert.Len(t, result.BatchID, 26)

	// 1 tonne over 4000 km of long haul belly freight.
	assert.InDelta(t, 3080.0, result.Results[0].TotalEmissionsKG, 1e-9)
	assert.Equal(t, 1, result.Results[0].UnresolvedSectors)

	// The response parameters echo the applied defaults.
	assert.Equal(t, "heavy_avg", result.Parameters.RoadSubtype)
	assert.Equal(t, "belly", result.Parameters.AirSubtype)
	assert.Equal(t, "container", result.Parameters.SeaSubtype)
}

func TestProcess(t *testing.T) {
	eng := newTestEngine(nil)

	extracted, calculated, err := eng.Process(context.Background(), singleAirManifest, emissions.Params{WeightKG: 500})
	require.NoError(t, err)
	require.Len(t, extracted.Shipments, 1)
	require.Len(t, calculated.Results, 1)

	result := calculated.Results[0]
	assert.Equal(t, "A001", result.Reference)
	assert.Equal(t, 1, result.UnresolvedSectors)

	// Half a tonne over the resolved flight leg at the long haul belly
	// factor; the unresolved road leg adds nothing.
	flightDistance := *extracted.Shipments[0].Sectors[0].DistanceKM
	assert.InDelta(t, 0.5*flightDistance*0.77, result.TotalEmissionsKG, 1e-6)
}

func TestProcessNothingResolves(t *testing.T) {
	// An empty facility table and a dead geocoder leave every endpoint
	// unresolved. Factors still attach to each leg (nil distance counts
	// as short haul) but every distance term, and so the total, is zero.
	resolver := geo.NewResolver(geo.NewMemoryCache(),
		geo.DefaultStrategies(geo.FacilityTable{}, missGeocoder{})...)
	eng := engine.New(resolver, nil, nil)

	extracted, calculated, err := eng.Process(context.Background(), singleAirManifest, emissions.Params{
		WeightKG:   400,
		AirSubtype: "belly",
	})
	require.NoError(t, err)
	require.Len(t, extracted.Shipments, 1)
	require.Len(t, calculated.Results, 1)

	sectors := extracted.Shipments[0].Sectors
	require.Len(t, sectors, 2)
	assert.Nil(t, sectors[0].DistanceKM)
	assert.Nil(t, sectors[1].DistanceKM)

	result := calculated.Results[0]
	assert.Equal(t, 2, result.UnresolvedSectors)
	require.Len(t, result.Sectors, 2)
	assert.InDelta(t, 0.98, result.Sectors[0].EmissionFactor, 1e-9)
	assert.InDelta(t, 0.08, result.Sectors[1].EmissionFactor, 1e-9)
	assert.Zero(t, result.Sectors[0].EmissionsKG)
	assert.Zero(t, result.Sectors[1].EmissionsKG)
	assert.Zero(t, result.TotalEmissionsKG)
}
