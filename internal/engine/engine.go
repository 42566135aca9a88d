// Package engine wires the pipeline stages together: manifest parsing,
// address enrichment, distance resolution, and emissions calculation.
// The HTTP server and the CLI both drive their operations through it.
package engine

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/emissions"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/enrich"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/geo"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/logging"
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// Engine runs the extraction and calculation pipelines.
type Engine struct {
	resolver   *geo.Resolver
	calculator *emissions.Calculator
	normalizer enrich.Normalizer
}

// New builds an engine around a location resolver. A nil calculator
// falls back to the built-in factor table; a nil normalizer skips
// address enrichment.
func New(resolver *geo.Resolver, calculator *emissions.Calculator, normalizer enrich.Normalizer) *Engine {
	if calculator == nil {
		calculator = emissions.NewCalculator(nil)
	}
	return &Engine{
		resolver:   resolver,
		calculator: calculator,
		normalizer: normalizer,
	}
}

// Calculator exposes the calculator, mainly for surfaces that need the
// factor table behind it.
func (e *Engine) Calculator() *emissions.Calculator {
	return e.calculator
}

// Normalizer reports the configured address normalizer, nil when
// enrichment is disabled.
func (e *Engine) Normalizer() enrich.Normalizer {
	return e.normalizer
}

// ExtractResult is the outcome of parsing and resolving one manifest.
type ExtractResult struct {
	BatchID   string                    `json:"batch_id"`
	Shipments []manifest.ShipmentRecord `json:"parsed_shipments"`
	Skipped   int                       `json:"skipped,omitempty"`
	Notes     []string                  `json:"notes,omitempty"`
}

// CalculateResult pairs per-shipment emissions with the parameters that
// produced them.
type CalculateResult struct {
	BatchID    string             `json:"batch_id"`
	Results    []emissions.Result `json:"emission_results"`
	Parameters emissions.Params   `json:"parameters"`
}

// Extract parses manifest text, normalizes the endpoint addresses when a
// normalizer is configured, and resolves every sector distance. The only
// error it returns is context cancellation; malformed lines surface as
// skip counts and notes instead.
func (e *Engine) Extract(ctx context.Context, text string) (*ExtractResult, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "engine")
	start := time.Now()
	batchID := ulid.Make().String()

	parsed := manifest.Parse(ctx, text)
	shipments, err := e.Resolve(ctx, parsed.Shipments)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("operation", "extract").
		Str("batch_id", batchID).
		Int("shipments", len(shipments)).
		Int("skipped", parsed.Skipped).
		Dur("duration", time.Since(start)).
		Msg("manifest extracted")

	return &ExtractResult{
		BatchID:   batchID,
		Shipments: shipments,
		Skipped:   parsed.Skipped,
		Notes:     parsed.Notes,
	}, nil
}

// Resolve normalizes sector endpoints and fills in leg distances. It
// modifies the given records in place and returns them. Endpoints that
// cannot be resolved leave their sector distance nil.
func (e *Engine) Resolve(ctx context.Context, shipments []manifest.ShipmentRecord) ([]manifest.ShipmentRecord, error) {
	log := logging.ComponentLogger(logging.FromContext(ctx), "engine")

	if e.normalizer != nil {
		locations := enrich.CollectLocations(shipments)
		mapping, err := e.normalizer.Normalize(ctx, locations)
		if err != nil {
			log.Warn().Err(err).Str("normalizer", e.normalizer.Name()).
				Msg("address enrichment failed, using raw locations")
			mapping = enrich.Identity(locations)
		}
		shipments = enrich.Remap(shipments, mapping)
	}

	resolved, unresolved := 0, 0
	for i := range shipments {
		for j := range shipments[i].Sectors {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sector := &shipments[i].Sectors[j]
			sector.DistanceKM = e.resolver.LegDistanceKM(ctx, sector.From, sector.To)
			if sector.DistanceKM == nil {
				unresolved++
			} else {
				resolved++
			}
		}
	}

	log.Debug().
		Str("operation", "resolve").
		Int("resolved", resolved).
		Int("unresolved", unresolved).
		Msg("sector distances resolved")

	return shipments, nil
}

// Calculate applies the factor table to already resolved shipments.
func (e *Engine) Calculate(ctx context.Context, shipments []manifest.ShipmentRecord, params emissions.Params) *CalculateResult {
	log := logging.ComponentLogger(logging.FromContext(ctx), "engine")
	start := time.Now()
	batchID := ulid.Make().String()

	results := e.calculator.Batch(shipments, params)

	total := 0.0
	for _, result := range results {
		total += result.TotalEmissionsKG
	}
	log.Info().
		Str("operation", "calculate").
		Str("batch_id", batchID).
		Int("shipments", len(shipments)).
		Float64("total_emissions_kg", total).
		Dur("duration", time.Since(start)).
		Msg("emissions calculated")

	return &CalculateResult{
		BatchID:    batchID,
		Results:    results,
		Parameters: params.WithDefaults(),
	}
}

// Process runs Extract and Calculate back to back for one manifest.
func (e *Engine) Process(ctx context.Context, text string, params emissions.Params) (*ExtractResult, *CalculateResult, error) {
	extracted, err := e.Extract(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	calculated := e.Calculate(ctx, extracted.Shipments, params)
	return extracted, calculated, nil
}
