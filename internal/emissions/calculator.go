package emissions

import (
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// Calculator applies a factor table to sequenced shipments.
type Calculator struct {
	table *Table
}

// NewCalculator returns a calculator backed by the given table, falling
// back to the built-in table when nil.
func NewCalculator(table *Table) *Calculator {
	if table == nil {
		table = DefaultTable()
	}
	return &Calculator{table: table}
}

// Table exposes the factor table the calculator was built with.
func (c *Calculator) Table() *Table {
	return c.table
}

// Shipment computes the emissions breakdown for a single shipment.
// Emissions per leg are weight in tonnes times distance in km times the
// selected factor. Legs without a resolved distance contribute zero and
// are counted in UnresolvedSectors.
func (c *Calculator) Shipment(record manifest.ShipmentRecord, params Params) Result {
	params = params.WithDefaults()
	weightTonnes := params.WeightKG / 1000.0

	result := Result{
		Reference: record.Reference,
		Sectors:   make([]SectorResult, 0, len(record.Sectors)),
	}

	for _, sector := range record.Sectors {
		distance := 0.0
		if sector.DistanceKM != nil {
			distance = *sector.DistanceKM
		} else {
			result.UnresolvedSectors++
		}

		subtype := params.SubtypeForMode(sector.Mode)
		factor := c.table.Select(sector.Mode, subtype, sector.DistanceKM)
		legEmissions := weightTonnes * distance * factor

		result.TotalEmissionsKG += legEmissions
		result.Sectors = append(result.Sectors, SectorResult{
			Sector:         sector,
			EmissionFactor: factor,
			EmissionsKG:    legEmissions,
		})
	}

	return result
}

// Batch computes results for each shipment in order.
func (c *Calculator) Batch(records []manifest.ShipmentRecord, params Params) []Result {
	results := make([]Result, 0, len(records))
	for _, record := range records {
		results = append(results, c.Shipment(record, params))
	}
	return results
}
