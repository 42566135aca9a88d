// Package emissions selects emission factors and computes Scope 1 CO2e
// figures for sequenced shipments. Factors are keyed by transport mode,
// vehicle subtype, and for air legs a distance band split at the short
// haul threshold.
package emissions

import (
	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// Params selects the cargo weight and per-mode vehicle subtypes for a
// calculation run. Zero values fall back to the conventional defaults.
type Params struct {
	WeightKG    float64 `yaml:"weight_kg" json:"weight_kg"`
	RoadSubtype string  `yaml:"road_subtype" json:"road_subtype"`
	AirSubtype  string  `yaml:"air_subtype" json:"air_subtype"`
	SeaSubtype  string  `yaml:"sea_subtype" json:"sea_subtype"`
}

// DefaultParams returns the subtype selection used when a caller does not
// specify one: an average-load heavy truck, belly freight, and a container
// vessel.
func DefaultParams() Params {
	return Params{
		RoadSubtype: SubtypeHeavyAvg,
		AirSubtype:  SubtypeBelly,
		SeaSubtype:  SubtypeContainer,
	}
}

// WithDefaults fills any empty subtype from DefaultParams.
func (p Params) WithDefaults() Params {
	defaults := DefaultParams()
	if p.RoadSubtype == "" {
		p.RoadSubtype = defaults.RoadSubtype
	}
	if p.AirSubtype == "" {
		p.AirSubtype = defaults.AirSubtype
	}
	if p.SeaSubtype == "" {
		p.SeaSubtype = defaults.SeaSubtype
	}
	return p
}

// SectorResult is one leg of a shipment annotated with the factor applied
// to it and the emissions it contributed.
type SectorResult struct {
	manifest.Sector

	EmissionFactor float64 `json:"emission_factor"`
	EmissionsKG    float64 `json:"emissions_kg"`
}

// Result is the emissions breakdown for a single shipment.
type Result struct {
	Reference        string         `json:"ref_no"`
	TotalEmissionsKG float64        `json:"total_emissions_kg"`
	Sectors          []SectorResult `json:"by_sector"`

	// UnresolvedSectors counts legs whose distance could not be resolved
	// and therefore contributed zero to the total.
	UnresolvedSectors int `json:"unresolved_sectors,omitempty"`
}
