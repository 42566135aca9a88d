// Package enrich normalizes free-form manifest locations into forms a
// geocoder can resolve, for example "PHMNS seaport" into "Port of
// Manila, Philippines". Normalization is best effort: callers fall back
// to the identity mapping when a normalizer fails.
package enrich

import (
	"context"
	"sort"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// Normalizer maps raw location strings to geocodable address strings.
// The returned map has an entry for every requested location.
type Normalizer interface {
	Name() string
	Normalize(ctx context.Context, locations []string) (map[string]string, error)
}

// NopNormalizer returns every location unchanged.
type NopNormalizer struct{}

func (NopNormalizer) Name() string {
	return "nop"
}

func (NopNormalizer) Normalize(_ context.Context, locations []string) (map[string]string, error) {
	return Identity(locations), nil
}

// Identity builds the mapping that leaves every location unchanged.
func Identity(locations []string) map[string]string {
	mapping := make(map[string]string, len(locations))
	for _, loc := range locations {
		mapping[loc] = loc
	}
	return mapping
}

// CollectLocations gathers the distinct sector endpoints of the given
// shipments, sorted for a stable prompt and stable tests.
func CollectLocations(records []manifest.ShipmentRecord) []string {
	seen := make(map[string]bool)
	var locations []string
	for _, record := range records {
		for _, sector := range record.Sectors {
			for _, loc := range []string{sector.From, sector.To} {
				if loc == "" || seen[loc] {
					continue
				}
				seen[loc] = true
				locations = append(locations, loc)
			}
		}
	}
	sort.Strings(locations)
	return locations
}

// Remap rewrites every sector endpoint through the mapping, leaving
// endpoints without an entry untouched. It returns the records it was
// given, modified in place.
func Remap(records []manifest.ShipmentRecord, mapping map[string]string) []manifest.ShipmentRecord {
	for i := range records {
		for j := range records[i].Sectors {
			sector := &records[i].Sectors[j]
			if normalized, ok := mapping[sector.From]; ok {
				sector.From = normalized
			}
			if normalized, ok := mapping[sector.To]; ok {
				sector.To = normalized
			}
		}
	}
	return records
}
