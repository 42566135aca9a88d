package emissions

import (
	"fmt"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/manifest"
)

// Vehicle subtypes recognized by the factor table. Road and sea subtypes
// are table keys; air subtypes are combined with a distance band suffix.
const (
	SubtypeHeavyFull = "heavy_full"
	SubtypeHeavyAvg  = "heavy_avg"
	SubtypeMedium    = "medium"
	SubtypeLight     = "light"

	SubtypeFreighter = "freighter"
	SubtypeBelly     = "belly"

	SubtypeContainer    = "container"
	SubtypeBulkCarrier  = "bulk_carrier"
	SubtypeTanker       = "tanker"
	SubtypeGeneralCargo = "general_cargo"
)

// Air factor keys are banded by distance.
const (
	bandShortSuffix = "_short"
	bandLongSuffix  = "_long"
)

// DefaultShortHaulMaxKM is the inclusive upper bound of the short haul band.
const DefaultShortHaulMaxKM = 1500.0

// DefaultTableVersion identifies the built-in factor set.
const DefaultTableVersion = "1.0.0"

// Table holds emission factors in kgCO2e per tonne-km, grouped by mode.
// Air factors are keyed by subtype plus distance band, for example
// "belly_short" or "freighter_long".
type Table struct {
	Version        string             `yaml:"version" json:"version"`
	ShortHaulMaxKM float64            `yaml:"short_haul_max_km" json:"short_haul_max_km"`
	Road           map[string]float64 `yaml:"road" json:"road"`
	Air            map[string]float64 `yaml:"air" json:"air"`
	Sea            map[string]float64 `yaml:"sea" json:"sea"`
}

// DefaultTable returns the built-in factor set.
func DefaultTable() *Table {
	return &Table{
		Version:        DefaultTableVersion,
		ShortHaulMaxKM: DefaultShortHaulMaxKM,
		Road: map[string]float64{
			SubtypeHeavyFull: 0.05,
			SubtypeHeavyAvg:  0.08,
			SubtypeMedium:    0.20,
			SubtypeLight:     0.40,
		},
		Air: map[string]float64{
			SubtypeFreighter + bandLongSuffix:  0.50,
			SubtypeBelly + bandLongSuffix:      0.77,
			SubtypeFreighter + bandShortSuffix: 1.20,
			SubtypeBelly + bandShortSuffix:     0.98,
		},
		Sea: map[string]float64{
			SubtypeContainer:    0.015,
			SubtypeBulkCarrier:  0.010,
			SubtypeTanker:       0.012,
			SubtypeGeneralCargo: 0.020,
		},
	}
}

// LoadTable reads a factor table from a YAML file and validates it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor table: %w", err)
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing factor table %s: %w", path, err)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("factor table %s: %w", path, err)
	}

	return &table, nil
}

// Validate checks that the table is internally usable: a semantic version,
// a positive short haul threshold, non-negative factors, and the fallback
// keys the selector relies on.
func (t *Table) Validate() error {
	if t.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidTable)
	}
	if _, err := semver.NewVersion(t.Version); err != nil {
		return fmt.Errorf("%w: version %q is not semantic: %v", ErrInvalidTable, t.Version, err)
	}
	if t.ShortHaulMaxKM <= 0 {
		return fmt.Errorf("%w: short_haul_max_km must be positive", ErrInvalidTable)
	}

	groups := map[string]map[string]float64{
		"road": t.Road,
		"air":  t.Air,
		"sea":  t.Sea,
	}
	for name, group := range groups {
		if len(group) == 0 {
			return fmt.Errorf("%w: %s factors are missing", ErrInvalidTable, name)
		}
		for subtype, factor := range group {
			if factor < 0 {
				return fmt.Errorf("%w: %s.%s is negative", ErrInvalidTable, name, subtype)
			}
		}
	}

	required := []struct {
		group map[string]float64
		name  string
		key   string
	}{
		{t.Road, "road", SubtypeHeavyAvg},
		{t.Sea, "sea", SubtypeContainer},
		{t.Air, "air", SubtypeBelly + bandShortSuffix},
		{t.Air, "air", SubtypeBelly + bandLongSuffix},
		{t.Air, "air", SubtypeFreighter + bandShortSuffix},
		{t.Air, "air", SubtypeFreighter + bandLongSuffix},
	}
	for _, req := range required {
		if _, ok := req.group[req.key]; !ok {
			return fmt.Errorf("%w: %s.%s is required", ErrInvalidTable, req.name, req.key)
		}
	}

	return nil
}

// Select returns the emission factor for a leg. Unknown road and sea
// subtypes fall back to the mode default, air subtypes other than
// freighter are treated as belly freight, and an unresolved distance
// counts as short haul. Unknown modes carry a zero factor.
func (t *Table) Select(mode manifest.Mode, subtype string, distanceKM *float64) float64 {
	switch mode {
	case manifest.ModeTruck:
		if factor, ok := t.Road[subtype]; ok {
			return factor
		}
		return t.Road[SubtypeHeavyAvg]
	case manifest.ModeAir:
		distance := 0.0
		if distanceKM != nil {
			distance = *distanceKM
		}
		base := SubtypeBelly
		if subtype == SubtypeFreighter {
			base = SubtypeFreighter
		}
		if distance <= t.ShortHaulMaxKM {
			return t.Air[base+bandShortSuffix]
		}
		return t.Air[base+bandLongSuffix]
	case manifest.ModeSea:
		if factor, ok := t.Sea[subtype]; ok {
			return factor
		}
		return t.Sea[SubtypeContainer]
	default:
		return 0.0
	}
}

// SubtypeForMode maps a transport mode to the subtype chosen in params.
func (p Params) SubtypeForMode(mode manifest.Mode) string {
	normalized := p.WithDefaults()
	switch mode {
	case manifest.ModeTruck:
		return normalized.RoadSubtype
	case manifest.ModeAir:
		return normalized.AirSubtype
	case manifest.ModeSea:
		return normalized.SeaSubtype
	default:
		return "default"
	}
}

// Describe renders the factor groups in a stable order for display.
func (t *Table) Describe() []string {
	lines := make([]string, 0, len(t.Road)+len(t.Air)+len(t.Sea))
	for _, group := range []struct {
		name    string
		factors map[string]float64
	}{
		{"road", t.Road},
		{"air", t.Air},
		{"sea", t.Sea},
	} {
		keys := make([]string, 0, len(group.factors))
		for key := range group.factors {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			lines = append(lines, fmt.Sprintf("%s.%s=%.3f", group.name, key, group.factors[key]))
		}
	}
	return lines
}
