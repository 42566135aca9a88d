package equiv

import (
	"math"
	"strings"
)

// Unit conversion constants for normalizing carbon values to
// kilograms.
const (
	// GramsToKg converts grams to kilograms.
	GramsToKg = 0.001

	// KgToKg is the identity conversion for kilograms.
	KgToKg = 1.0

	// TonnesToKg converts metric tonnes to kilograms.
	TonnesToKg = 1000.0

	// PoundsToKg converts pounds to kilograms.
	PoundsToKg = 0.453592
)

// unitFactor returns the conversion factor to kilograms for the unit,
// matching case-insensitively, and whether the unit is recognized.
func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonnesToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity in any recognized unit to
// kilograms. Recognized units are g, kg, t, lb and their CO2e
// variants, matching case-insensitively.
//
// Returns ErrNegativeValue for negative values, ErrInvalidUnit for
// unrecognized units, and ErrCalculationOverflow when the input or the
// converted value is not a finite number.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}
