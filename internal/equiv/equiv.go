// Package equiv converts carbon emission totals in kg CO2e into
// relatable real-world equivalencies, such as miles driven in an
// average passenger vehicle, using EPA-published conversion factors.
package equiv

import (
	"fmt"
	"math"
)

// EPA formula constants (2024 edition).
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
// Each constant is the kg CO2e equivalent of one unit of the activity;
// equivalency = kg_CO2e / factor.
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger
	// vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per full smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// MinEquivalencyThresholdKg is the minimum kg CO2e for showing
// equivalencies. Below it the equivalencies become meaninglessly
// small.
const MinEquivalencyThresholdKg = 1.0

// Kind identifies an equivalency category.
type Kind int

const (
	// KindMilesDriven converts CO2e to miles driven in an average
	// passenger vehicle.
	KindMilesDriven Kind = iota

	// KindSmartphonesCharged converts CO2e to smartphone full charges.
	KindSmartphonesCharged
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindMilesDriven:
		return "MilesDriven"
	case KindSmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Input is a carbon quantity to convert.
type Input struct {
	// Value is the numeric carbon emission amount.
	Value float64 `json:"value"`

	// Unit is the measurement unit (g, kg, t, lb, and their CO2e
	// variants).
	Unit string `json:"unit"`
}

// Result is a single calculated equivalency.
type Result struct {
	// Kind identifies the equivalency category.
	Kind Kind `json:"kind"`

	// Value is the raw calculated equivalency value.
	Value float64 `json:"value"`

	// FormattedValue is the display-ready string with separators and
	// large-number scaling.
	FormattedValue string `json:"formatted_value"`

	// Label is the descriptive phrase, e.g. "miles driven".
	Label string `json:"label"`
}

// Output carries the equivalency results for display.
type Output struct {
	// InputKg is the normalized input value in kilograms CO2e.
	InputKg float64 `json:"input_kg"`

	// Results contains the calculated equivalencies in display order.
	Results []Result `json:"results"`

	// DisplayText is the prose form for CLI and TUI output, e.g.
	// "Equivalent to driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"display_text"`

	// IsEmpty reports that no equivalencies were calculated.
	IsEmpty bool `json:"is_empty"`
}

// Calculate normalizes input to kilograms and computes EPA-based
// equivalencies as miles driven and smartphones charged.
//
// Inputs below MinEquivalencyThresholdKg produce an empty Output with
// InputKg set and no error. Invalid units and negative values produce
// an empty Output and the normalization error.
func Calculate(input Input) (Output, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return Output{IsEmpty: true}, err
	}

	if kg < MinEquivalencyThresholdKg {
		return Output{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	if math.IsInf(miles, 0) || math.IsNaN(miles) ||
		math.IsInf(phones, 0) || math.IsNaN(phones) {
		return Output{IsEmpty: true}, ErrCalculationOverflow
	}

	milesFormatted := formatValue(miles)
	phonesFormatted := formatValue(phones)

	results := []Result{
		{
			Kind:           KindMilesDriven,
			Value:          miles,
			FormattedValue: milesFormatted,
			Label:          "miles driven",
		},
		{
			Kind:           KindSmartphonesCharged,
			Value:          phones,
			FormattedValue: phonesFormatted,
			Label:          "smartphones charged",
		},
	}

	displayText := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		milesFormatted, phonesFormatted)

	return Output{
		InputKg:     kg,
		Results:     results,
		DisplayText: displayText,
		IsEmpty:     false,
	}, nil
}

// formatValue renders an equivalency value for display: abbreviated
// scaling for million-plus values, otherwise a comma-separated integer.
func formatValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
