package equiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		input       Input
		wantMiles   float64
		wantPhones  float64
		wantIsEmpty bool
		errType     error
	}{
		{
			name:       "150kg reference value",
			input:      Input{Value: 150.0, Unit: "kg"},
			wantMiles:  781.25, // 150 / 0.192
			wantPhones: 18248.18,
		},
		{
			name:       "grams normalized",
			input:      Input{Value: 150000.0, Unit: "g"},
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:       "tonnes normalized",
			input:      Input{Value: 0.15, Unit: "t"},
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:        "below threshold returns empty",
			input:       Input{Value: 0.5, Unit: "kg"},
			wantIsEmpty: true,
		},
		{
			name:       "exactly at threshold",
			input:      Input{Value: 1.0, Unit: "kg"},
			wantMiles:  5.208333,
			wantPhones: 121.65,
		},
		{
			name:        "zero value returns empty",
			input:       Input{Value: 0.0, Unit: "kg"},
			wantIsEmpty: true,
		},
		{
			name:    "negative value returns error",
			input:   Input{Value: -100.0, Unit: "kg"},
			errType: ErrNegativeValue,
		},
		{
			name:    "invalid unit returns error",
			input:   Input{Value: 100.0, Unit: "furlongs"},
			errType: ErrInvalidUnit,
		},
		{
			name:       "million kilograms",
			input:      Input{Value: 1000000.0, Unit: "kg"},
			wantMiles:  5208333.33,
			wantPhones: 121654501.22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.input)

			if tt.errType != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errType)
				assert.True(t, got.IsEmpty)
				return
			}

			require.NoError(t, err)
			if tt.wantIsEmpty {
				assert.True(t, got.IsEmpty)
				return
			}

			assert.False(t, got.IsEmpty)
			require.Len(t, got.Results, 2)

			miles := got.Results[0]
			assert.Equal(t, KindMilesDriven, miles.Kind)
			assert.InDelta(t, tt.wantMiles, miles.Value, tt.wantMiles*0.01)
			assert.Equal(t, "miles driven", miles.Label)

			phones := got.Results[1]
			assert.Equal(t, KindSmartphonesCharged, phones.Kind)
			assert.InDelta(t, tt.wantPhones, phones.Value, tt.wantPhones*0.01)
			assert.Equal(t, "smartphones charged", phones.Label)
		})
	}
}

func TestCalculateDisplayText(t *testing.T) {
	got, err := Calculate(Input{Value: 150.0, Unit: "kg"})
	require.NoError(t, err)

	assert.Equal(t, "Equivalent to driving ~781 miles or charging ~18,248 smartphones", got.DisplayText)
	assert.Less(t, len(got.DisplayText), 100)
}

func TestCalculateLargeNumberFormatting(t *testing.T) {
	got, err := Calculate(Input{Value: 10000000.0, Unit: "kg"})
	require.NoError(t, err)
	assert.Contains(t, got.DisplayText, "million")
}

func TestCalculateBillionFormatting(t *testing.T) {
	got, err := Calculate(Input{Value: 1000000000.0, Unit: "kg"})
	require.NoError(t, err)
	assert.Contains(t, got.DisplayText, "billion")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MilesDriven", KindMilesDriven.String())
	assert.Equal(t, "SmartphonesCharged", KindSmartphonesCharged.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func BenchmarkCalculate(b *testing.B) {
	input := Input{Value: 150.0, Unit: "kg"}
	for b.Loop() {
		_, _ = Calculate(input)
	}
}
