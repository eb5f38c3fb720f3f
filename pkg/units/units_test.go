package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeightToMeters(t *testing.T) {
	tests := []struct {
		name          string
		value, unit   string
		feet, inches  string
		want          float64
		wantAvailable bool
	}{
		{name: "centimeters", value: "180", unit: "cm", want: 1.8, wantAvailable: true},
		{name: "feet and inches fields", unit: "ft", feet: "5", inches: "11", want: 71 * 0.0254, wantAvailable: true},
		{name: "zero feet allowed", unit: "ft", feet: "0", inches: "11", want: 11 * 0.0254, wantAvailable: true},
		{name: "inline feet notation", value: `5'11"`, unit: "ft", want: 71 * 0.0254, wantAvailable: true},
		{name: "decimal feet", value: "6", unit: "ft", want: 72 * 0.0254, wantAvailable: true},
		{name: "inches out of range", unit: "ft", feet: "5", inches: "12"},
		{name: "negative feet", unit: "ft", feet: "-1", inches: "3"},
		{name: "zero total", unit: "ft", feet: "0", inches: "0"},
		{name: "zero centimeters", value: "0", unit: "cm"},
		{name: "negative centimeters", value: "-170", unit: "cm"},
		{name: "not a number", value: "tall", unit: "cm"},
		{name: "unknown unit", value: "70", unit: "in"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HeightToMeters(tt.value, tt.unit, tt.feet, tt.inches)
			require.Equal(t, tt.wantAvailable, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestWeightToKilograms(t *testing.T) {
	kg, ok := WeightToKilograms("70", "kg")
	require.True(t, ok)
	assert.Equal(t, 70.0, kg)

	kg, ok = WeightToKilograms("154", "lbs")
	require.True(t, ok)
	assert.InDelta(t, 154/2.20462, kg, 1e-12)

	_, ok = WeightToKilograms("0", "kg")
	assert.False(t, ok)
	_, ok = WeightToKilograms("70", "stone")
	assert.False(t, ok)
}

func TestParseUnitsReportInvalidUnit(t *testing.T) {
	_, err := ParseHeightUnit("yards")
	assert.True(t, errors.Is(err, ErrInvalidUnit))
	_, err = ParseWeightUnit("grams")
	assert.True(t, errors.Is(err, ErrInvalidUnit))

	u, err := ParseWeightUnit(" LBS ")
	require.NoError(t, err)
	assert.Equal(t, Pounds, u)
}

func TestBMI(t *testing.T) {
	bmi, ok := BMI(1.8, 70)
	require.True(t, ok)
	assert.InDelta(t, 21.6, bmi, 0.05)
	assert.Equal(t, Normal, ClassifyBMI(bmi))

	for _, tc := range []struct{ h, w float64 }{{0, 70}, {-1.7, 70}, {1.8, 0}, {1.8, -3}} {
		_, ok := BMI(tc.h, tc.w)
		assert.False(t, ok, "height %v weight %v", tc.h, tc.w)
	}

	// outside the plausible range [10, 50]
	_, ok = BMI(1.8, 400)
	assert.False(t, ok)
	_, ok = BMI(2.5, 40)
	assert.False(t, ok)

	// boundaries are inclusive
	_, ok = BMI(1, 10)
	assert.True(t, ok)
	_, ok = BMI(1, 50)
	assert.True(t, ok)
}

func TestClassifyBMIBoundaries(t *testing.T) {
	assert.Equal(t, Underweight, ClassifyBMI(18.49))
	assert.Equal(t, Normal, ClassifyBMI(18.5))
	assert.Equal(t, Normal, ClassifyBMI(24.9))
	assert.Equal(t, Overweight, ClassifyBMI(25.0))
	assert.Equal(t, Overweight, ClassifyBMI(29.99))
	assert.Equal(t, Obese, ClassifyBMI(30))
}

func TestFormatBMI(t *testing.T) {
	assert.Equal(t, "21.6 (Normal)", FormatBMI(70/(1.8*1.8), true))
	assert.Equal(t, "Not available", FormatBMI(0, false))
}

func TestConversionsInvert(t *testing.T) {
	m, ok := HeightToMeters("180", "cm", "", "")
	require.True(t, ok)
	assert.InDelta(t, 180, MetersToCentimeters(m), 1e-9)

	m, ok = HeightToMeters("", "ft", "5", "11")
	require.True(t, ok)
	feet, inches := MetersToFeetInches(m)
	assert.Equal(t, 5, feet)
	assert.Equal(t, 11, inches)

	kg, ok := WeightToKilograms("154", "lbs")
	require.True(t, ok)
	assert.InDelta(t, 154, KilogramsToPounds(kg), 1e-9)
}

func TestConvertHeight(t *testing.T) {
	ft, ok := ConvertHeight(Height{Value: "180", Unit: Centimeters}, Feet)
	require.True(t, ok)
	assert.Equal(t, "5", ft.FeetPart)
	assert.Equal(t, "11", ft.InchesPart)

	cm, ok := ConvertHeight(ft, Centimeters)
	require.True(t, ok)
	assert.Equal(t, "180", cm.Value)

	// 182.5cm is 71.85in which rounds up to a full 6 feet
	ft, ok = ConvertHeight(Height{Value: "182.5", Unit: Centimeters}, Feet)
	require.True(t, ok)
	assert.Equal(t, "6", ft.FeetPart)
	assert.Equal(t, "0", ft.InchesPart)

	_, ok = ConvertHeight(Height{Value: "abc", Unit: Centimeters}, Feet)
	assert.False(t, ok)
}

func TestConvertWeight(t *testing.T) {
	lbs, ok := ConvertWeight("70", Kilograms, Pounds)
	require.True(t, ok)
	assert.Equal(t, "154.3", lbs)

	kg, ok := ConvertWeight("154.3", Pounds, Kilograms)
	require.True(t, ok)
	assert.Equal(t, "70.0", kg)

	same, ok := ConvertWeight("70", Kilograms, Kilograms)
	require.True(t, ok)
	assert.Equal(t, "70", same)
}
