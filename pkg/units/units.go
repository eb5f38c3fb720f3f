// Package units converts anthropometric values between display units and
// canonical metric form and derives body-mass index.
//
// Conversions never fail loudly: a value that cannot be converted is
// reported through a false ok return, which callers surface as
// "Not available".
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidUnit = errors.New("invalid unit")

type HeightUnit string

const (
	Centimeters HeightUnit = "cm"
	Feet        HeightUnit = "ft"
)

type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lbs"
)

const (
	MetersPerInch   = 0.0254
	InchesPerFoot   = 12
	PoundsPerKilo   = 2.20462
	MinPlausibleBMI = 10.0
	MaxPlausibleBMI = 50.0
	NotAvailable    = "Not available"
)

func ParseHeightUnit(s string) (HeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cm":
		return Centimeters, nil
	case "ft", "feet":
		return Feet, nil
	default:
		return "", fmt.Errorf("height unit %q: %w", s, ErrInvalidUnit)
	}
}

func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg":
		return Kilograms, nil
	case "lbs", "lb":
		return Pounds, nil
	default:
		return "", fmt.Errorf("weight unit %q: %w", s, ErrInvalidUnit)
	}
}

// HeightToMeters converts a display height. For feet, separate feet and
// inches fields take precedence; otherwise value may be written as 5'11"
// or as decimal feet.
func HeightToMeters(value string, unit string, feet, inches string) (float64, bool) {
	u, err := ParseHeightUnit(unit)
	if err != nil {
		return 0, false
	}

	var meters float64
	switch u {
	case Centimeters:
		cm, ok := parsePositive(value)
		if !ok {
			return 0, false
		}
		meters = cm / 100
	case Feet:
		if strings.TrimSpace(feet) != "" || strings.TrimSpace(inches) != "" {
			total, ok := feetInchesToInches(feet, inches)
			if !ok {
				return 0, false
			}
			meters = float64(total) * MetersPerInch
		} else if strings.Contains(value, "'") {
			parts := strings.SplitN(value, "'", 2)
			total, ok := feetInchesToInches(parts[0], strings.Trim(parts[1], `" `))
			if !ok {
				return 0, false
			}
			meters = float64(total) * MetersPerInch
		} else {
			ft, ok := parsePositive(value)
			if !ok {
				return 0, false
			}
			meters = ft * InchesPerFoot * MetersPerInch
		}
	}

	if meters <= 0 || math.IsInf(meters, 0) {
		return 0, false
	}
	return meters, true
}

func WeightToKilograms(value string, unit string) (float64, bool) {
	u, err := ParseWeightUnit(unit)
	if err != nil {
		return 0, false
	}
	v, ok := parsePositive(value)
	if !ok {
		return 0, false
	}
	if u == Pounds {
		return v / PoundsPerKilo, true
	}
	return v, true
}

// BMI is weightKg / heightMeters². Results outside the plausible human
// range are treated as input errors.
func BMI(heightMeters, weightKg float64) (float64, bool) {
	if heightMeters <= 0 || weightKg <= 0 {
		return 0, false
	}
	bmi := weightKg / (heightMeters * heightMeters)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return 0, false
	}
	if bmi < MinPlausibleBMI || bmi > MaxPlausibleBMI {
		return 0, false
	}
	return bmi, true
}

type BMIClass string

const (
	Underweight BMIClass = "Underweight"
	Normal      BMIClass = "Normal"
	Overweight  BMIClass = "Overweight"
	Obese       BMIClass = "Obese"
)

// ClassifyBMI uses half-open bands with inclusive lower bounds.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return Normal
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}

// FormatBMI renders "21.6 (Normal)" or "Not available".
func FormatBMI(bmi float64, ok bool) string {
	if !ok {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f (%s)", bmi, ClassifyBMI(bmi))
}

func MetersToCentimeters(m float64) float64 {
	return m * 100
}

// MetersToFeetInches rounds to the nearest whole inch.
func MetersToFeetInches(m float64) (feet, inches int) {
	total := int(math.Round(m / MetersPerInch))
	return total / InchesPerFoot, total % InchesPerFoot
}

func KilogramsToPounds(kg float64) float64 {
	return kg * PoundsPerKilo
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func feetInchesToInches(feet, inches string) (int, bool) {
	f := 0
	if s := strings.TrimSpace(feet); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return 0, false
		}
		f = v
	}
	in := 0
	if s := strings.TrimSpace(inches); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 11 {
			return 0, false
		}
		in = v
	}
	total := f*InchesPerFoot + in
	if total <= 0 {
		return 0, false
	}
	return total, true
}
