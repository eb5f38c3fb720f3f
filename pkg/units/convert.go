package units

import (
	"math"
	"strconv"
)

// Height is a display height in either unit. For Feet, Value is empty and
// FeetPart/InchesPart carry the reading.
type Height struct {
	Value      string
	Unit       HeightUnit
	FeetPart   string
	InchesPart string
}

// ConvertHeight re-expresses h in the target unit, as the profile form
// does when the unit toggle changes. Centimeters are rounded to whole
// numbers and feet/inches to whole inches.
func ConvertHeight(h Height, to HeightUnit) (Height, bool) {
	if h.Unit == to {
		return h, true
	}
	meters, ok := HeightToMeters(h.Value, string(h.Unit), h.FeetPart, h.InchesPart)
	if !ok {
		return Height{}, false
	}
	switch to {
	case Centimeters:
		cm := math.Round(MetersToCentimeters(meters))
		return Height{Value: strconv.FormatFloat(cm, 'f', -1, 64), Unit: Centimeters}, true
	case Feet:
		feet, inches := MetersToFeetInches(meters)
		return Height{Unit: Feet, FeetPart: strconv.Itoa(feet), InchesPart: strconv.Itoa(inches)}, true
	default:
		return Height{}, false
	}
}

// ConvertWeight re-expresses a display weight with one decimal place.
func ConvertWeight(value string, from, to WeightUnit) (string, bool) {
	if from == to {
		return value, true
	}
	kg, ok := WeightToKilograms(value, string(from))
	if !ok {
		return "", false
	}
	switch to {
	case Kilograms:
		return strconv.FormatFloat(kg, 'f', 1, 64), true
	case Pounds:
		return strconv.FormatFloat(KilogramsToPounds(kg), 'f', 1, 64), true
	default:
		return "", false
	}
}
