package share

import (
	"fmt"
	"strings"
)

// ErrorCorrection is the QR error-correction level. Higher levels survive
// more damage but hold fewer bytes.
type ErrorCorrection string

const (
	ECCLow      ErrorCorrection = "L"
	ECCMedium   ErrorCorrection = "M"
	ECCQuartile ErrorCorrection = "Q"
	ECCHigh     ErrorCorrection = "H"
)

// Byte-mode capacity of a version 40 symbol.
var eccCapacity = map[ErrorCorrection]int{
	ECCLow:      2953,
	ECCMedium:   2331,
	ECCQuartile: 1663,
	ECCHigh:     1273,
}

func ParseErrorCorrection(s string) (ErrorCorrection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return ECCLow, nil
	case "m", "medium":
		return ECCMedium, nil
	case "q", "quartile":
		return ECCQuartile, nil
	case "h", "high":
		return ECCHigh, nil
	default:
		return "", fmt.Errorf("unknown error correction level %q", s)
	}
}

// Capacity is the largest URL, in bytes, that still fits one code.
func (e ErrorCorrection) Capacity() int {
	return eccCapacity[e]
}
