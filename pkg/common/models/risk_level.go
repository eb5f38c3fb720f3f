package models

import (
	"fmt"
	"strings"
)

// RiskLevel is ordered: a higher value is a more severe tier.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskModerate
	RiskHigh
	RiskCritical
)

var riskLevelNames = [...]string{"LOW", "MODERATE", "HIGH", "CRITICAL"}

func (r RiskLevel) String() string {
	if r < RiskLow || r > RiskCritical {
		return fmt.Sprintf("RiskLevel(%d)", int(r))
	}
	return riskLevelNames[r]
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range riskLevelNames {
		if s == name {
			return RiskLevel(i), nil
		}
	}
	return RiskLow, fmt.Errorf("unknown risk level %q", s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	if r < RiskLow || r > RiskCritical {
		return nil, fmt.Errorf("invalid risk level %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(text []byte) error {
	level, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*r = level
	return nil
}
