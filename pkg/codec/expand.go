package codec

import (
	"strings"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
)

// Expand rebuilds a full profile from a compact payload. Absent keys take
// the same defaults as an unfilled profile: empty strings, empty contact
// lists, unset clinical lists and nil sub-objects. Name and age are
// required; a MissingFieldError names whichever are empty.
func Expand(c CompactPayload) (models.Profile, error) {
	p := models.Profile{
		Name:         c.N,
		Age:          c.A,
		Gender:       expandGender(c.G),
		BloodGroup:   c.B,
		Height:       c.H,
		HeightUnit:   c.HU,
		HeightFeet:   c.HF,
		HeightInches: c.HI,
		Weight:       c.W,
		WeightUnit:   c.WU,
		Conditions:   expandList(c.C),
		Medications:  expandList(c.M),
		Allergies:    expandList(c.AL),
		Symptoms:     expandList(c.S),

		EmergencyContacts: make([]models.EmergencyContact, 0, len(c.EC)),
		DoctorContacts:    make([]models.DoctorContact, 0, len(c.DC)),
	}

	for _, ec := range c.EC {
		p.EmergencyContacts = append(p.EmergencyContacts, models.EmergencyContact{
			Name:         ec.N,
			Number:       ec.P,
			Relationship: ec.R,
		})
	}
	for _, dc := range c.DC {
		p.DoctorContacts = append(p.DoctorContacts, models.DoctorContact{
			Name:           dc.N,
			Number:         dc.P,
			Specialization: dc.SP,
		})
	}
	if c.ED != nil {
		p.EmergencyDoctor = &models.EmergencyDoctor{Name: c.ED.N, Number: c.ED.P}
	}
	if c.R != nil {
		p.RiskAssessment = expandRisk(*c.R)
	}
	if c.T != 0 {
		p.Timestamp = time.Unix(c.T, 0).UTC()
	}

	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Age) == "" {
		missing = append(missing, "age")
	}
	if len(missing) > 0 {
		return p, MissingFieldError{Fields: missing}
	}
	return p, nil
}

func expandRisk(r CompactRisk) *models.RiskAssessment {
	level, err := models.ParseRiskLevel(r.L)
	if err != nil {
		// an unrecognised cached level is dropped; the viewer recomputes it
		return nil
	}
	ra := &models.RiskAssessment{
		Level:      level,
		Summary:    r.S,
		Guidelines: orEmpty(r.G),
		Conditions: orEmpty(r.C),
		Symptoms:   orEmpty(r.SY),
		Codes:      r.CD,
	}
	if r.T != 0 {
		ra.Timestamp = time.Unix(r.T, 0).UTC()
	}
	return ra
}

func expandList(items *[]string) models.ClinicalList {
	if items == nil {
		return nil
	}
	out := make(models.ClinicalList, len(*items))
	copy(out, *items)
	return out
}

func expandGender(code string) string {
	if strings.HasPrefix(code, genderEscape) {
		return code[len(genderEscape):]
	}
	if name, ok := genderNames[code]; ok {
		return name
	}
	return code
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
