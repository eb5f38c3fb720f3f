// Package report renders an expanded profile and its risk assessment into
// the display strings shown by the emergency viewer.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/units"
)

const (
	NotProvided = "Not provided"
	NoneText    = models.NoneSentinel
)

type Report struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`
	Height     string `json:"height"`
	Weight     string `json:"weight"`
	BMI        string `json:"bmi"`

	Conditions  string `json:"conditions"`
	Medications string `json:"medications"`
	Allergies   string `json:"allergies"`
	Symptoms    string `json:"symptoms"`

	EmergencyContacts []ContactLine `json:"emergencyContacts"`
	Doctors           []ContactLine `json:"doctors"`
	EmergencyDoctor   *ContactLine  `json:"emergencyDoctor,omitempty"`

	Risk         models.RiskAssessment `json:"risk"`
	CriticalInfo string                `json:"criticalInfo"`
	Protocol     []string              `json:"protocol"`
	Vitals       *models.Vitals        `json:"vitals,omitempty"`
	Completeness Completeness          `json:"completeness"`
	SharedAt     *time.Time            `json:"sharedAt,omitempty"`
}

type ContactLine struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Detail string `json:"detail,omitempty"`
	Line   string `json:"line"`
}

type Options struct {
	Vitals *models.Vitals
}

// Build never fails; unparseable measurements render as units.NotAvailable.
func Build(p models.Profile, risk models.RiskAssessment, opts Options) Report {
	r := Report{
		Name:        orNotProvided(p.Name),
		Age:         orNotProvided(p.Age),
		Gender:      orNotProvided(p.Gender),
		BloodGroup:  orNotProvided(p.BloodGroup),
		Height:      formatHeight(p),
		Weight:      formatWeight(p),
		BMI:         formatBMI(p),
		Conditions:  ListText(p.Conditions),
		Medications: ListText(p.Medications),
		Allergies:   ListText(p.Allergies),
		Symptoms:    ListText(p.Symptoms),
		Risk:        risk,
		Vitals:      opts.Vitals,

		EmergencyContacts: make([]ContactLine, 0, len(p.EmergencyContacts)),
		Doctors:           make([]ContactLine, 0, len(p.DoctorContacts)),
	}

	for _, c := range p.EmergencyContacts {
		r.EmergencyContacts = append(r.EmergencyContacts, contactLine(c.Name, c.Number, c.Relationship))
	}
	for _, d := range p.DoctorContacts {
		r.Doctors = append(r.Doctors, contactLine(DoctorName(d.Name), d.Number, d.Specialization))
	}
	if ed := p.EmergencyDoctor; ed != nil && strings.TrimSpace(ed.Name) != "" {
		line := contactLine(DoctorName(ed.Name), ed.Number, "")
		r.EmergencyDoctor = &line
	}
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp
		r.SharedAt = &ts
	}

	r.CriticalInfo = criticalInfo(p, risk)
	r.Protocol = protocol(p, risk)
	r.Completeness = CompletenessOf(p)
	return r
}

// ListText renders a clinical list for display: unset lists read
// "Not provided" and explicitly empty ones read "None".
func ListText(l models.ClinicalList) string {
	switch {
	case l.IsUnset():
		return NotProvided
	case !l.HasEntries():
		return NoneText
	default:
		return l.Text()
	}
}

// DoctorName adds a "Dr." prefix unless the name already carries one.
func DoctorName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "dr.") || strings.HasPrefix(lower, "dr ") {
		return name
	}
	return "Dr. " + name
}

func contactLine(name, number, detail string) ContactLine {
	name = strings.TrimSpace(name)
	number = strings.TrimSpace(number)
	detail = strings.TrimSpace(detail)

	line := name
	if detail != "" {
		line += " (" + detail + ")"
	}
	if number != "" {
		line += ": " + number
	}
	return ContactLine{Name: name, Number: number, Detail: detail, Line: line}
}

func formatHeight(p models.Profile) string {
	m, ok := units.HeightToMeters(p.Height, p.HeightUnit, p.HeightFeet, p.HeightInches)
	if !ok {
		return units.NotAvailable
	}
	if u, _ := units.ParseHeightUnit(p.HeightUnit); u == units.Feet {
		ft, in := units.MetersToFeetInches(m)
		return fmt.Sprintf("%d'%d\"", ft, in)
	}
	return fmt.Sprintf("%.0f cm", math.Round(units.MetersToCentimeters(m)))
}

func formatWeight(p models.Profile) string {
	kg, ok := units.WeightToKilograms(p.Weight, p.WeightUnit)
	if !ok {
		return units.NotAvailable
	}
	if u, _ := units.ParseWeightUnit(p.WeightUnit); u == units.Pounds {
		return fmt.Sprintf("%.1f lbs", units.KilogramsToPounds(kg))
	}
	return fmt.Sprintf("%.1f kg", kg)
}

func formatBMI(p models.Profile) string {
	m, ok := units.HeightToMeters(p.Height, p.HeightUnit, p.HeightFeet, p.HeightInches)
	if !ok {
		return units.NotAvailable
	}
	kg, ok := units.WeightToKilograms(p.Weight, p.WeightUnit)
	if !ok {
		return units.NotAvailable
	}
	return units.FormatBMI(units.BMI(m, kg))
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotProvided
	}
	return s
}
