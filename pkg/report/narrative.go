package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/pulseid/platform/pkg/common/models"
)

func criticalInfo(p models.Profile, risk models.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is a %s-year-old", orNotProvided(p.Name), orNotProvided(p.Age))
	if g := strings.TrimSpace(p.Gender); g != "" {
		fmt.Fprintf(&b, " %s", strings.ToLower(g))
	}
	b.WriteString(" patient")
	if bg := strings.TrimSpace(p.BloodGroup); bg != "" {
		fmt.Fprintf(&b, " with blood group %s", bg)
	}
	b.WriteString(".")

	if p.Conditions.HasEntries() {
		fmt.Fprintf(&b, " Known conditions: %s.", p.Conditions.Text())
	}
	if p.Allergies.HasEntries() {
		fmt.Fprintf(&b, " ALLERGIC TO: %s.", p.Allergies.Text())
	}
	if p.Medications.HasEntries() {
		fmt.Fprintf(&b, " Current medications: %s.", p.Medications.Text())
	}
	fmt.Fprintf(&b, " Risk level: %s.", risk.Level)
	return b.String()
}

// protocol lists first-responder steps in a fixed order.
func protocol(p models.Profile, risk models.RiskAssessment) []string {
	var steps []string
	if risk.Level >= models.RiskHigh {
		steps = append(steps, "Call emergency services (112 / 911) and report the risk level")
	}
	steps = append(steps, fmt.Sprintf("Confirm patient identity: %s, age %s", orNotProvided(p.Name), orNotProvided(p.Age)))
	if bg := strings.TrimSpace(p.BloodGroup); bg != "" {
		steps = append(steps, fmt.Sprintf("Blood group %s; cross-match before any transfusion", bg))
	}
	if p.Allergies.HasEntries() {
		steps = append(steps, "Do not administer: "+p.Allergies.Text())
	}
	if p.Medications.HasEntries() {
		steps = append(steps, "Check interactions with current medications: "+p.Medications.Text())
	}
	for _, c := range p.EmergencyContacts {
		if strings.TrimSpace(c.Number) == "" {
			continue
		}
		steps = append(steps, "Notify emergency contact "+contactLine(c.Name, c.Number, c.Relationship).Line)
		break
	}
	if ed := p.EmergencyDoctor; ed != nil && strings.TrimSpace(ed.Number) != "" {
		steps = append(steps, "Contact "+contactLine(DoctorName(ed.Name), ed.Number, "").Line)
	}
	return steps
}

type Completeness struct {
	Percent int      `json:"percent"`
	Missing []string `json:"missing"`
}

var requiredFields = []struct {
	name  string
	value func(models.Profile) string
}{
	{"name", func(p models.Profile) string { return p.Name }},
	{"age", func(p models.Profile) string { return p.Age }},
	{"gender", func(p models.Profile) string { return p.Gender }},
	{"bloodGroup", func(p models.Profile) string { return p.BloodGroup }},
}

// CompletenessOf scores the required identity fields.
func CompletenessOf(p models.Profile) Completeness {
	c := Completeness{Missing: []string{}}
	filled := 0
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(p)) == "" {
			c.Missing = append(c.Missing, f.name)
			continue
		}
		filled++
	}
	c.Percent = int(math.Round(float64(filled) * 100 / float64(len(requiredFields))))
	return c
}
