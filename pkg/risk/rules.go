package risk

import (
	"fmt"
	"strings"

	"github.com/pulseid/platform/pkg/common/models"
)

// Signals are the profile fields the ladder reads.
type Signals struct {
	Conditions []string
	Symptoms   []string
	Allergies  []string
	Reports    int
}

func signalsOf(p models.Profile) Signals {
	return Signals{
		Conditions: entries(p.Conditions),
		Symptoms:   entries(p.Symptoms),
		Allergies:  entries(p.Allergies),
		Reports:    len(p.MedicalReports),
	}
}

// Finding is what a matching rule contributes to the assessment.
type Finding struct {
	Summary    string
	Guidelines []string
	Conditions []string
	Symptoms   []string
	Codes      map[string]string
}

// Rule is one rung of the ladder. Rules are evaluated in order and the
// first match decides the level.
type Rule struct {
	Name  string
	Level models.RiskLevel
	Match func(Signals) (Finding, bool)
}

const (
	genericCritical = "Call emergency services (112 / 911) immediately"
	genericHigh     = "Inform the attending clinician of existing conditions on arrival"
)

var (
	symptomMonitoring = []string{
		"Monitor vital signs every 15 minutes",
		"Record symptom onset time and any changes",
	}
	allergyAlternatives = "Prepare alternative medications that avoid known allergens"
	reportFollowUp      = "Follow up on findings from recent medical reports"
	lowReassurance      = "No special precautions identified; follow standard care"
)

// Rules builds the ordered ladder for v. Add new rungs here; the engine
// only walks the list.
func (v Vocabulary) Rules() []Rule {
	return []Rule{
		{Name: "severe-symptoms", Level: models.RiskCritical, Match: v.matchSevereSymptoms},
		{Name: "critical-conditions", Level: models.RiskHigh, Match: v.matchCriticalConditions},
		{Name: "active-symptoms", Level: models.RiskHigh, Match: matchActiveSymptoms},
		{Name: "allergies", Level: models.RiskModerate, Match: matchAllergies},
	}
}

func (v Vocabulary) matchSevereSymptoms(s Signals) (Finding, bool) {
	hits, matched := scan(v.SevereSymptoms, s.Symptoms)
	if len(hits) == 0 {
		return Finding{}, false
	}
	f := Finding{
		Summary:    fmt.Sprintf("Severe symptoms reported: %s. Requires immediate emergency care.", strings.Join(matched, ", ")),
		Guidelines: []string{genericCritical},
		Symptoms:   matched,
	}
	for _, kw := range hits {
		f.Guidelines = append(f.Guidelines, kw.Guidelines...)
	}
	f.Conditions, f.Codes = v.conditionHits(s.Conditions)
	return f, true
}

func (v Vocabulary) matchCriticalConditions(s Signals) (Finding, bool) {
	conditions, codes := v.conditionHits(s.Conditions)
	if len(conditions) == 0 {
		return Finding{}, false
	}
	hits, _ := scan(v.CriticalConditions, s.Conditions)
	f := Finding{
		Summary:    fmt.Sprintf("High-risk conditions present: %s.", strings.Join(conditions, ", ")),
		Guidelines: []string{genericHigh},
		Conditions: conditions,
		Symptoms:   s.Symptoms,
		Codes:      codes,
	}
	for _, kw := range hits {
		f.Guidelines = append(f.Guidelines, kw.Guidelines...)
	}
	return f, true
}

func matchActiveSymptoms(s Signals) (Finding, bool) {
	if len(s.Symptoms) == 0 {
		return Finding{}, false
	}
	return Finding{
		Summary:    fmt.Sprintf("Active symptoms reported: %s. Close monitoring advised.", strings.Join(s.Symptoms, ", ")),
		Guidelines: append([]string{genericHigh}, symptomMonitoring...),
		Symptoms:   s.Symptoms,
	}, true
}

func matchAllergies(s Signals) (Finding, bool) {
	if len(s.Allergies) == 0 {
		return Finding{}, false
	}
	text := strings.Join(s.Allergies, ", ")
	return Finding{
		Summary: fmt.Sprintf("Known allergies: %s.", text),
		Guidelines: []string{
			"Carry allergy information at all times",
			"Avoid " + text,
			allergyAlternatives,
		},
	}, true
}

// conditionHits returns the condition entries that contain a critical
// keyword, in entry order, with the ICD-10 code of the first keyword each
// entry matched.
func (v Vocabulary) conditionHits(conditions []string) ([]string, map[string]string) {
	var hits []string
	var codes map[string]string
	for _, entry := range conditions {
		lower := strings.ToLower(entry)
		for _, kw := range v.CriticalConditions {
			if !strings.Contains(lower, kw.Term) {
				continue
			}
			hits = append(hits, entry)
			if kw.ICD10 != "" {
				if codes == nil {
					codes = map[string]string{}
				}
				codes[entry] = kw.ICD10
			}
			break
		}
	}
	return hits, codes
}

// scan returns the keywords found in any entry, in vocabulary order, and
// the entries that matched, in entry order.
func scan(vocab []Keyword, items []string) ([]Keyword, []string) {
	lowered := make([]string, len(items))
	for i, item := range items {
		lowered[i] = strings.ToLower(item)
	}

	var hits []Keyword
	for _, kw := range vocab {
		for _, item := range lowered {
			if strings.Contains(item, kw.Term) {
				hits = append(hits, kw)
				break
			}
		}
	}
	if len(hits) == 0 {
		return nil, nil
	}

	var matched []string
	for i, item := range lowered {
		for _, kw := range hits {
			if strings.Contains(item, kw.Term) {
				matched = append(matched, items[i])
				break
			}
		}
	}
	return hits, matched
}

func entries(l models.ClinicalList) []string {
	var out []string
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" || strings.EqualFold(item, models.NoneSentinel) {
			continue
		}
		out = append(out, item)
	}
	return out
}
