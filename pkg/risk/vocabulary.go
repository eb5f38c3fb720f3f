package risk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keyword is a lower-case term matched as a substring of a clinical entry,
// with the guideline lines it contributes when matched. An entry takes the
// ICD-10 code of the first keyword it matches, so specific terms go before
// broad ones.
type Keyword struct {
	Term       string   `yaml:"term" json:"term"`
	ICD10      string   `yaml:"icd10,omitempty" json:"icd10,omitempty"`
	Guidelines []string `yaml:"guidelines" json:"guidelines"`
}

// Vocabulary lists the keywords scanned by the rule ladder. Keyword order
// is the order guideline lines are emitted in.
type Vocabulary struct {
	SevereSymptoms     []Keyword `yaml:"severe_symptoms" json:"severe_symptoms"`
	CriticalConditions []Keyword `yaml:"critical_conditions" json:"critical_conditions"`
}

func LoadVocabulary(path string) (Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultVocabulary(), err
	}

	var v Vocabulary
	if err := yaml.Unmarshal(content, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse risk vocabulary: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Vocabulary{}, err
	}
	v.normalize()
	return v, nil
}

func (v Vocabulary) Validate() error {
	if len(v.SevereSymptoms) == 0 && len(v.CriticalConditions) == 0 {
		return errors.New("risk vocabulary is empty")
	}
	for _, kw := range append(append([]Keyword{}, v.SevereSymptoms...), v.CriticalConditions...) {
		if strings.TrimSpace(kw.Term) == "" {
			return errors.New("risk vocabulary keyword with empty term")
		}
	}
	return nil
}

func (v *Vocabulary) normalize() {
	for i := range v.SevereSymptoms {
		v.SevereSymptoms[i].Term = strings.ToLower(strings.TrimSpace(v.SevereSymptoms[i].Term))
	}
	for i := range v.CriticalConditions {
		v.CriticalConditions[i].Term = strings.ToLower(strings.TrimSpace(v.CriticalConditions[i].Term))
	}
}

func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		SevereSymptoms: []Keyword{
			{Term: "chest pain", Guidelines: []string{
				"Obtain a 12-lead ECG and check cardiac enzymes immediately",
				"Give aspirin 300 mg to chew if not allergic and no bleeding risk",
			}},
			{Term: "difficulty breathing", Guidelines: []string{
				"Sit the patient upright and give oxygen if available",
				"Check airway and monitor oxygen saturation continuously",
			}},
			{Term: "shortness of breath", Guidelines: []string{
				"Sit the patient upright and monitor oxygen saturation",
			}},
			{Term: "severe bleeding", Guidelines: []string{
				"Apply firm direct pressure to the wound",
				"Prepare for fluid resuscitation and blood typing",
			}},
			{Term: "loss of consciousness", Guidelines: []string{
				"Place in the recovery position and check airway, breathing and circulation",
			}},
			{Term: "unconscious", Guidelines: []string{
				"Place in the recovery position and check airway, breathing and circulation",
			}},
			{Term: "seizure", Guidelines: []string{
				"Protect the head and time the seizure; do not restrain",
			}},
		},
		CriticalConditions: []Keyword{
			{Term: "diabetes", ICD10: "E11", Guidelines: []string{
				"Check blood glucose level immediately",
				"Treat hypoglycaemia with fast-acting sugar if conscious",
			}},
			{Term: "heart failure", ICD10: "I50.9", Guidelines: []string{
				"Monitor heart rhythm and blood pressure",
				"Limit IV fluids and watch for pulmonary oedema",
			}},
			{Term: "heart disease", ICD10: "I51.9", Guidelines: []string{
				"Monitor heart rhythm and blood pressure",
			}},
			// Any other mention of the heart still raises the tier but is
			// too vague to code.
			{Term: "heart", Guidelines: []string{
				"Monitor heart rhythm and blood pressure",
			}},
			{Term: "asthma", ICD10: "J45", Guidelines: []string{
				"Keep a rescue inhaler within reach",
			}},
			{Term: "stroke", ICD10: "I63", Guidelines: []string{
				"Assess for new stroke signs using FAST",
			}},
			{Term: "hypertension", ICD10: "I10", Guidelines: []string{
				"Monitor blood pressure closely",
			}},
			{Term: "copd", ICD10: "J44", Guidelines: []string{
				"Give controlled oxygen and watch for CO2 retention",
			}},
			{Term: "epilepsy", ICD10: "G40", Guidelines: []string{
				"Be prepared for seizures and keep the airway clear",
			}},
			{Term: "kidney", ICD10: "N18", Guidelines: []string{
				"Check renal function before giving contrast or nephrotoxic drugs",
			}},
			{Term: "angina", ICD10: "I20", Guidelines: []string{
				"Have nitroglycerin available as prescribed",
			}},
			{Term: "atrial fibrillation", ICD10: "I48", Guidelines: []string{
				"Check anticoagulant use before any procedure",
			}},
		},
	}
}
