package risk

import (
	"strings"

	"github.com/pulseid/platform/pkg/common/models"
)

var baselineVitals = models.Vitals{
	HeartRate:        75,
	BloodPressureSys: 120,
	BloodPressureDia: 80,
	OxygenSaturation: 98,
	Temperature:      36.8,
	RespiratoryRate:  16,
}

type vitalsAdjustment struct {
	term  string
	apply func(*models.Vitals)
}

// Adjustments apply in order; later ones see earlier changes.
var vitalsAdjustments = []vitalsAdjustment{
	{term: "hypertension", apply: func(v *models.Vitals) {
		v.BloodPressureSys, v.BloodPressureDia = 150, 95
	}},
	{term: "asthma", apply: func(v *models.Vitals) {
		v.OxygenSaturation = min(v.OxygenSaturation, 94)
		v.RespiratoryRate = max(v.RespiratoryRate, 20)
	}},
	{term: "copd", apply: func(v *models.Vitals) {
		v.OxygenSaturation = min(v.OxygenSaturation, 91)
		v.RespiratoryRate = max(v.RespiratoryRate, 22)
	}},
	{term: "heart", apply: func(v *models.Vitals) {
		v.HeartRate = max(v.HeartRate, 92)
	}},
	{term: "atrial fibrillation", apply: func(v *models.Vitals) {
		v.HeartRate = max(v.HeartRate, 110)
	}},
	{term: "diabetes", apply: func(v *models.Vitals) {
		v.HeartRate = max(v.HeartRate, 85)
	}},
	{term: "fever", apply: func(v *models.Vitals) {
		v.Temperature = 38.6
		v.HeartRate = max(v.HeartRate, 100)
	}},
	{term: "chest pain", apply: func(v *models.Vitals) {
		v.HeartRate = max(v.HeartRate, 105)
	}},
	{term: "shortness of breath", apply: func(v *models.Vitals) {
		v.OxygenSaturation = min(v.OxygenSaturation, 92)
		v.RespiratoryRate = max(v.RespiratoryRate, 24)
	}},
	{term: "difficulty breathing", apply: func(v *models.Vitals) {
		v.OxygenSaturation = min(v.OxygenSaturation, 92)
		v.RespiratoryRate = max(v.RespiratoryRate, 24)
	}},
}

// SimulateVitals synthesizes plausible display vitals from condition and
// symptom keywords. The result is deterministic and is never an input to
// Assess.
func SimulateVitals(p models.Profile) models.Vitals {
	v := baselineVitals
	v.Simulated = true

	var text []string
	for _, item := range entries(p.Conditions) {
		text = append(text, strings.ToLower(item))
	}
	for _, item := range entries(p.Symptoms) {
		text = append(text, strings.ToLower(item))
	}

	for _, adj := range vitalsAdjustments {
		for _, item := range text {
			if strings.Contains(item, adj.term) {
				adj.apply(&v)
				break
			}
		}
	}
	return v
}
