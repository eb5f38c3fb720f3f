package report

import (
	"testing"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
	"github.com/pulseid/platform/pkg/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	shared := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	p := models.Profile{
		Name:        "Asha",
		Age:         "30",
		Gender:      "Female",
		BloodGroup:  "B+",
		Height:      "180",
		HeightUnit:  "cm",
		Weight:      "70",
		WeightUnit:  "kg",
		Conditions:  models.ClinicalList{"Diabetes"},
		Medications: models.NoneList(),
		Allergies:   models.ClinicalList{"Penicillin", "Peanuts"},
		EmergencyContacts: []models.EmergencyContact{
			{Name: "Ravi", Number: "555-0100", Relationship: "Brother"},
		},
		DoctorContacts: []models.DoctorContact{
			{Name: "Meera Iyer", Number: "555-0101", Specialization: "Endocrinology"},
			{Name: "dr. Shah", Number: "555-0102"},
		},
		EmergencyDoctor: &models.EmergencyDoctor{Name: "Kapoor", Number: "108"},
		Timestamp:       shared,
	}
	risk := models.RiskAssessment{Level: models.RiskHigh, Summary: "x", Guidelines: []string{"g"}}

	r := Build(p, risk, Options{})

	assert.Equal(t, "180 cm", r.Height)
	assert.Equal(t, "70.0 kg", r.Weight)
	assert.Equal(t, "21.6 (Normal)", r.BMI)
	assert.Equal(t, "Diabetes", r.Conditions)
	assert.Equal(t, "None", r.Medications)
	assert.Equal(t, "Penicillin, Peanuts", r.Allergies)
	assert.Equal(t, "Not provided", r.Symptoms)

	require.Len(t, r.EmergencyContacts, 1)
	assert.Equal(t, "Ravi (Brother): 555-0100", r.EmergencyContacts[0].Line)
	require.Len(t, r.Doctors, 2)
	assert.Equal(t, "Dr. Meera Iyer (Endocrinology): 555-0101", r.Doctors[0].Line)
	assert.Equal(t, "dr. Shah", r.Doctors[1].Name)
	require.NotNil(t, r.EmergencyDoctor)
	assert.Equal(t, "Dr. Kapoor: 108", r.EmergencyDoctor.Line)

	assert.Equal(t, risk, r.Risk)
	assert.Nil(t, r.Vitals)
	require.NotNil(t, r.SharedAt)
	assert.Equal(t, shared, *r.SharedAt)

	assert.Contains(t, r.CriticalInfo, "Asha is a 30-year-old female patient with blood group B+.")
	assert.Contains(t, r.CriticalInfo, "ALLERGIC TO: Penicillin, Peanuts.")
	assert.Contains(t, r.CriticalInfo, "Risk level: HIGH.")

	assert.Equal(t, []string{
		"Call emergency services (112 / 911) and report the risk level",
		"Confirm patient identity: Asha, age 30",
		"Blood group B+; cross-match before any transfusion",
		"Do not administer: Penicillin, Peanuts",
		"Notify emergency contact Ravi (Brother): 555-0100",
		"Contact Dr. Kapoor: 108",
	}, r.Protocol)

	assert.Equal(t, Completeness{Percent: 100, Missing: []string{}}, r.Completeness)
}

func TestBuildMissingMeasurements(t *testing.T) {
	r := Build(models.Profile{Name: "Raj", Age: "45"}, models.RiskAssessment{}, Options{
		Vitals: &models.Vitals{HeartRate: 80, Simulated: true},
	})

	assert.Equal(t, units.NotAvailable, r.Height)
	assert.Equal(t, units.NotAvailable, r.Weight)
	assert.Equal(t, units.NotAvailable, r.BMI)
	assert.Equal(t, NotProvided, r.Gender)
	assert.NotNil(t, r.EmergencyContacts)
	assert.Nil(t, r.EmergencyDoctor)
	assert.Nil(t, r.SharedAt)
	require.NotNil(t, r.Vitals)
	assert.True(t, r.Vitals.Simulated)
	assert.Equal(t, []string{
		"Confirm patient identity: Raj, age 45",
	}, r.Protocol)
}

func TestBuildImperialHeight(t *testing.T) {
	p := models.Profile{
		Name: "Raj", Age: "45",
		HeightUnit: "ft", HeightFeet: "5", HeightInches: "11",
		Weight: "160", WeightUnit: "lbs",
	}
	r := Build(p, models.RiskAssessment{}, Options{})
	assert.Equal(t, `5'11"`, r.Height)
	assert.Equal(t, "160.0 lbs", r.Weight)
	assert.Contains(t, r.BMI, "(Normal)")
}

func TestDoctorName(t *testing.T) {
	assert.Equal(t, "Dr. Meera", DoctorName(" Meera "))
	assert.Equal(t, "Dr. Meera", DoctorName("Dr. Meera"))
	assert.Equal(t, "DR Meera", DoctorName("DR Meera"))
	assert.Equal(t, "Dr. Drake", DoctorName("Drake"))
	assert.Equal(t, "", DoctorName("  "))
}

func TestCompleteness(t *testing.T) {
	tests := []struct {
		name    string
		profile models.Profile
		want    Completeness
	}{
		{"empty", models.Profile{}, Completeness{Percent: 0, Missing: []string{"name", "age", "gender", "bloodGroup"}}},
		{"half", models.Profile{Name: "A", Age: "1"}, Completeness{Percent: 50, Missing: []string{"gender", "bloodGroup"}}},
		{"three quarters", models.Profile{Name: "A", Age: "1", BloodGroup: "O-"}, Completeness{Percent: 75, Missing: []string{"gender"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletenessOf(tt.profile))
		})
	}
}
