package models

import (
	"time"
)

// Profile is the full medical profile as authored in the app and as
// reconstituted by the emergency viewer.
type Profile struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Gender     string `json:"gender"`
	BloodGroup string `json:"bloodGroup"`

	Height       string `json:"height,omitempty"`
	HeightUnit   string `json:"heightUnit,omitempty"` // cm, ft
	HeightFeet   string `json:"heightFeet,omitempty"`
	HeightInches string `json:"heightInches,omitempty"`
	Weight       string `json:"weight,omitempty"`
	WeightUnit   string `json:"weightUnit,omitempty"` // kg, lbs

	Conditions  ClinicalList `json:"conditions"`
	Medications ClinicalList `json:"medications"`
	Allergies   ClinicalList `json:"allergies"`
	Symptoms    ClinicalList `json:"symptoms"`

	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	DoctorContacts    []DoctorContact    `json:"doctorContacts"`
	EmergencyDoctor   *EmergencyDoctor   `json:"emergencyDoctor,omitempty"`

	// MedicalReports stay with the stored profile; they are too large for a
	// share payload and are not compacted.
	MedicalReports []MedicalReport `json:"medicalReports,omitempty"`

	RiskAssessment *RiskAssessment `json:"riskAssessment,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Number       string `json:"number"`
	Relationship string `json:"relationship"`
}

type DoctorContact struct {
	Name           string `json:"name"`
	Number         string `json:"number"`
	Specialization string `json:"specialization"`
}

type EmergencyDoctor struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// MedicalReport is a summarised uploaded report. Date is YYYY-MM-DD.
type MedicalReport struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Date     string   `json:"date"`
	Summary  string   `json:"summary"`
	Details  string   `json:"details"`
	Concerns []string `json:"concerns"`
	FileName string   `json:"fileName,omitempty"`
	FileType string   `json:"fileType,omitempty"`
}

// MedicationReminder schedules a medication at fixed times of day. Times
// are 24-hour "HH:MM" strings.
type MedicationReminder struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency int      `json:"frequency"`
	Times     []string `json:"times"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	LastTaken string   `json:"lastTaken,omitempty"`
}

// RiskAssessment is the output of the rule ladder. It may be cached on a
// Profile but never replaces the profile's own conditions and symptoms.
type RiskAssessment struct {
	Level      RiskLevel         `json:"level"`
	Summary    string            `json:"summary"`
	Guidelines []string          `json:"guidelines"`
	Conditions []string          `json:"conditions"`
	Symptoms   []string          `json:"symptoms"`
	Codes      map[string]string `json:"codes,omitempty"` // condition entry -> ICD-10
	Timestamp  time.Time         `json:"timestamp"`
}

// Vitals are synthesized display values, never measurements.
type Vitals struct {
	HeartRate        int     `json:"heartRate"`
	BloodPressureSys int     `json:"bloodPressureSys"`
	BloodPressureDia int     `json:"bloodPressureDia"`
	OxygenSaturation int     `json:"oxygenSaturation"`
	Temperature      float64 `json:"temperature"`
	RespiratoryRate  int     `json:"respiratoryRate"`
	Simulated        bool    `json:"simulated"`
}

// Event is the envelope published on the share events topic. Data carries
// share metadata only, never profile contents.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // profile.shared, report.viewed
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventProfileShared = "profile.shared"
	EventReportViewed  = "report.viewed"
)
