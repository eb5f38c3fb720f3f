package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractMedicalReport(t *testing.T) {
	text := "City Lab - Complete Blood Test\n" +
		"Report Date: 2026-02-11\n" +
		"Results: Haemoglobin 10.1 g/dL (low)\n" +
		"Platelets within range\n" +
		"\n" +
		"Impression: Mild anaemia\n" +
		"LDL cholesterol elevated at 180 mg/dL\n" +
		"Please follow up in two weeks\n"

	got := ExtractMedicalReport(text, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "Blood Test", got.Type)
	assert.Equal(t, "2026-02-11", got.Date)
	assert.Equal(t, "Mild anaemia", got.Summary)
	assert.Equal(t, "Haemoglobin 10.1 g/dL (low)\nPlatelets within range", got.Details)
	assert.Equal(t, []string{
		"Results: Haemoglobin 10.1 g/dL (low)",
		"LDL cholesterol elevated at 180 mg/dL",
	}, got.Concerns)
}

func TestExtractMedicalReportDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	got := ExtractMedicalReport("Scan performed on: sometime last week", now)

	assert.Equal(t, OtherReportType, got.Type)
	assert.Equal(t, NoSummary, got.Summary)
	assert.Equal(t, NoDetails, got.Details)
	assert.Equal(t, "2026-03-01", got.Date)
	assert.NotNil(t, got.Concerns)
	assert.Empty(t, got.Concerns)
}

func TestExtractMedicalReportTypeOrder(t *testing.T) {
	got := ExtractMedicalReport("ECG attached to MRI request\nFindings: normal sinus rhythm", time.Now())
	assert.Equal(t, "MRI", got.Type)
	assert.Equal(t, "normal sinus rhythm", got.Summary)

	got = ExtractMedicalReport("Date: March 3, 2025\nChest X-ray clear", time.Now())
	assert.Equal(t, "X-Ray", got.Type)
	assert.Equal(t, "2025-03-03", got.Date)
}
