// Package codec turns a medical profile into a compact, URL-safe payload
// for emergency sharing and back again.
//
// Compact schema v1. Each short key maps to exactly one profile field:
//
//	v   schema version          ec[]  emergencyContacts {n, p, r}
//	n   name (≤50 runes)        dc[]  doctorContacts {n, p, sp}
//	a   age                     ed    emergency doctor {n, p}
//	g   gender code or text     r     riskAssessment {l, s, g, c, sy, cd, t}
//	b   bloodGroup              t     compaction time, unix seconds
//	h   height                  c     conditions
//	hu  heightUnit              m     medications
//	hf  heightFeet              al    allergies
//	hi  heightInches            s     symptoms
//	w   weight
//	wu  weightUnit
//
// Contact names are limited to 30 runes. Absent keys are omitted rather
// than written as null. Gender is M, F, O or X for the four form values;
// other text is written as is, prefixed with "=" when it would otherwise
// read as a code. Blood groups are normalised to the form codes when
// recognised and kept as is otherwise.
package codec

const SchemaVersion = 1

const (
	MaxNameRunes        = 50
	MaxContactNameRunes = 30
)

type CompactPayload struct {
	V  int    `json:"v,omitempty"`
	N  string `json:"n,omitempty"`
	A  string `json:"a,omitempty"`
	G  string `json:"g,omitempty"`
	B  string `json:"b,omitempty"`
	H  string `json:"h,omitempty"`
	HU string `json:"hu,omitempty"`
	HF string `json:"hf,omitempty"`
	HI string `json:"hi,omitempty"`
	W  string `json:"w,omitempty"`
	WU string `json:"wu,omitempty"`

	// nil: never filled; pointer to empty slice: explicitly none.
	C  *[]string `json:"c,omitempty"`
	M  *[]string `json:"m,omitempty"`
	AL *[]string `json:"al,omitempty"`
	S  *[]string `json:"s,omitempty"`

	EC []CompactEmergencyContact `json:"ec,omitempty"`
	DC []CompactDoctorContact    `json:"dc,omitempty"`
	ED *CompactDoctor            `json:"ed,omitempty"`

	R *CompactRisk `json:"r,omitempty"`
	T int64        `json:"t,omitempty"`
}

type CompactEmergencyContact struct {
	N string `json:"n,omitempty"`
	P string `json:"p,omitempty"`
	R string `json:"r,omitempty"`
}

type CompactDoctorContact struct {
	N  string `json:"n,omitempty"`
	P  string `json:"p,omitempty"`
	SP string `json:"sp,omitempty"`
}

type CompactDoctor struct {
	N string `json:"n,omitempty"`
	P string `json:"p,omitempty"`
}

type CompactRisk struct {
	L  string            `json:"l"`
	S  string            `json:"s,omitempty"`
	G  []string          `json:"g,omitempty"`
	C  []string          `json:"c,omitempty"`
	SY []string          `json:"sy,omitempty"`
	CD map[string]string `json:"cd,omitempty"`
	T  int64             `json:"t,omitempty"`
}

var genderCodes = map[string]string{
	"Male":              "M",
	"Female":            "F",
	"Other":             "O",
	"Prefer not to say": "X",
}

const genderEscape = "="

var genderNames = map[string]string{
	"M": "Male",
	"F": "Female",
	"O": "Other",
	"X": "Prefer not to say",
}

// compactKeys are the top-level keys of schema v1.
var compactKeys = []string{
	"v", "n", "a", "g", "b", "h", "hu", "hf", "hi", "w", "wu",
	"c", "m", "al", "s", "ec", "dc", "ed", "r", "t",
}

// legacyKeys identify the full-key profile JSON that links carried before
// the compact schema.
var legacyKeys = []string{
	"name", "age", "gender", "bloodGroup", "height", "weight",
	"conditions", "medications", "allergies", "symptoms",
	"emergencyContacts", "doctorContacts",
	"emergencyDoctorName", "emergencyDoctorNumber",
}
