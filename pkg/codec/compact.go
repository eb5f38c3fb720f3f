package codec

import (
	"strings"
	"time"

	"github.com/pulseid/platform/pkg/common/models"
)

type Compactor struct {
	now func() time.Time
}

type CompactorOption func(*Compactor)

// WithClock overrides the source of the t timestamp.
func WithClock(now func() time.Time) CompactorOption {
	return func(c *Compactor) {
		c.now = now
	}
}

func NewCompactor(opts ...CompactorOption) *Compactor {
	c := &Compactor{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompactor = NewCompactor()

// Compact maps a profile using the wall clock for t.
func Compact(p models.Profile) CompactPayload {
	return defaultCompactor.Compact(p)
}

// Compact maps p field by field. The output depends only on p, except for
// T which records when compaction happened.
func (c *Compactor) Compact(p models.Profile) CompactPayload {
	return compactAt(p, c.now())
}

// compactAt leaves T unset when at is zero.
func compactAt(p models.Profile, at time.Time) CompactPayload {
	out := CompactPayload{
		V:  SchemaVersion,
		N:  truncateRunes(p.Name, MaxNameRunes),
		A:  p.Age,
		G:  compactGender(p.Gender),
		B:  NormalizeBloodGroup(p.BloodGroup),
		H:  p.Height,
		HU: p.HeightUnit,
		HF: p.HeightFeet,
		HI: p.HeightInches,
		W:  p.Weight,
		WU: p.WeightUnit,
		C:  compactList(p.Conditions),
		M:  compactList(p.Medications),
		AL: compactList(p.Allergies),
		S:  compactList(p.Symptoms),
	}
	if !at.IsZero() {
		out.T = at.Unix()
	}

	for _, ec := range p.EmergencyContacts {
		if !hasNameAndNumber(ec.Name, ec.Number) {
			continue
		}
		out.EC = append(out.EC, CompactEmergencyContact{
			N: truncateRunes(ec.Name, MaxContactNameRunes),
			P: ec.Number,
			R: ec.Relationship,
		})
	}

	for _, dc := range p.DoctorContacts {
		if !hasNameAndNumber(dc.Name, dc.Number) {
			continue
		}
		out.DC = append(out.DC, CompactDoctorContact{
			N:  truncateRunes(dc.Name, MaxContactNameRunes),
			P:  dc.Number,
			SP: dc.Specialization,
		})
	}

	if ed := p.EmergencyDoctor; ed != nil && hasNameAndNumber(ed.Name, ed.Number) {
		out.ED = &CompactDoctor{
			N: truncateRunes(ed.Name, MaxContactNameRunes),
			P: ed.Number,
		}
	}

	if p.RiskAssessment != nil {
		out.R = compactRisk(*p.RiskAssessment)
	}

	return out
}

func compactRisk(r models.RiskAssessment) *CompactRisk {
	cr := &CompactRisk{
		L:  r.Level.String(),
		S:  r.Summary,
		G:  nilIfEmpty(r.Guidelines),
		C:  nilIfEmpty(r.Conditions),
		SY: nilIfEmpty(r.Symptoms),
	}
	if len(r.Codes) > 0 {
		cr.CD = r.Codes
	}
	if !r.Timestamp.IsZero() {
		cr.T = r.Timestamp.Unix()
	}
	return cr
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func compactList(l models.ClinicalList) *[]string {
	if l == nil {
		return nil
	}
	items := make([]string, len(l))
	copy(items, l)
	return &items
}

// compactGender codes the exact form values only. Any other text is kept
// verbatim, escaped when it could be read back as a code.
func compactGender(g string) string {
	if code, ok := genderCodes[g]; ok {
		return code
	}
	if _, isCode := genderNames[g]; isCode || strings.HasPrefix(g, genderEscape) {
		return genderEscape + g
	}
	return g
}

// NormalizeBloodGroup rewrites recognised spellings such as "B negative",
// "O+ve" or "ab pos" to the form codes (A+, A-, B+, B-, AB+, AB-, O+, O-).
// Anything else is returned unchanged.
func NormalizeBloodGroup(s string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(s), ""))
	key = bloodGroupPunct.Replace(key)
	if key == "" {
		return s
	}

	var group string
	for _, g := range []string{"AB", "A", "B", "O"} {
		if strings.HasPrefix(key, g) {
			group = g
			break
		}
	}
	if group == "" {
		return s
	}
	sign, ok := rhFactors[strings.TrimPrefix(key[len(group):], "RH")]
	if !ok {
		return s
	}
	return group + sign
}

var bloodGroupPunct = strings.NewReplacer("\u2212", "-", "\u2013", "-", "(", "", ")", "", "_", "")

var rhFactors = map[string]string{
	"+": "+", "+VE": "+", "POS": "+", "POSITIVE": "+", "VE+": "+",
	"-": "-", "-VE": "-", "NEG": "-", "NEGATIVE": "-", "VE-": "-",
}

func hasNameAndNumber(name, number string) bool {
	return strings.TrimSpace(name) != "" && strings.TrimSpace(number) != ""
}

// truncateRunes keeps at most max runes; a string of exactly max runes is
// returned unchanged.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
