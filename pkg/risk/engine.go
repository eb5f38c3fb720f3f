// Package risk assigns an emergency risk tier to a profile from keyword
// rules over its conditions, symptoms and allergies.
package risk

import (
	"time"

	"github.com/pulseid/platform/pkg/common/models"
)

// Engine evaluates an ordered rule list. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	rules []Rule
	now   func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRules replaces the ladder built from the vocabulary.
func WithRules(rules []Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

func NewEngine(v Vocabulary, opts ...Option) *Engine {
	e := &Engine{
		rules: v.Rules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine(DefaultVocabulary())

// Assess runs the default vocabulary.
func Assess(p models.Profile) models.RiskAssessment {
	return defaultEngine.Assess(p)
}

// Assess never fails: a profile that matches no rule is LOW. Attached
// medical reports add a follow-up line after the tier's guidelines but
// never change the level.
func (e *Engine) Assess(p models.Profile) models.RiskAssessment {
	signals := signalsOf(p)
	level := models.RiskLow
	finding := Finding{
		Summary:    "No significant risk factors identified.",
		Guidelines: []string{lowReassurance},
	}
	for _, rule := range e.rules {
		if f, ok := rule.Match(signals); ok {
			level, finding = rule.Level, f
			break
		}
	}
	if signals.Reports > 0 {
		finding.Guidelines = append(finding.Guidelines, reportFollowUp)
	}
	return e.assessment(level, finding)
}

func (e *Engine) assessment(level models.RiskLevel, f Finding) models.RiskAssessment {
	ra := models.RiskAssessment{
		Level:      level,
		Summary:    f.Summary,
		Guidelines: dedupe(f.Guidelines),
		Conditions: nonNil(f.Conditions),
		Symptoms:   nonNil(f.Symptoms),
		Timestamp:  e.now().UTC().Truncate(time.Second),
	}
	if len(f.Codes) > 0 {
		ra.Codes = f.Codes
	}
	return ra
}

func dedupe(lines []string) []string {
	out := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
