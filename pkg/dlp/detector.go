package dlp

import (
	"regexp"
	"sort"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

type Detector struct {
	rules []compiledRule
}

func NewDetector(cfg RulesConfig) (*Detector, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Detector{rules: compiled}, nil
}

// Result summarises what Detect found. Matched values are not kept.
type Result struct {
	Detected bool     `json:"detected"`
	Types    []string `json:"types,omitempty"`
	Matches  int      `json:"matches"`
}

func (d *Detector) Detect(data map[string]interface{}) Result {
	if d == nil {
		return Result{}
	}

	types := make(map[string]struct{})
	matches := 0
	walkStrings(data, func(text string) {
		for _, rule := range d.rules {
			n := len(rule.re.FindAllStringIndex(text, -1))
			if n == 0 {
				continue
			}
			types[rule.rule.Type] = struct{}{}
			matches += n
		}
	})

	result := Result{Detected: matches > 0, Matches: matches}
	for t := range types {
		result.Types = append(result.Types, t)
	}
	sort.Strings(result.Types)
	return result
}

// Sanitize returns a copy of data with every match masked. Non-string
// leaves are kept as is.
func (d *Detector) Sanitize(data map[string]interface{}) map[string]interface{} {
	if d == nil {
		return data
	}

	copyMap := make(map[string]interface{}, len(data))
	for key, value := range data {
		copyMap[key] = sanitizeValue(value, d.rules)
	}
	return copyMap
}

func sanitizeValue(value interface{}, rules []compiledRule) interface{} {
	switch v := value.(type) {
	case string:
		masked := v
		for _, rule := range rules {
			masked = rule.re.ReplaceAllString(masked, rule.rule.Mask)
		}
		return masked
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, nested := range v {
			out[k] = sanitizeValue(nested, rules)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, nested := range v {
			out[i] = sanitizeValue(nested, rules)
		}
		return out
	default:
		return value
	}
}

func walkStrings(value interface{}, fn func(string)) {
	switch v := value.(type) {
	case string:
		fn(v)
	case map[string]interface{}:
		for _, nested := range v {
			walkStrings(nested, fn)
		}
	case []interface{}:
		for _, nested := range v {
			walkStrings(nested, fn)
		}
	}
}
