package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// NoneSentinel is the legacy marker for an explicitly empty list.
const NoneSentinel = "None"

// ClinicalList is an ordered list of free-text clinical entries.
// A nil list was never filled in; an empty non-nil list means "none".
type ClinicalList []string

// NoneList returns a list explicitly declared empty.
func NoneList() ClinicalList {
	return ClinicalList{}
}

func (l ClinicalList) IsUnset() bool {
	return l == nil
}

func (l ClinicalList) IsNone() bool {
	return l != nil && len(l) == 0
}

// HasEntries reports whether at least one entry is present.
func (l ClinicalList) HasEntries() bool {
	return len(l) > 0
}

// Text joins the entries for display and keyword scanning.
func (l ClinicalList) Text() string {
	return strings.Join(l, ", ")
}

// ParseClinicalList converts the legacy comma-joined representation.
// "" is unset, "None" is explicitly empty, and "None" entries mixed with
// real entries are dropped.
func ParseClinicalList(s string) ClinicalList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	out := ClinicalList{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, NoneSentinel) {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (l ClinicalList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts an array, null, or the legacy comma-joined string.
// "None" entries are dropped in both forms.
func (l *ClinicalList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = ParseClinicalList(s)
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(ClinicalList, 0, len(items))
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item == "" || strings.EqualFold(item, NoneSentinel) {
				continue
			}
			out = append(out, item)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("clinical list must be an array or string, got %s", string(data))
	}
}
