package utils

import (
	"encoding/json"
	"strings"
)

// ListField accepts either a JSON array of strings or a single comma-joined
// string, which is how clients send tags, tech stacks and tool lists.
type ListField []string

func (f *ListField) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*f = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = strings.Split(s, ",")
	return nil
}

// Normalize trims every element, drops empties and removes duplicates while
// preserving first-seen order.
func (f ListField) Normalize() []string {
	out := make([]string, 0, len(f))
	seen := make(map[string]struct{}, len(f))
	for _, v := range f {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NormalizeList splits a comma-joined form value and normalizes it; used by
// the multipart handlers where the value always arrives as a single string.
func NormalizeList(s string) []string {
	return ListField(strings.Split(s, ",")).Normalize()
}
