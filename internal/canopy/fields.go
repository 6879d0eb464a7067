package canopy

import (
	"math"
	"strconv"
	"strings"
)

// Field coalescing: every logical value has an ordered candidate key list and
// the first key holding a usable value wins. Keeping the precedence in one
// place makes it testable away from the payload walking code.

// firstPresent returns the value of the first candidate key present in m.
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first non-empty string among the candidate keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

// numberField returns the first numeric value among the candidate keys.
// JSON numbers arrive as float64; numeric strings are accepted too because
// some no-code layers stringify everything. nil means absent, never zero.
func numberField(m map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return &t
		case int:
			f := float64(t)
			return &f
		case int64:
			f := float64(t)
			return &f
		case string:
			if f := parseLooseNumber(t); f != nil {
				return f
			}
		}
	}
	return nil
}

// centsField reads a value that is already expressed in integer cents.
func centsField(m map[string]any, keys ...string) *int64 {
	f := numberField(m, keys...)
	if f == nil {
		return nil
	}
	c := int64(math.Round(*f))
	return &c
}

// dollarsToCents converts a whole-dollar float to integer cents, rounding to
// the nearest cent.
func dollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

// dollarsField reads a whole-dollar amount and normalizes it to cents.
func dollarsField(m map[string]any, keys ...string) *int64 {
	f := numberField(m, keys...)
	if f == nil {
		return nil
	}
	c := dollarsToCents(*f)
	return &c
}

// boolField parses permissively: native bools pass through, the string
// "true" (any casing) is true, everything else is false.
func boolField(m map[string]any, keys ...string) (value, present bool) {
	v, ok := firstPresent(m, keys...)
	if !ok {
		return false, false
	}
	return looseBool(v), true
}

func looseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	}
	return false
}

// parseLooseNumber parses a numeric-looking string, treating empty, "null"
// and unparseable input as absent rather than zero.
func parseLooseNumber(s string) *float64 {
	t := strings.TrimSpace(s)
	if t == "" || strings.EqualFold(t, "null") {
		return nil
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return nil
	}
	return &f
}

// formatLooseNumber renders a float without trailing zeros, matching how the
// automation layer stringifies numbers inside its arrays.
func formatLooseNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatWholeNumber renders a float that is semantically an integer, e.g. a
// vehicle year decoded from JSON as float64.
func formatWholeNumber(f float64) string {
	return strconv.FormatInt(int64(math.Round(f)), 10)
}

// mapField returns the first candidate key holding an object.
func mapField(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if mm, ok := m[k].(map[string]any); ok {
			return mm, true
		}
	}
	return nil, false
}

// sliceField returns the first candidate key holding an array.
func sliceField(m map[string]any, keys ...string) ([]any, bool) {
	for _, k := range keys {
		if s, ok := m[k].([]any); ok {
			return s, true
		}
	}
	return nil, false
}
