package constants

import (
	"strings"
)

// PolicyType is the canonical policy type for parsed Canopy policies.
type PolicyType string

const (
	PolicyTypeHome    PolicyType = "home"
	PolicyTypeAuto    PolicyType = "auto"
	PolicyTypeRenters PolicyType = "renters"
)

var allPolicyTypes = []PolicyType{
	PolicyTypeHome,
	PolicyTypeAuto,
	PolicyTypeRenters,
}

func PolicyTypesAsStrings() []string {
	result := make([]string, len(allPolicyTypes))
	for i, pt := range allPolicyTypes {
		result[i] = string(pt)
	}
	return result
}

// autoHints, rentersHints, homeHints are checked in this priority order:
// an "auto" hint wins over a "rent" hint, which wins over a "home" hint.
var (
	autoHints    = []string{"auto", "car", "vehicle"}
	rentersHints = []string{"rent"}
	homeHints    = []string{"home", "dwelling", "ho3", "ho5"}
)

// ClassifyTypeString maps a raw policy-type label to a canonical PolicyType.
// Matching is case-insensitive substring containment. Returns false when the
// label carries no recognizable hint, leaving classification to structure.
func ClassifyTypeString(raw string) (PolicyType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	for _, h := range autoHints {
		if strings.Contains(s, h) {
			return PolicyTypeAuto, true
		}
	}
	for _, h := range rentersHints {
		if strings.Contains(s, h) {
			return PolicyTypeRenters, true
		}
	}
	for _, h := range homeHints {
		if strings.Contains(s, h) {
			return PolicyTypeHome, true
		}
	}
	return "", false
}
