package canopy

import (
	"math"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

// The flattened shape comes from a no-code automation layer that exploded
// each policy type into five parallel fields. Any of them may arrive as a
// native array, a stringified JSON array, or a comma-separated string.

type flattenedGroup struct {
	policyType constants.PolicyType
	names      string
	amounts    string
	deductible string
	perPerson  string
	declined   string
}

var flattenedGroups = []flattenedGroup{
	{
		policyType: constants.PolicyTypeHome,
		names:      "home_coverage_names",
		amounts:    "home_coverage_amounts",
		deductible: "home_coverage_deductibles",
		perPerson:  "home_coverage_per_person_limits",
		declined:   "home_coverage_declined",
	},
	{
		policyType: constants.PolicyTypeAuto,
		names:      "auto_coverage_names",
		amounts:    "auto_coverage_amounts",
		deductible: "auto_coverage_deductibles",
		perPerson:  "auto_coverage_per_person_limits",
		declined:   "auto_coverage_declined",
	},
	{
		policyType: constants.PolicyTypeRenters,
		names:      "renters_coverage_names",
		amounts:    "renters_coverage_amounts",
		deductible: "renters_coverage_deductibles",
		perPerson:  "renters_coverage_per_person_limits",
		declined:   "renters_coverage_declined",
	},
}

// ParseFlattened reconstructs policies from parallel-array fields. A group
// yields a policy only when at least one coverage survives the zip.
func ParseFlattened(payload map[string]any) []ParsedPolicy {
	policies := []ParsedPolicy{}
	for _, g := range flattenedGroups {
		names := toStringArray(payload[g.names])
		if len(names) == 0 {
			continue
		}
		amounts := toStringArray(payload[g.amounts])
		deductibles := toStringArray(payload[g.deductible])
		perPersons := toStringArray(payload[g.perPerson])
		declineds := toStringArray(payload[g.declined])

		coverages := []ParsedCoverage{}
		for i, name := range names {
			name = strings.TrimSpace(name)
			if name == "" || strings.EqualFold(name, "null") {
				continue
			}
			cov := ParsedCoverage{
				Name:        name,
				SourceIndex: i,
				// NOTE: amounts on this path are stored without the x100
				// dollar conversion the structured path applies. The source
				// units here were never pinned down upstream; preserved as
				// received rather than guessed at.
				PerIncidentLimitCents: looseNumberCents(at(amounts, i)),
				DeductibleCents:       looseNumberCents(at(deductibles, i)),
				PerPersonLimitCents:   looseNumberCents(at(perPersons, i)),
				IsDeclined:            strings.EqualFold(strings.TrimSpace(at(declineds, i)), "true"),
			}
			coverages = append(coverages, cov)
		}
		if len(coverages) == 0 {
			continue
		}
		policies = append(policies, ParsedPolicy{
			Type:         g.policyType,
			SourceIndex:  len(policies),
			VehicleCount: 1,
			Coverages:    coverages,
		})
	}
	return policies
}

// toStringArray normalizes the three field encodings to a string slice.
// Empty input yields an empty slice, never nil elements.
func toStringArray(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, anyToString(e))
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, strings.TrimSpace(e))
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []string{}
		}
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			var arr []any
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				out := make([]string, 0, len(arr))
				for _, e := range arr {
					out = append(out, anyToString(e))
				}
				return out
			}
			// fall through: treat an unparseable bracket string as CSV
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}
	return nil
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return formatLooseNumber(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	}
	return ""
}

// looseNumberCents parses a numeric-looking string into cents, treating
// failures and sentinels as absent.
func looseNumberCents(s string) *int64 {
	f := parseLooseNumber(s)
	if f == nil {
		return nil
	}
	c := int64(math.Round(*f))
	return &c
}

func at(arr []string, i int) string {
	if i < 0 || i >= len(arr) {
		return ""
	}
	return arr[i]
}
