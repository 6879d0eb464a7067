// Package format turns parsed policies into the human-readable coverage
// summaries fed to the grading collaborator and persisted for display.
package format

import (
	"strconv"
	"strings"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/scoring"
)

// CoverageSet is the formatted output for one policy. Both strings are
// comma-joined plain text.
type CoverageSet struct {
	CoverageString   string `json:"coverage_string"`
	DeductibleString string `json:"deductible_string"`
}

// Coverages formats one policy's coverages through the rule table. For
// multi-vehicle auto policies, shared coverages come first and per-vehicle
// coverages are grouped under a computed vehicle label.
func Coverages(p canopy.ParsedPolicy) CoverageSet {
	var set CoverageSet

	if p.Type == constants.PolicyTypeAuto && len(p.Vehicles) > 1 {
		set.CoverageString = formatMultiVehicle(p)
	} else {
		entries := make([]string, 0, len(p.Coverages))
		for _, c := range p.Coverages {
			if e, ok := renderCoverage(p.Type, c); ok {
				entries = append(entries, e)
			}
		}
		set.CoverageString = strings.Join(entries, ", ")
	}

	if p.Type == constants.PolicyTypeHome {
		set.DeductibleString = deductibleSummary(p)
	}
	return set
}

// renderCoverage resolves one coverage to its display entry. Declined
// coverages short-circuit every rule. Rules match on the normalized name so
// raw technical names like "BODILY_INJURY" hit the same rule as their spaced
// display forms; the entry itself keeps the raw name.
func renderCoverage(t constants.PolicyType, c canopy.ParsedCoverage) (string, bool) {
	display := c.DisplayName()
	if c.IsDeclined {
		return display + ": None", true
	}
	name := scoring.NormalizeCoverageName(display)
	for _, r := range coverageRules {
		if !r.appliesTo(t) || !r.match(name) {
			continue
		}
		value, ok := r.render(c)
		if !ok {
			return "", false
		}
		if r.deductibleLabel {
			return display + " Deductible: " + value, true
		}
		return display + ": " + value, true
	}
	return "", false
}

// formatMultiVehicle joins policy-level coverages first, then each vehicle's
// coverages bracketed under its label.
func formatMultiVehicle(p canopy.ParsedPolicy) string {
	var entries []string
	for _, c := range p.Coverages {
		if c.VehicleIndex != nil {
			continue
		}
		if e, ok := renderCoverage(p.Type, c); ok {
			entries = append(entries, e)
		}
	}

	for _, v := range p.Vehicles {
		var group []string
		for _, c := range p.Coverages {
			if c.VehicleIndex == nil || *c.VehicleIndex != v.Index {
				continue
			}
			if e, ok := renderCoverage(p.Type, c); ok {
				group = append(group, e)
			}
		}
		if len(group) == 0 {
			continue
		}
		entries = append(entries, vehicleLabel(v)+" ("+strings.Join(group, ", ")+")")
	}
	return strings.Join(entries, ", ")
}

// vehicleLabel builds "<year> <make> <model>", falling back to a positional
// label when the vehicle record carries none of those.
func vehicleLabel(v canopy.ParsedVehicle) string {
	label := strings.TrimSpace(strings.Join(compact(v.Year, v.Make, v.Model), " "))
	if label == "" {
		return "Vehicle " + strconv.Itoa(v.Index+1)
	}
	return label
}

// deductibleSummary lists every deductible-bearing home coverage separately.
func deductibleSummary(p canopy.ParsedPolicy) string {
	var entries []string
	for _, c := range p.Coverages {
		if c.DeductibleCents == nil {
			continue
		}
		entries = append(entries, c.DisplayName()+": "+Dollars(*c.DeductibleCents))
	}
	return strings.Join(entries, ", ")
}

func compact(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
