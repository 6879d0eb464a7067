package format

import (
	"strings"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
)

// The formatter is a declarative rule table: ordered (predicate, renderer)
// pairs evaluated top to bottom. The first matching rule wins. A renderer
// returning ok=false omits the coverage from the summary string entirely.

type coverageRule struct {
	// nil means the rule applies to any policy type
	types  []constants.PolicyType
	match  func(name string) bool
	render func(c canopy.ParsedCoverage) (string, bool)
	// deductibleLabel switches the entry form from "<name>: <value>" to
	// "<name> Deductible: <value>"
	deductibleLabel bool
}

func nameContains(fragments ...string) func(string) bool {
	return func(name string) bool {
		for _, f := range fragments {
			if strings.Contains(name, f) {
				return true
			}
		}
		return false
	}
}

func anyName(string) bool { return true }

var (
	autoOnly = []constants.PolicyType{constants.PolicyTypeAuto}
	homeish  = []constants.PolicyType{constants.PolicyTypeHome, constants.PolicyTypeRenters}
)

// coverageRules is evaluated in order. The declined short-circuit is handled
// before the table (see renderCoverage); these rules only see live coverages.
var coverageRules = []coverageRule{
	{
		// split liability limits: "$100,000/$300,000"
		types: autoOnly,
		match: nameContains("bodily injury", "uninsured motorist", "underinsured motorist"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			switch {
			case c.PerPersonLimitCents != nil && c.PerIncidentLimitCents != nil:
				return Dollars(*c.PerPersonLimitCents) + "/" + Dollars(*c.PerIncidentLimitCents), true
			case c.PerIncidentLimitCents != nil:
				return Dollars(*c.PerIncidentLimitCents), true
			}
			return "None", true
		},
	},
	{
		types: autoOnly,
		match: nameContains("collision", "comprehensive"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			if c.DeductibleCents != nil {
				return Dollars(*c.DeductibleCents), true
			}
			return "Not included", true
		},
	},
	{
		// presence-only signal
		types: autoOnly,
		match: nameContains("roadside", "emergency road"),
		render: func(canopy.ParsedCoverage) (string, bool) {
			return "Yes", true
		},
	},
	{
		types: autoOnly,
		match: nameContains("property damage"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			if c.PerIncidentLimitCents != nil {
				return Dollars(*c.PerIncidentLimitCents), true
			}
			return "None", true
		},
	},
	{
		types: autoOnly,
		match: nameContains("medical payments", "medical expense"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			switch {
			case c.PerPersonLimitCents != nil:
				return Dollars(*c.PerPersonLimitCents), true
			case c.PerIncidentLimitCents != nil:
				return Dollars(*c.PerIncidentLimitCents), true
			}
			return "None", true
		},
	},
	{
		// rental limits are quoted per day with cents ("$43.50")
		types: autoOnly,
		match: nameContains("rental"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			switch {
			case c.PerPersonLimitCents != nil:
				return Currency(*c.PerPersonLimitCents), true
			case c.PerIncidentLimitCents != nil:
				return Currency(*c.PerIncidentLimitCents), true
			}
			return "Not included", true
		},
	},
	{
		// peril deductibles render as their own labelled entry
		types:           homeish,
		match:           nameContains("windstorm", "wind", "hail", "hurricane", "all peril", "all other peril"),
		deductibleLabel: true,
		render: func(c canopy.ParsedCoverage) (string, bool) {
			if c.DeductibleCents != nil {
				return Dollars(*c.DeductibleCents), true
			}
			return "Not specified", true
		},
	},
	{
		types: homeish,
		match: nameContains("personal liability", "medical payments"),
		render: func(c canopy.ParsedCoverage) (string, bool) {
			switch {
			case c.PerPersonLimitCents != nil:
				return Dollars(*c.PerPersonLimitCents), true
			case c.PerIncidentLimitCents != nil:
				return Dollars(*c.PerIncidentLimitCents), true
			}
			return "None", true
		},
	},
	{
		types: homeish,
		match: anyName,
		render: func(c canopy.ParsedCoverage) (string, bool) {
			if c.PerIncidentLimitCents != nil {
				return Dollars(*c.PerIncidentLimitCents), true
			}
			return "None", true
		},
	},
	{
		// generic fallback: show a limit if either exists, otherwise omit
		match: anyName,
		render: func(c canopy.ParsedCoverage) (string, bool) {
			switch {
			case c.PerIncidentLimitCents != nil:
				return Dollars(*c.PerIncidentLimitCents), true
			case c.PerPersonLimitCents != nil:
				return Dollars(*c.PerPersonLimitCents), true
			}
			return "", false
		},
	},
}

func (r coverageRule) appliesTo(t constants.PolicyType) bool {
	if r.types == nil {
		return true
	}
	for _, rt := range r.types {
		if rt == t {
			return true
		}
	}
	return false
}
