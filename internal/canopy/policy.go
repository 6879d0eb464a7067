package canopy

import (
	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

// Candidate key lists for the structured policy shape. Canopy proper uses the
// cents-suffixed names; older pulls and partner carriers use the legacy ones.
var (
	perIncidentKeys = []string{"per_incident_limit_cents", "limit_per_occurrence", "limit"}
	perPersonKeys   = []string{"per_person_limit_cents", "limit_per_person"}
	deductibleKeys  = []string{"deductible_cents", "deductible"}
	declinedKeys    = []string{"is_declined"}
)

// ParsePolicy normalizes one raw policy object. The positional index becomes
// the policy's SourceIndex. Returns false only when the input is not an
// object at all; malformed fields degrade to absent values instead.
func ParsePolicy(raw map[string]any, index int) (ParsedPolicy, bool) {
	if raw == nil {
		return ParsedPolicy{}, false
	}

	p := ParsedPolicy{
		SourceIndex:  index,
		Type:         classifyPolicy(raw),
		Carrier:      carrierName(raw),
		PolicyNumber: stringField(raw, "policy_number", "number"),
		Status:       stringField(raw, "status", "policy_status"),

		EffectiveDate:  stringField(raw, "effective_date"),
		ExpirationDate: stringField(raw, "expiration_date"),
		RenewalDate:    stringField(raw, "renewal_date"),

		// Policy-level amounts arrive as whole-dollar floats.
		PremiumCents:    dollarsField(raw, "premium", "total_premium"),
		AmountDueCents:  dollarsField(raw, "amount_due", "total_due"),
		AmountPaidCents: dollarsField(raw, "amount_paid", "total_paid"),

		VehicleCount: 1,
		Coverages:    []ParsedCoverage{},
	}

	if v, ok := boolField(raw, "paid_in_full"); ok {
		p.PaidInFull = &v
	}

	switch p.Type {
	case constants.PolicyTypeAuto:
		p.Vehicles, p.Coverages = extractVehicles(raw)
		if len(p.Vehicles) > 0 {
			p.VehicleCount = len(p.Vehicles)
		} else {
			p.Vehicles = nil
		}
	default:
		p.Coverages = extractDwellingCoverages(raw)
	}

	return p, true
}

// classifyPolicy resolves the policy type, preferring an explicit label and
// falling back to structural shape. Home is the terminal default.
func classifyPolicy(raw map[string]any) constants.PolicyType {
	if label := stringField(raw, "policy_type", "type"); label != "" {
		if t, ok := constants.ClassifyTypeString(label); ok {
			return t
		}
	}
	if s, ok := sliceField(raw, "vehicles"); ok && len(s) > 0 {
		return constants.PolicyTypeAuto
	}
	if s, ok := sliceField(raw, "dwellings"); ok && len(s) > 0 {
		return constants.PolicyTypeHome
	}
	return constants.PolicyTypeHome
}

// carrierName accepts either a plain string or an object with a name field.
func carrierName(raw map[string]any) string {
	if s := stringField(raw, "carrier_name", "carrier"); s != "" {
		return s
	}
	if obj, ok := mapField(raw, "carrier_name", "carrier"); ok {
		return stringField(obj, "name")
	}
	return ""
}

// extractDwellingCoverages flattens coverages off every dwelling entry.
// A dwelling usually carries a nested coverages list; the legacy shape puts
// a bare coverage object directly in the dwellings array.
func extractDwellingCoverages(raw map[string]any) []ParsedCoverage {
	out := []ParsedCoverage{}
	dwellings, ok := sliceField(raw, "dwellings")
	if !ok {
		return out
	}
	for di, entry := range dwellings {
		d, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if covs, ok := sliceField(d, "coverages"); ok {
			for ci, cEntry := range covs {
				cm, ok := cEntry.(map[string]any)
				if !ok {
					continue
				}
				if cov, ok := parseCoverage(cm, ci); ok {
					out = append(out, cov)
				}
			}
			continue
		}
		// legacy shape: the dwelling entry is itself one coverage
		if cov, ok := parseCoverage(d, di); ok {
			out = append(out, cov)
		}
	}
	return out
}

// extractVehicles walks the vehicles array, assigning each vehicle a stable
// index and tagging its coverages with that index.
func extractVehicles(raw map[string]any) ([]ParsedVehicle, []ParsedCoverage) {
	vehicles := []ParsedVehicle{}
	coverages := []ParsedCoverage{}
	entries, ok := sliceField(raw, "vehicles")
	if !ok {
		return vehicles, coverages
	}
	for vi, entry := range entries {
		vm, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		vehicles = append(vehicles, ParsedVehicle{
			Index:       vi,
			Year:        numericOrString(vm, "year"),
			Make:        stringField(vm, "make"),
			Model:       stringField(vm, "model"),
			VIN:         stringField(vm, "vin"),
			VehicleType: stringField(vm, "type", "vehicle_type"),
			Uses:        stringField(vm, "uses", "use"),
		})
		covs, ok := sliceField(vm, "coverages")
		if !ok {
			continue
		}
		for ci, cEntry := range covs {
			cm, ok := cEntry.(map[string]any)
			if !ok {
				continue
			}
			cov, ok := parseCoverage(cm, ci)
			if !ok {
				continue
			}
			idx := vi
			cov.VehicleIndex = &idx
			coverages = append(coverages, cov)
		}
	}
	return vehicles, coverages
}

// parseCoverage normalizes one coverage object. A coverage with no name is
// unusable and dropped; declined coverages are kept so the formatter can
// render them as "None".
func parseCoverage(raw map[string]any, sourceIndex int) (ParsedCoverage, bool) {
	name := stringField(raw, "name", "coverage_name")
	if name == "" {
		return ParsedCoverage{}, false
	}
	cov := ParsedCoverage{
		Name:                  name,
		FriendlyName:          stringField(raw, "friendly_name"),
		PerIncidentLimitCents: centsField(raw, perIncidentKeys...),
		PerPersonLimitCents:   centsField(raw, perPersonKeys...),
		DeductibleCents:       centsField(raw, deductibleKeys...),
		SourceIndex:           sourceIndex,
	}
	if v, ok := boolField(raw, declinedKeys...); ok {
		cov.IsDeclined = v
	}
	return cov, true
}

// numericOrString renders a field that may arrive as a JSON number (vehicle
// years usually do) or a string.
func numericOrString(m map[string]any, keys ...string) string {
	if s := stringField(m, keys...); s != "" {
		return s
	}
	if f := numberField(m, keys...); f != nil {
		return formatWholeNumber(*f)
	}
	return ""
}
