package format

import (
	"strings"
	"testing"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
)

func cents(v int64) *int64 { return &v }

func autoPolicy(covs ...canopy.ParsedCoverage) canopy.ParsedPolicy {
	return canopy.ParsedPolicy{
		Type:         constants.PolicyTypeAuto,
		VehicleCount: 1,
		Coverages:    covs,
	}
}

func homePolicy(covs ...canopy.ParsedCoverage) canopy.ParsedPolicy {
	return canopy.ParsedPolicy{
		Type:         constants.PolicyTypeHome,
		VehicleCount: 1,
		Coverages:    covs,
	}
}

func TestDeclinedShortCircuits(t *testing.T) {
	p := autoPolicy(canopy.ParsedCoverage{
		Name:                  "COLLISION",
		IsDeclined:            true,
		DeductibleCents:       cents(50000),
		PerIncidentLimitCents: cents(10000000),
	})
	got := Coverages(p).CoverageString
	if got != "COLLISION: None" {
		t.Fatalf("got %q", got)
	}
}

func TestAutoLiabilitySplitLimits(t *testing.T) {
	p := autoPolicy(canopy.ParsedCoverage{
		Name:                  "BODILY_INJURY",
		FriendlyName:          "Bodily Injury Liability",
		PerPersonLimitCents:   cents(10000000),
		PerIncidentLimitCents: cents(30000000),
	})
	got := Coverages(p).CoverageString
	if got != "Bodily Injury Liability: $100,000/$300,000" {
		t.Fatalf("got %q", got)
	}
}

func TestAutoLiabilityRuleVariants(t *testing.T) {
	cases := []struct {
		name string
		cov  canopy.ParsedCoverage
		want string
	}{
		{
			"per incident only",
			canopy.ParsedCoverage{Name: "Uninsured Motorist", PerIncidentLimitCents: cents(5000000)},
			"Uninsured Motorist: $50,000",
		},
		{
			"no limits",
			canopy.ParsedCoverage{Name: "Underinsured Motorist BI"},
			"Underinsured Motorist BI: None",
		},
		{
			"collision deductible",
			canopy.ParsedCoverage{Name: "Collision", DeductibleCents: cents(50000)},
			"Collision: $500",
		},
		{
			"comprehensive missing",
			canopy.ParsedCoverage{Name: "Comprehensive"},
			"Comprehensive: Not included",
		},
		{
			"roadside is presence only",
			canopy.ParsedCoverage{Name: "Roadside Assistance"},
			"Roadside Assistance: Yes",
		},
		{
			"property damage",
			canopy.ParsedCoverage{Name: "Property Damage Liability", PerIncidentLimitCents: cents(10000000)},
			"Property Damage Liability: $100,000",
		},
		{
			"medical payments prefers per person",
			canopy.ParsedCoverage{Name: "Medical Payments", PerPersonLimitCents: cents(500000), PerIncidentLimitCents: cents(1000000)},
			"Medical Payments: $5,000",
		},
		{
			"rental keeps cents",
			canopy.ParsedCoverage{Name: "Rental Reimbursement", PerPersonLimitCents: cents(4350)},
			"Rental Reimbursement: $43.50",
		},
		{
			"rental missing",
			canopy.ParsedCoverage{Name: "Rental"},
			"Rental: Not included",
		},
	}
	for _, tc := range cases {
		got := Coverages(autoPolicy(tc.cov)).CoverageString
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRuleMatchOnRawTechnicalNames(t *testing.T) {
	// carriers often send SCREAMING_SNAKE names with no friendly label; the
	// rules must still match while the entry keeps the raw name
	cases := []struct {
		name   string
		policy canopy.ParsedPolicy
		want   string
	}{
		{
			"underscored liability splits limits",
			autoPolicy(canopy.ParsedCoverage{
				Name:                  "BODILY_INJURY",
				PerPersonLimitCents:   cents(10000000),
				PerIncidentLimitCents: cents(30000000),
			}),
			"BODILY_INJURY: $100,000/$300,000",
		},
		{
			"underscored medical payments",
			autoPolicy(canopy.ParsedCoverage{Name: "MEDICAL_PAYMENTS", PerPersonLimitCents: cents(500000)}),
			"MEDICAL_PAYMENTS: $5,000",
		},
		{
			"underscored roadside",
			autoPolicy(canopy.ParsedCoverage{Name: "ROADSIDE_ASSISTANCE"}),
			"ROADSIDE_ASSISTANCE: Yes",
		},
		{
			"underscored peril deductible",
			homePolicy(canopy.ParsedCoverage{Name: "ALL_OTHER_PERILS", DeductibleCents: cents(250000)}),
			"ALL_OTHER_PERILS Deductible: $2,500",
		},
	}
	for _, tc := range cases {
		got := Coverages(tc.policy).CoverageString
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestNormalizeThenFormatAuto(t *testing.T) {
	// full path: raw pull payload through normalization into the formatter
	raw := []byte(`{
		"policies": [
			{
				"policy_type": "auto",
				"vehicles": [
					{
						"year": 2020,
						"make": "Honda",
						"model": "Civic",
						"coverages": [
							{
								"name": "BODILY_INJURY",
								"per_incident_limit_cents": 30000000,
								"per_person_limit_cents": 10000000
							}
						]
					}
				]
			}
		]
	}`)

	data, err := canopy.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(data.Policies))
	}
	got := Coverages(data.Policies[0]).CoverageString
	if got != "BODILY_INJURY: $100,000/$300,000" {
		t.Fatalf("got %q, want %q", got, "BODILY_INJURY: $100,000/$300,000")
	}
}

func TestHomeRules(t *testing.T) {
	cases := []struct {
		name string
		cov  canopy.ParsedCoverage
		want string
	}{
		{
			"peril deductible entry",
			canopy.ParsedCoverage{Name: "Wind/Hail", DeductibleCents: cents(250000)},
			"Wind/Hail Deductible: $2,500",
		},
		{
			"peril without amount",
			canopy.ParsedCoverage{Name: "Hurricane"},
			"Hurricane Deductible: Not specified",
		},
		{
			"personal liability",
			canopy.ParsedCoverage{Name: "Personal Liability", PerIncidentLimitCents: cents(30000000)},
			"Personal Liability: $300,000",
		},
		{
			"default home coverage",
			canopy.ParsedCoverage{Name: "Dwelling", PerIncidentLimitCents: cents(35000000)},
			"Dwelling: $350,000",
		},
		{
			"default home without limit",
			canopy.ParsedCoverage{Name: "Other Structures"},
			"Other Structures: None",
		},
	}
	for _, tc := range cases {
		got := Coverages(homePolicy(tc.cov)).CoverageString
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestRentersDefaultRule(t *testing.T) {
	p := canopy.ParsedPolicy{
		Type:         constants.PolicyTypeRenters,
		VehicleCount: 1,
		Coverages: []canopy.ParsedCoverage{
			{Name: "Personal Property", PerIncidentLimitCents: cents(2500000)},
			{Name: "Identity Theft"}, // no limits -> renters default renders None
		},
	}
	got := Coverages(p).CoverageString
	if got != "Personal Property: $25,000, Identity Theft: None" {
		t.Fatalf("got %q", got)
	}
}

func TestGenericFallback(t *testing.T) {
	// an auto coverage matching no auto rule falls through to the generic
	// fallback: show a limit if one exists, otherwise omit entirely
	p := autoPolicy(
		canopy.ParsedCoverage{Name: "Gap Coverage", PerPersonLimitCents: cents(1500000)},
		canopy.ParsedCoverage{Name: "Towing"},
	)
	got := Coverages(p).CoverageString
	if got != "Gap Coverage: $15,000" {
		t.Fatalf("got %q", got)
	}
}

func TestMultiVehicleGrouping(t *testing.T) {
	vi0, vi1 := 0, 1
	p := canopy.ParsedPolicy{
		Type:         constants.PolicyTypeAuto,
		VehicleCount: 2,
		Vehicles: []canopy.ParsedVehicle{
			{Index: 0, Year: "2020", Make: "Honda", Model: "Civic"},
			{Index: 1},
		},
		Coverages: []canopy.ParsedCoverage{
			{Name: "Roadside Assistance"}, // shared, no vehicle index
			{Name: "Collision", DeductibleCents: cents(50000), VehicleIndex: &vi0},
			{Name: "Collision", DeductibleCents: cents(100000), VehicleIndex: &vi1},
		},
	}
	got := Coverages(p).CoverageString
	want := "Roadside Assistance: Yes, 2020 Honda Civic (Collision: $500), Vehicle 2 (Collision: $1,000)"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestHomeDeductibleString(t *testing.T) {
	p := homePolicy(
		canopy.ParsedCoverage{Name: "Dwelling", PerIncidentLimitCents: cents(35000000), DeductibleCents: cents(100000)},
		canopy.ParsedCoverage{Name: "Wind/Hail", DeductibleCents: cents(250000)},
		canopy.ParsedCoverage{Name: "Personal Property", PerIncidentLimitCents: cents(17500000)},
	)
	set := Coverages(p)
	if set.DeductibleString != "Dwelling: $1,000, Wind/Hail: $2,500" {
		t.Fatalf("deductible string %q", set.DeductibleString)
	}
	if !strings.Contains(set.CoverageString, "Dwelling: $350,000") {
		t.Errorf("coverage string %q", set.CoverageString)
	}
}

func TestAutoPolicyHasNoDeductibleString(t *testing.T) {
	p := autoPolicy(canopy.ParsedCoverage{Name: "Collision", DeductibleCents: cents(50000)})
	if got := Coverages(p).DeductibleString; got != "" {
		t.Fatalf("deductible string %q, want empty", got)
	}
}

func TestMoneyFormatting(t *testing.T) {
	if got := Dollars(30000000); got != "$300,000" {
		t.Errorf("Dollars = %q", got)
	}
	if got := Dollars(50); got != "$1" {
		t.Errorf("Dollars rounds to nearest: %q", got)
	}
	if got := Currency(4350); got != "$43.50" {
		t.Errorf("Currency = %q", got)
	}
	if got := Currency(100000); got != "$1,000.00" {
		t.Errorf("Currency = %q", got)
	}
}
