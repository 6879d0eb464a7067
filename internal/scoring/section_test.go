package scoring

import (
	"testing"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

func TestSectionTally(t *testing.T) {
	items := []ScoredCoverage{
		{Name: "Bodily Injury Liability", Score: 4},
		{Name: "Collision", Score: 3},
		{Name: "Roadside Assistance", Score: 5},       // bonus by classification
		{Name: "Property Damage", Score: 2, Bonus: true}, // bonus by flag
	}
	got := Section(items, constants.PolicyTypeAuto)
	if got.Score != 7 {
		t.Errorf("score = %v, want 7", got.Score)
	}
	if got.MaxScore != 10 {
		t.Errorf("max = %v, want 10", got.MaxScore)
	}
}

func TestSectionEmpty(t *testing.T) {
	got := Section(nil, constants.PolicyTypeHome)
	if got.Score != 0 || got.MaxScore != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestIsCoreCoverageAuto(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Bodily Injury Liability", true},
		{"BODILY_INJURY", true},
		{"Uninsured Motorist BI", true},
		{"Collision", true},
		{"Comprehensive", true},
		{"Roadside Assistance", false},
		{"Rental Reimbursement", false},
		{"Gap Coverage", false},
	}
	for _, tc := range cases {
		if got := IsCoreCoverage(tc.name, constants.PolicyTypeAuto); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsCoreCoverageHome(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Dwelling", true},
		{"DWELLING_COVERAGE", true},
		{"Other Structures", true},
		{"Loss of Use", true},
		{"Personal Liability", true},
		{"Medical Payments to Others", true},
		{"Wind/Hail Deductible", false},
		{"Identity Theft", false},
	}
	for _, tc := range cases {
		if got := IsCoreCoverage(tc.name, constants.PolicyTypeHome); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Bidirectional containment means a short generic name can match a longer
// whitelist fragment. Documented behavior, kept as-is.
func TestIsCoreCoverageBidirectional(t *testing.T) {
	if !IsCoreCoverage("Liability", constants.PolicyTypeHome) {
		// "liability" is contained in "personal liability"
		t.Error("short name contained in a fragment must classify core")
	}
}

func TestNormalizeCoverageName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"BODILY_INJURY", "bodily injury"},
		{"Wind / Hail  (2%)", "wind hail 2"},
		{"  Collision  ", "collision"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCoverageName(tc.in); got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}
