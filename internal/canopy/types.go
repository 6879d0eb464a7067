package canopy

import (
	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

// ParsedCoverage is one normalized coverage line item. Monetary fields are
// integer cents; a nil pointer means the value was absent upstream, which is
// distinct from an explicit zero.
type ParsedCoverage struct {
	Name                  string `json:"name"`
	FriendlyName          string `json:"friendly_name,omitempty"`
	PerIncidentLimitCents *int64 `json:"per_incident_limit_cents,omitempty"`
	PerPersonLimitCents   *int64 `json:"per_person_limit_cents,omitempty"`
	DeductibleCents       *int64 `json:"deductible_cents,omitempty"`
	IsDeclined            bool   `json:"is_declined"`
	VehicleIndex          *int   `json:"vehicle_index,omitempty"`
	SourceIndex           int    `json:"source_index"`
}

// DisplayName prefers the human label when the carrier supplied one.
func (c ParsedCoverage) DisplayName() string {
	if c.FriendlyName != "" {
		return c.FriendlyName
	}
	return c.Name
}

// ParsedVehicle is one vehicle on an auto policy. Index is stable and matches
// the VehicleIndex carried by that vehicle's coverages.
type ParsedVehicle struct {
	Index       int    `json:"index"`
	Year        string `json:"year,omitempty"`
	Make        string `json:"make,omitempty"`
	Model       string `json:"model,omitempty"`
	VIN         string `json:"vin,omitempty"`
	VehicleType string `json:"vehicle_type,omitempty"`
	Uses        string `json:"uses,omitempty"`
}

// ParsedPolicy is the canonical policy model every payload shape normalizes
// into. Type is always set; SourceIndex preserves input order.
type ParsedPolicy struct {
	Type            constants.PolicyType `json:"type"`
	SourceIndex     int                  `json:"source_index"`
	Carrier         string               `json:"carrier,omitempty"`
	PolicyNumber    string               `json:"policy_number,omitempty"`
	Status          string               `json:"status,omitempty"`
	EffectiveDate   string               `json:"effective_date,omitempty"`
	ExpirationDate  string               `json:"expiration_date,omitempty"`
	RenewalDate     string               `json:"renewal_date,omitempty"`
	PremiumCents    *int64               `json:"premium_cents,omitempty"`
	AmountDueCents  *int64               `json:"amount_due_cents,omitempty"`
	AmountPaidCents *int64               `json:"amount_paid_cents,omitempty"`
	PaidInFull      *bool                `json:"paid_in_full,omitempty"`
	VehicleCount    int                  `json:"vehicle_count"`
	Coverages       []ParsedCoverage     `json:"coverages"`
	Vehicles        []ParsedVehicle      `json:"vehicles,omitempty"`
}

// ParsedCanopyData is the normalized result of one Canopy pull payload.
type ParsedCanopyData struct {
	Policies []ParsedPolicy `json:"policies"`
	Metadata map[string]any `json:"metadata"`
}
