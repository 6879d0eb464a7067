package canopy

import (
	"testing"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

func TestNormalizePolicyArray(t *testing.T) {
	raw := []byte(`{
		"policies": [
			{"policy_type": "homeowners", "carrier_name": "Acme Mutual"},
			{"policy_type": "auto", "vehicles": []},
			{"policy_type": "renters"}
		]
	}`)

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 3 {
		t.Fatalf("expected 3 policies, got %d", len(data.Policies))
	}
	for i, p := range data.Policies {
		if p.SourceIndex != i {
			t.Errorf("policy %d: source index %d", i, p.SourceIndex)
		}
	}
	want := []constants.PolicyType{
		constants.PolicyTypeHome,
		constants.PolicyTypeAuto,
		constants.PolicyTypeRenters,
	}
	for i, w := range want {
		if data.Policies[i].Type != w {
			t.Errorf("policy %d: type %q, want %q", i, data.Policies[i].Type, w)
		}
	}
	if data.Policies[0].Carrier != "Acme Mutual" {
		t.Errorf("carrier %q", data.Policies[0].Carrier)
	}
}

func TestNormalizeNestedKeyedObject(t *testing.T) {
	raw := []byte(`{
		"pull_data": {
			"policies": {
				"policy1": {"policy_type": "auto", "vehicles": [{}]},
				"policy0": {"policy_type": "home"}
			},
			"meta_data": {"pull_id": "abc-123", "source": "make"}
		}
	}`)

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(data.Policies))
	}
	// policy0 must sort before policy1 regardless of key order
	if data.Policies[0].Type != constants.PolicyTypeHome {
		t.Errorf("first policy type %q, want home", data.Policies[0].Type)
	}
	if data.Policies[1].Type != constants.PolicyTypeAuto {
		t.Errorf("second policy type %q, want auto", data.Policies[1].Type)
	}
	if data.Metadata["pull_id"] != "abc-123" {
		t.Errorf("metadata pull_id = %v", data.Metadata["pull_id"])
	}
	if data.Metadata["source"] != "make" {
		t.Errorf("metadata source = %v", data.Metadata["source"])
	}
}

func TestNormalizeTopLevelKeyedObject(t *testing.T) {
	raw := []byte(`{
		"policies": {
			"policy0": {"policy_type": "renters"},
			"policy2": {"policy_type": "auto"},
			"not_a_policy": {"policy_type": "home"}
		}
	}`)

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(data.Policies))
	}
	if data.Policies[0].Type != constants.PolicyTypeRenters || data.Policies[1].Type != constants.PolicyTypeAuto {
		t.Errorf("types %q, %q", data.Policies[0].Type, data.Policies[1].Type)
	}
	if data.Policies[1].SourceIndex != 1 {
		t.Errorf("source index %d, want 1", data.Policies[1].SourceIndex)
	}
}

func TestNormalizeArrayWinsOverKeyed(t *testing.T) {
	// priority order: a populated top-level array beats everything else
	raw := []byte(`{
		"policies": [{"policy_type": "auto", "vehicles": [{}]}],
		"pull_data": {"policies": {"policy0": {"policy_type": "home"}}}
	}`)

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 1 || data.Policies[0].Type != constants.PolicyTypeAuto {
		t.Fatalf("expected the array-shape auto policy, got %+v", data.Policies)
	}
}

func TestNormalizeUnknownShapeYieldsEmpty(t *testing.T) {
	data, err := Normalize([]byte(`{"hello": "world"}`))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if data.Policies == nil {
		t.Fatal("policies slice must be non-nil")
	}
	if len(data.Policies) != 0 {
		t.Fatalf("expected 0 policies, got %d", len(data.Policies))
	}
}

func TestNormalizeBadJSON(t *testing.T) {
	_, err := Normalize([]byte(`{`))
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNormalizeMetadataFirstWins(t *testing.T) {
	raw := []byte(`{
		"first_name": "Ada",
		"meta_data": {"first_name": "Grace", "email": "ada@example.com"},
		"metadata": {"email": "grace@example.com", "phone": "555-0101"}
	}`)

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if data.Metadata["first_name"] != "Ada" {
		t.Errorf("first_name = %v, top level must win", data.Metadata["first_name"])
	}
	if data.Metadata["email"] != "ada@example.com" {
		t.Errorf("email = %v, meta_data must win over metadata", data.Metadata["email"])
	}
	if data.Metadata["phone"] != "555-0101" {
		t.Errorf("phone = %v", data.Metadata["phone"])
	}
}

func TestNormalizeEndToEndAuto(t *testing.T) {
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

	data, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(data.Policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(data.Policies))
	}
	p := data.Policies[0]
	if p.Type != constants.PolicyTypeAuto {
		t.Fatalf("type %q", p.Type)
	}
	if len(p.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(p.Vehicles))
	}
	v := p.Vehicles[0]
	if v.Index != 0 || v.Year != "2020" || v.Make != "Honda" || v.Model != "Civic" {
		t.Errorf("vehicle = %+v", v)
	}
	if len(p.Coverages) != 1 {
		t.Fatalf("expected 1 coverage, got %d", len(p.Coverages))
	}
	c := p.Coverages[0]
	if c.Name != "BODILY_INJURY" {
		t.Errorf("name %q", c.Name)
	}
	if c.PerPersonLimitCents == nil || *c.PerPersonLimitCents != 10000000 {
		t.Errorf("per person = %v", c.PerPersonLimitCents)
	}
	if c.PerIncidentLimitCents == nil || *c.PerIncidentLimitCents != 30000000 {
		t.Errorf("per incident = %v", c.PerIncidentLimitCents)
	}
	if c.IsDeclined {
		t.Error("coverage must not be declined")
	}
	if c.VehicleIndex == nil || *c.VehicleIndex != 0 {
		t.Errorf("vehicle index = %v", c.VehicleIndex)
	}
}
