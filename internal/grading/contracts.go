package grading

import "context"

// PolicySummary is one policy's formatted coverage summary, the only view of
// a policy the grading model sees.
type PolicySummary struct {
	PolicyType       string `json:"policy_type"`
	Carrier          string `json:"carrier,omitempty"`
	CoverageString   string `json:"coverage_string"`
	DeductibleString string `json:"deductible_string,omitempty"`
}

// GradeRequest carries everything needed to grade one account's policies.
type GradeRequest struct {
	AccountID string
	Policies  []PolicySummary

	// State sharpens the model's judgment about required minimums; optional.
	State string
}

// CoverageGrade is the model's score for one coverage line item (1..5).
type CoverageGrade struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

// PolicyGrade is the per-policy-type grading result. Score is 0..100;
// either Score or Grade may be absent, never both for a valid response.
type PolicyGrade struct {
	PolicyType string          `json:"policy_type"`
	Score      *float64        `json:"score,omitempty"`
	Grade      string          `json:"grade,omitempty"`
	Coverages  []CoverageGrade `json:"coverages,omitempty"`
}

// GradeResult is the full response for one account.
type GradeResult struct {
	Policies        []PolicyGrade `json:"policies"`
	ModelConfidence float32       `json:"confidence,omitempty"`
}

// Grader is the interface the pipeline depends on.
type Grader interface {
	GradePolicies(ctx context.Context, req GradeRequest) (GradeResult, []byte /*rawJSON*/, error)
}
