package grading

import (
	"strings"
)

// BuildSystemPrompt composes the system message with the grading rubric and
// strict-but-practical formatting rules.
func BuildSystemPrompt(req GradeRequest) string {
	parts := []string{
		"You are an insurance coverage analyst. Return ONLY JSON that matches the provided JSON Schema.",
		"You receive one coverage summary per policy. Grade each policy's protection level.",
		"Score each listed coverage 1-5 (5 = strong protection for a typical household).",
		"Give each policy an overall 'score' from 0-100 and a letter 'grade' (A-F).",
		"Judge limits against common state minimums and typical replacement costs; a declined core coverage is a serious gap.",
		"Do not penalize optional add-ons (roadside, rental, identity theft) for being absent.",
		"Never output null. If a field is not known, omit it.",
	}
	if st := strings.TrimSpace(req.State); st != "" {
		parts = append(parts, "The insured is located in: "+st+". Prefer that state's minimums when judging liability limits.")
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the formatted coverage summaries, one block per
// policy.
func BuildUserPrompt(req GradeRequest) string {
	var b strings.Builder
	for i, p := range req.Policies {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Policy type: ")
		b.WriteString(p.PolicyType)
		if p.Carrier != "" {
			b.WriteString("\nCarrier: ")
			b.WriteString(p.Carrier)
		}
		b.WriteString("\nCoverages: ")
		if p.CoverageString != "" {
			b.WriteString(p.CoverageString)
		} else {
			b.WriteString("(none listed)")
		}
		if p.DeductibleString != "" {
			b.WriteString("\nDeductibles: ")
			b.WriteString(p.DeductibleString)
		}
	}
	return b.String()
}
