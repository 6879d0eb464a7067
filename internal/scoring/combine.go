// Package scoring combines the per-policy-type scores returned by the
// grading collaborator into one overall score/grade, and classifies coverage
// line items as core or bonus for section-level tallies.
package scoring

import (
	"math"
	"strings"
)

// TypeScore is one policy type's grading result: an explicit numeric score,
// a letter grade, or both. The numeric score wins when it is finite.
type TypeScore struct {
	Score *float64 `json:"score,omitempty"`
	Grade string   `json:"grade,omitempty"`
}

// CombinedScore is the single overall figure. Score is nil when no inputs
// were present, which callers must distinguish from a graded zero.
type CombinedScore struct {
	Score *int   `json:"score,omitempty"`
	Grade string `json:"grade,omitempty"`
}

// gradeValues maps a letter grade to its representative score.
var gradeValues = map[string]float64{
	"A": 95,
	"B": 85,
	"C": 75,
	"D": 65,
	"F": 45,
}

// Fixed weighting rules. Home carries slightly less weight than auto; in the
// auto+renters pairing the renters score dominates.
const (
	homeAutoHomeWeight       = 0.45
	homeAutoAutoWeight       = 0.55
	autoRentersRentersWeight = 0.70
	autoRentersAutoWeight    = 0.30
)

// Combine merges up to three per-type scores by the fixed weighting rules.
// Exactly one present uses it directly; home+auto and auto+renters use their
// dedicated weights; any other non-empty subset takes the arithmetic mean.
func Combine(home, auto, renters *TypeScore) CombinedScore {
	h := resolve(home)
	a := resolve(auto)
	r := resolve(renters)

	var combined *float64
	switch {
	case h != nil && a != nil && r == nil:
		v := *h*homeAutoHomeWeight + *a*homeAutoAutoWeight
		combined = &v
	case a != nil && r != nil && h == nil:
		v := *r*autoRentersRentersWeight + *a*autoRentersAutoWeight
		combined = &v
	default:
		combined = mean(h, a, r)
	}
	if combined == nil {
		return CombinedScore{}
	}
	score := int(math.Round(clamp(*combined, 0, 100)))
	return CombinedScore{Score: &score, Grade: GradeFor(float64(score))}
}

// resolve turns a TypeScore into a usable 0-100 value, preferring a finite
// numeric score and falling back to the letter grade. nil means unusable.
func resolve(ts *TypeScore) *float64 {
	if ts == nil {
		return nil
	}
	if ts.Score != nil && !math.IsNaN(*ts.Score) && !math.IsInf(*ts.Score, 0) {
		v := math.Round(clamp(*ts.Score, 0, 100))
		return &v
	}
	if g, ok := gradeValues[strings.ToUpper(strings.TrimSpace(ts.Grade))]; ok {
		return &g
	}
	return nil
}

// MergeHomeScores averages a home score and a condo score when both exist,
// producing the "home-like" input for Combine. Either alone passes through.
func MergeHomeScores(home, condo *float64) *float64 {
	switch {
	case home != nil && condo != nil:
		v := (*home + *condo) / 2
		return &v
	case home != nil:
		return home
	case condo != nil:
		return condo
	}
	return nil
}

// Average is the mean of the given scores, used to collapse multiple auto
// sub-policies into one auto score. nil for an empty slice.
func Average(scores []float64) *float64 {
	if len(scores) == 0 {
		return nil
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	v := sum / float64(len(scores))
	return &v
}

// GradeFor maps a 0-100 score to its letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	}
	return "F"
}

// Percentile estimates where a score ranks against a hypothetical population
// using a logistic curve centered at 50. Display framing only.
func Percentile(score float64) int {
	s := clamp(score, 0, 100)
	return int(math.Round(100 / (1 + math.Exp(-0.02*(s-50)))))
}

func mean(values ...*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
