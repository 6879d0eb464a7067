package scoring

import (
	"strings"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

// MaxCoverageScore is the fixed per-coverage maximum the grader scores
// against.
const MaxCoverageScore = 5

// ScoredCoverage is one graded coverage line item within a policy section.
// Bonus items are informational and never counted.
type ScoredCoverage struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Bonus bool    `json:"bonus,omitempty"`
}

// SectionResult is the tally for one policy's display section.
type SectionResult struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
}

// Core-coverage whitelists per policy-type family. A coverage whose
// normalized name matches a fragment (substring containment in either
// direction) counts toward the section score; everything else is bonus.
var (
	homeCoreCoverages = []string{
		"dwelling",
		"other structures",
		"personal property",
		"loss of use",
		"personal liability",
		"medical payments",
	}
	autoCoreCoverages = []string{
		"bodily injury",
		"property damage",
		"uninsured motorist",
		"underinsured motorist",
		"collision",
		"comprehensive",
		"medical payments",
		"personal injury protection",
	}
)

// Section sums the core items' scores and maxima for one policy section.
// Items flagged bonus, and items whose names miss the whitelist, contribute
// to neither total.
func Section(items []ScoredCoverage, t constants.PolicyType) SectionResult {
	var res SectionResult
	for _, item := range items {
		if item.Bonus || !IsCoreCoverage(item.Name, t) {
			continue
		}
		res.Score += item.Score
		res.MaxScore += MaxCoverageScore
	}
	return res
}

// IsCoreCoverage tests a display name against the policy type's whitelist.
// Matching is bidirectional substring containment over normalized names,
// which can false-positive on very short names; that looseness is load
// bearing for carrier name variants and is covered by tests.
func IsCoreCoverage(name string, t constants.PolicyType) bool {
	n := NormalizeCoverageName(name)
	if n == "" {
		return false
	}
	fragments := homeCoreCoverages
	if t == constants.PolicyTypeAuto {
		fragments = autoCoreCoverages
	}
	for _, f := range fragments {
		if strings.Contains(n, f) || strings.Contains(f, n) {
			return true
		}
	}
	return false
}

// NormalizeCoverageName lowercases and collapses every run of
// non-alphanumeric characters to a single space.
func NormalizeCoverageName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}
