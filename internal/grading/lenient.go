package grading

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// SanitizeGradePayload normalizes a model response that fails strict schema
// validation, so the overall document can still validate. We only touch
// recoverable offenders: out-of-range scores are clamped, junk grades and
// unknown keys are dropped. A response with no usable policies stays broken.
func SanitizeGradePayload(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	policies, ok := m["policies"].([]any)
	if !ok {
		// some models wrap the array in an extra object key
		for _, k := range []string{"result", "grades", "output"} {
			if inner, ok2 := m[k].([]any); ok2 {
				m["policies"] = inner
				policies = inner
				dropped = append(dropped, k+"->policies")
				break
			}
		}
	}

	cleaned := make([]any, 0, len(policies))
	for i, entry := range policies {
		pm, ok := entry.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("policies[%d](type)", i))
			continue
		}
		sanitizePolicyEntry(pm, i, &dropped)
		cleaned = append(cleaned, pm)
	}
	m["policies"] = cleaned

	// confidence outside 0..1 is dropped, not clamped; it is advisory only
	if v, ok := m["confidence"].(float64); ok && (v < 0 || v > 1) {
		delete(m, "confidence")
		dropped = append(dropped, "confidence(range)")
	}

	allowed := map[string]struct{}{"policies": {}, "confidence": {}}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, err
	}
	return out, dropped, nil
}

func sanitizePolicyEntry(pm map[string]any, idx int, dropped *[]string) {
	prefix := fmt.Sprintf("policies[%d].", idx)

	if v, ok := pm["policy_type"].(string); ok {
		pm["policy_type"] = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := pm["score"].(float64); ok {
		switch {
		case v < 0:
			pm["score"] = 0.0
			*dropped = append(*dropped, prefix+"score(clamped)")
		case v > 100:
			pm["score"] = 100.0
			*dropped = append(*dropped, prefix+"score(clamped)")
		}
	}
	if v, ok := pm["grade"].(string); ok {
		g := strings.ToUpper(strings.TrimSpace(v))
		// accept "B+" style noise by keeping the letter
		if len(g) > 1 {
			g = g[:1]
		}
		if g >= "A" && g <= "F" && g != "E" {
			pm["grade"] = g
		} else {
			delete(pm, "grade")
			*dropped = append(*dropped, prefix+"grade(junk)")
		}
	}
	if covs, ok := pm["coverages"].([]any); ok {
		kept := make([]any, 0, len(covs))
		for ci, c := range covs {
			cm, ok := c.(map[string]any)
			if !ok {
				*dropped = append(*dropped, fmt.Sprintf("%scoverages[%d](type)", prefix, ci))
				continue
			}
			name, _ := cm["name"].(string)
			if strings.TrimSpace(name) == "" {
				*dropped = append(*dropped, fmt.Sprintf("%scoverages[%d](unnamed)", prefix, ci))
				continue
			}
			if s, ok := cm["score"].(float64); ok {
				if s < 1 {
					cm["score"] = 1.0
				} else if s > 5 {
					cm["score"] = 5.0
				}
				if s < 1 || s > 5 {
					*dropped = append(*dropped, fmt.Sprintf("%scoverages[%d].score(clamped)", prefix, ci))
				}
			}
			kept = append(kept, cm)
		}
		pm["coverages"] = kept
	}
}
