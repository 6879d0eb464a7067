// Package canopy normalizes insurance-account payloads pulled from the
// Canopy account-connection service. The same pull can arrive in one of
// several shapes depending on which integration relayed it: a structured
// policies array, a policy0/policy1-keyed object nested under a wrapper, or
// parallel-array fields flattened by a no-code automation layer. All of them
// normalize into the same ParsedCanopyData model.
package canopy

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
)

// payloadShape is the dispatcher's classification of one raw payload.
type payloadShape int

const (
	shapeUnknown payloadShape = iota
	shapePolicyArray
	shapeNestedKeyed
	shapeTopLevelKeyed
	shapeFlattened
)

// nestedContainerKeys are wrapper fields that may hold a policy0-keyed
// policies object, checked in order.
var nestedContainerKeys = []string{"pull_data", "data", "result"}

var rePolicyKey = regexp.MustCompile(`^policy(\d+)$`)

// Normalize decodes a raw pull payload and dispatches it to the parser for
// its shape. The only error is undecodable JSON; shape trouble degrades to
// an empty policies slice so the caller decides what empty means.
func Normalize(raw []byte) (ParsedCanopyData, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ParsedCanopyData{Policies: []ParsedPolicy{}, Metadata: map[string]any{}},
			fmt.Errorf("canopy: decode payload: %w", err)
	}
	return NormalizeMap(payload), nil
}

// NormalizeMap normalizes an already-decoded payload.
func NormalizeMap(payload map[string]any) ParsedCanopyData {
	out := ParsedCanopyData{
		Policies: []ParsedPolicy{},
		Metadata: map[string]any{},
	}
	if payload == nil {
		return out
	}
	collectMetadata(payload, out.Metadata)

	switch detectShape(payload) {
	case shapePolicyArray:
		arr, _ := payload["policies"].([]any)
		out.Policies = parsePolicyArray(arr)
	case shapeNestedKeyed:
		container, _ := findNestedContainer(payload)
		keyed, _ := container["policies"].(map[string]any)
		out.Policies = parseKeyedPolicies(keyed)
		if md, ok := container["meta_data"].(map[string]any); ok {
			mergeMetadata(md, out.Metadata)
		}
	case shapeTopLevelKeyed:
		keyed, _ := payload["policies"].(map[string]any)
		out.Policies = parseKeyedPolicies(keyed)
	}

	// Anything that yielded no policies falls back to the flattened parser.
	if len(out.Policies) == 0 {
		out.Policies = ParseFlattened(payload)
	}
	return out
}

// detectShape evaluates the structural predicates once, in strict priority
// order, instead of scattering type checks through the parsers.
func detectShape(payload map[string]any) payloadShape {
	if arr, ok := payload["policies"].([]any); ok && len(arr) > 0 {
		return shapePolicyArray
	}
	if container, ok := findNestedContainer(payload); ok {
		if keyed, ok := container["policies"].(map[string]any); ok && hasPolicyKeys(keyed) {
			return shapeNestedKeyed
		}
	}
	if keyed, ok := payload["policies"].(map[string]any); ok && hasPolicyKeys(keyed) {
		return shapeTopLevelKeyed
	}
	return shapeFlattened
}

func findNestedContainer(payload map[string]any) (map[string]any, bool) {
	for _, key := range nestedContainerKeys {
		container, ok := payload[key].(map[string]any)
		if !ok {
			continue
		}
		if keyed, ok := container["policies"].(map[string]any); ok && hasPolicyKeys(keyed) {
			return container, true
		}
	}
	return nil, false
}

func hasPolicyKeys(m map[string]any) bool {
	for k := range m {
		if rePolicyKey.MatchString(k) {
			return true
		}
	}
	return false
}

func parsePolicyArray(arr []any) []ParsedPolicy {
	policies := []ParsedPolicy{}
	for _, entry := range arr {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if p, ok := ParsePolicy(m, len(policies)); ok {
			policies = append(policies, p)
		}
	}
	return policies
}

// parseKeyedPolicies handles the policy0/policy1 object shape, sorted by the
// numeric suffix ascending.
func parseKeyedPolicies(keyed map[string]any) []ParsedPolicy {
	type numbered struct {
		n   int
		key string
	}
	var keys []numbered
	for k := range keyed {
		m := rePolicyKey.FindStringSubmatch(k)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		keys = append(keys, numbered{n: n, key: k})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].n < keys[j].n })

	policies := []ParsedPolicy{}
	for _, nk := range keys {
		m, ok := keyed[nk.key].(map[string]any)
		if !ok {
			continue
		}
		if p, ok := ParsePolicy(m, len(policies)); ok {
			policies = append(policies, p)
		}
	}
	return policies
}
