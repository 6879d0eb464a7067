package canopy

import (
	"strings"
)

// metadataKeys are the account-level fields worth surfacing alongside the
// parsed policies. The webhook relays these inconsistently, sometimes at the
// top level and sometimes inside one of several differently-cased containers.
var metadataKeys = []string{
	"first_name",
	"last_name",
	"email",
	"phone",
	"address",
	"city",
	"state",
	"zip",
	"pull_id",
	"account_id",
}

// metadataContainers lists where to look, in tie-break order. The empty
// string means the payload itself.
var metadataContainers = []string{"", "meta_data", "metaData", "metadata"}

// collectMetadata copies the first non-empty string value found per key,
// preserving container-search order. An already-found key is never
// overwritten.
func collectMetadata(payload map[string]any, out map[string]any) {
	for _, container := range metadataContainers {
		src := payload
		if container != "" {
			m, ok := payload[container].(map[string]any)
			if !ok {
				continue
			}
			src = m
		}
		for _, key := range metadataKeys {
			if _, done := out[key]; done {
				continue
			}
			if s, ok := src[key].(string); ok {
				if t := strings.TrimSpace(s); t != "" {
					out[key] = t
				}
			}
		}
	}
}

// mergeMetadata folds a nested meta_data object into the mapping without
// overwriting values an earlier container already supplied.
func mergeMetadata(src map[string]any, out map[string]any) {
	for k, v := range src {
		if v == nil {
			continue
		}
		if _, done := out[k]; done {
			continue
		}
		out[k] = v
	}
}
