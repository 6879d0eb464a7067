// Command normalize reads one Canopy pull payload from a JSON file and prints
// the canonical policies with their formatted coverage strings. Useful for
// eyeballing how a new carrier's payload shape normalizes without a database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/CryptoTuck/policy-pilot-sub000/internal/canopy"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/format"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "normalize <payload.json>")
		os.Exit(2)
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read payload", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	parsed, err := canopy.Normalize(raw)
	if err != nil {
		logger.Error("normalize payload", "error", err)
		os.Exit(1)
	}

	if len(parsed.Metadata) > 0 {
		fmt.Println("metadata:")
		for _, key := range []string{"first_name", "last_name", "email", "account_id", "pull_id"} {
			if v, ok := parsed.Metadata[key].(string); ok && v != "" {
				fmt.Printf("  %s: %s\n", key, v)
			}
		}
	}

	for i, pol := range parsed.Policies {
		set := format.Coverages(pol)
		fmt.Printf("policy %d (%s)\n", i+1, pol.Type)
		if pol.Carrier != "" {
			fmt.Printf("  carrier: %s\n", pol.Carrier)
		}
		if pol.PolicyNumber != "" {
			fmt.Printf("  number: %s\n", pol.PolicyNumber)
		}
		if pol.PremiumCents != nil {
			fmt.Printf("  premium: %s\n", format.Currency(*pol.PremiumCents))
		}
		fmt.Printf("  coverages: %s\n", set.CoverageString)
		if set.DeductibleString != "" {
			fmt.Printf("  deductibles: %s\n", set.DeductibleString)
		}
	}
	if len(parsed.Policies) == 0 {
		fmt.Println("no recognizable policies")
	}
}
