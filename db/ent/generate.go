// Command generate runs entc over the account/policy/score-report schemas.
// Generated output lands in gen/ent and is not committed.
package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

func main() {
	err := entc.Generate(
		"./db/ent/schema",
		&gen.Config{
			Target:  "gen/ent",
			Package: "github.com/CryptoTuck/policy-pilot-sub000/gen/ent",
			Schema:  "github.com/CryptoTuck/policy-pilot-sub000/db/ent/schema",
		},
	)
	if err != nil {
		log.Fatal(err)
	}
}
