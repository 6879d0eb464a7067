package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/CryptoTuck/policy-pilot-sub000/constants"
	"github.com/CryptoTuck/policy-pilot-sub000/db/ent/schema/utils"
)

type Policy struct{ ent.Schema }

func (Policy) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "policies"},
	}
}

func (Policy) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		// explicit FK
		field.UUID("account_id", uuid.UUID{}),
		field.String("policy_type").NotEmpty().
			Validate(utils.EnumValidator(constants.PolicyTypesAsStrings()...)),
		field.String("carrier").Optional(),
		field.String("policy_number").Optional(),
		field.String("status").Optional(),
		field.Int64("premium_cents").Optional().Nillable(),
		field.Int64("amount_due_cents").Optional().Nillable(),
		field.Int64("amount_paid_cents").Optional().Nillable(),
		field.Bool("paid_in_full").Optional().Nillable(),
		field.Int("vehicle_count").Default(1),
		field.String("effective_date").Optional(),
		field.String("expiration_date").Optional(),
		field.String("coverage_string").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.String("deductible_string").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.JSON("coverages", json.RawMessage{}).
			Optional(),
		field.JSON("vehicles", json.RawMessage{}).
			Optional(),
		field.Time("created_at").Default(time.Now),
	}
}

func (Policy) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("account", Account.Type).
			Ref("policies").
			Field("account_id").
			Unique().
			Required(),
	}
}

func (Policy) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("account_id", "policy_type"),
	}
}
