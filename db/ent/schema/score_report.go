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

type ScoreReport struct{ ent.Schema }

func (ScoreReport) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "score_reports"},
	}
}

func (ScoreReport) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		// explicit FK
		field.UUID("account_id", uuid.UUID{}),
		field.String("status").NotEmpty().
			Validate(utils.EnumValidator(constants.JobStatusesAsStrings()...)),
		field.Int("combined_score").Optional().Nillable(),
		field.String("combined_grade").Optional().Nillable(),
		field.Int("percentile").Optional().Nillable(),
		field.JSON("policy_scores", json.RawMessage{}).
			Optional(),
		field.JSON("raw_model_json", json.RawMessage{}).
			Optional(),
		field.String("failure_reason").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (ScoreReport) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("account", Account.Type).
			Ref("reports").
			Field("account_id").
			Unique().
			Required(),
	}
}

func (ScoreReport) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("account_id", "status", "created_at"),
	}
}
