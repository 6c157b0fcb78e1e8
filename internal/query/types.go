// Package query implements the structured query DSL: a validated AST
// compiled onto SQL over the entity store. Outputs use schema-level
// field names; storage columns never leak to callers.
package query

import "github.com/jarosser06/mosaic/internal/store"

// Op is a filter operator.
type Op string

const (
	OpEq         Op = "eq"
	OpNe         Op = "ne"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpIn         Op = "in"
	OpNotIn      Op = "not_in"
	OpContains   Op = "contains"
	OpStartsWith Op = "starts_with"
	OpEndsWith   Op = "ends_with"
	OpIsNull     Op = "is_null"
	OpIsNotNull  Op = "is_not_null"
	OpHasTag     Op = "has_tag"
	OpHasAnyTag  Op = "has_any_tag"
)

// AggFunc is an aggregation function.
type AggFunc string

const (
	AggCount         AggFunc = "count"
	AggSum           AggFunc = "sum"
	AggAvg           AggFunc = "avg"
	AggMin           AggFunc = "min"
	AggMax           AggFunc = "max"
	AggCountDistinct AggFunc = "count_distinct"
)

// FilterClause is one predicate over a (possibly dotted) field path.
type FilterClause struct {
	Field    string `json:"field"`
	Operator Op     `json:"operator"`
	Value    any    `json:"value"`
}

// Aggregation describes an optional aggregate projection.
type Aggregation struct {
	Function AggFunc  `json:"function"`
	Field    string   `json:"field,omitempty"`
	GroupBy  []string `json:"group_by,omitempty"`
}

// OrderBy is one sort key.
type OrderBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// Query is the AST root. Filters are AND-joined.
type Query struct {
	EntityType  store.EntityType `json:"entity_type"`
	Filters     []FilterClause   `json:"filters,omitempty"`
	Aggregation *Aggregation     `json:"aggregation,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	Offset      int              `json:"offset,omitempty"`
	OrderBy     []OrderBy        `json:"order_by,omitempty"`
}

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// EntityResult is the shape of a plain entity query.
type EntityResult struct {
	EntityType store.EntityType `json:"entity_type"`
	Results    []any            `json:"results"`
	TotalCount int              `json:"total_count"`
}

// ScalarAggregate is the shape of an ungrouped aggregation.
type ScalarAggregate struct {
	EntityType  store.EntityType `json:"entity_type"`
	Aggregation ScalarValue      `json:"aggregation"`
}

// ScalarValue carries a single aggregate value.
type ScalarValue struct {
	Function AggFunc `json:"function"`
	Field    string  `json:"field,omitempty"`
	Result   any     `json:"result"`
}

// GroupedAggregate is the shape of a grouped aggregation.
type GroupedAggregate struct {
	EntityType  store.EntityType `json:"entity_type"`
	Aggregation GroupedValue     `json:"aggregation"`
	TotalGroups int              `json:"total_groups"`
}

// GroupedValue carries per-group aggregate values, ordered ascending by
// group tuple.
type GroupedValue struct {
	Function AggFunc `json:"function"`
	Field    string  `json:"field,omitempty"`
	Groups   []Group `json:"groups"`
}

// Group is one distinct group tuple and its aggregate.
type Group struct {
	GroupValues []any `json:"group_values"`
	Result      any   `json:"result"`
}
