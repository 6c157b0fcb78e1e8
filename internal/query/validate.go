package query

import (
	"strings"

	"github.com/jarosser06/mosaic/internal/apperr"
)

// step is one resolved segment of a relationship path.
type step struct {
	name string
	edge edge
	def  entityDef
}

// resolvedPath is a validated dotted path: zero or more relationship
// steps ending at a leaf field.
type resolvedPath struct {
	raw   string
	steps []step
	leaf  field
	// owner is the entity holding the leaf.
	owner entityDef
}

// hasCollection reports whether any step is collection-valued, which
// forces EXISTS compilation.
func (p resolvedPath) hasCollection() bool {
	for _, s := range p.steps {
		if s.edge.collection {
			return true
		}
	}
	return false
}

// resolvePath walks a dotted path from the base entity, rejecting
// unknown relationships and unknown leaf fields.
func resolvePath(base entityDef, raw string) (resolvedPath, error) {
	if raw == "" {
		return resolvedPath{}, apperr.New(apperr.InvalidArgument, "invalid field: empty path")
	}
	segments := strings.Split(raw, ".")
	cur := base
	var steps []step
	for _, seg := range segments[:len(segments)-1] {
		e, ok := cur.relations[seg]
		if !ok {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid path %q: %q is not a relationship", raw, seg)
		}
		next := graph[e.target]
		steps = append(steps, step{name: seg, edge: e, def: next})
		cur = next
	}
	leafName := segments[len(segments)-1]
	leaf, ok := cur.fields[leafName]
	if !ok {
		return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
			"invalid field %q: %q is not a field", raw, leafName)
	}
	return resolvedPath{raw: raw, steps: steps, leaf: leaf, owner: cur}, nil
}

// validateClause checks operator/field compatibility and value shape.
func validateClause(base entityDef, c FilterClause) (resolvedPath, error) {
	p, err := resolvePath(base, c.Field)
	if err != nil {
		return resolvedPath{}, err
	}

	switch c.Operator {
	case OpEq, OpNe:
		if !p.leaf.kind.scalar() {
			return resolvedPath{}, opMismatch(c)
		}
		if err := requireScalarValue(c); err != nil {
			return resolvedPath{}, err
		}
	case OpGt, OpGte, OpLt, OpLte:
		if !p.leaf.kind.orderable() {
			return resolvedPath{}, opMismatch(c)
		}
		if err := requireScalarValue(c); err != nil {
			return resolvedPath{}, err
		}
	case OpIn, OpNotIn:
		if !p.leaf.kind.scalar() {
			return resolvedPath{}, opMismatch(c)
		}
		if _, ok := c.Value.([]any); !ok {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid value for %s on %q: want a list", c.Operator, c.Field)
		}
	case OpContains, OpStartsWith, OpEndsWith:
		if p.leaf.kind != kindString {
			return resolvedPath{}, opMismatch(c)
		}
		if _, ok := c.Value.(string); !ok {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid value for %s on %q: want a string", c.Operator, c.Field)
		}
	case OpIsNull, OpIsNotNull:
		if c.Value != nil {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid value for %s on %q: must be null", c.Operator, c.Field)
		}
	case OpHasTag:
		if p.leaf.kind != kindTags {
			return resolvedPath{}, opMismatch(c)
		}
		if _, ok := c.Value.(string); !ok {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid value for has_tag on %q: want a string", c.Field)
		}
	case OpHasAnyTag:
		if p.leaf.kind != kindTags {
			return resolvedPath{}, opMismatch(c)
		}
		list, ok := c.Value.([]any)
		if !ok || len(list) == 0 {
			return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
				"invalid value for has_any_tag on %q: want a non-empty list", c.Field)
		}
	default:
		return resolvedPath{}, apperr.Newf(apperr.InvalidArgument,
			"invalid operator %q", c.Operator)
	}
	return p, nil
}

func opMismatch(c FilterClause) error {
	return apperr.Newf(apperr.InvalidArgument,
		"invalid operator %s for field %q", c.Operator, c.Field)
}

func requireScalarValue(c FilterClause) error {
	switch c.Value.(type) {
	case []any, map[string]any:
		return apperr.Newf(apperr.InvalidArgument,
			"invalid value for %s on %q: want a scalar", c.Operator, c.Field)
	case nil:
		return apperr.Newf(apperr.InvalidArgument,
			"invalid value for %s on %q: use is_null for null tests", c.Operator, c.Field)
	}
	return nil
}

// validateAggregation checks the function, its field requirement, and
// group_by paths.
func validateAggregation(base entityDef, a *Aggregation) (aggPlan, error) {
	var plan aggPlan
	switch a.Function {
	case AggCount:
		if a.Field != "" {
			p, err := resolvePath(base, a.Field)
			if err != nil {
				return plan, err
			}
			plan.field = &p
		}
	case AggSum, AggAvg:
		if a.Field == "" {
			return plan, apperr.Newf(apperr.InvalidArgument,
				"invalid aggregation: %s requires a numeric field", a.Function)
		}
		p, err := resolvePath(base, a.Field)
		if err != nil {
			return plan, err
		}
		if p.leaf.kind != kindNumber && p.leaf.kind != kindDecimal {
			return plan, apperr.Newf(apperr.InvalidArgument,
				"invalid aggregation: %s requires a numeric field, %q is not", a.Function, a.Field)
		}
		plan.field = &p
	case AggMin, AggMax, AggCountDistinct:
		if a.Field == "" {
			return plan, apperr.Newf(apperr.InvalidArgument,
				"invalid aggregation: %s requires a field", a.Function)
		}
		p, err := resolvePath(base, a.Field)
		if err != nil {
			return plan, err
		}
		if !p.leaf.kind.scalar() {
			return plan, apperr.Newf(apperr.InvalidArgument,
				"invalid aggregation: %s cannot apply to %q", a.Function, a.Field)
		}
		plan.field = &p
	default:
		return plan, apperr.Newf(apperr.InvalidArgument,
			"invalid aggregation function %q", a.Function)
	}

	for _, g := range a.GroupBy {
		p, err := resolvePath(base, g)
		if err != nil {
			return plan, err
		}
		if p.hasCollection() {
			return plan, apperr.Newf(apperr.InvalidArgument,
				"invalid aggregation: cannot group by collection path %q", g)
		}
		plan.groupBy = append(plan.groupBy, p)
	}
	return plan, nil
}

// aggPlan is a validated aggregation: resolved field and group paths.
type aggPlan struct {
	field   *resolvedPath
	groupBy []resolvedPath
}
