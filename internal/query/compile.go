package query

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// compiler turns resolved paths and clauses into SQL fragments. Joins
// are deduplicated by alias so a path shared between filters, ordering,
// and grouping is introduced once.
type compiler struct {
	base entityDef

	joins    []string
	joinSeen map[string]bool
	now      time.Time
	loc      *time.Location
	week     timeutil.WeekBoundary
}

func newCompiler(base entityDef, now time.Time, loc *time.Location, week timeutil.WeekBoundary) *compiler {
	return &compiler{base: base, joinSeen: map[string]bool{}, now: now, loc: loc, week: week}
}

// column returns the qualified column for a non-collection path,
// registering LEFT JOINs for its relationship steps.
func (c *compiler) column(p resolvedPath) string {
	alias := c.base.table
	var prefix []string
	for _, s := range p.steps {
		prefix = append(prefix, s.name)
		next := strings.Join(prefix, "_")
		if !c.joinSeen[next] {
			c.joinSeen[next] = true
			c.joins = append(c.joins, fmt.Sprintf(
				"%s AS %s ON %s.%s = %s.id", s.def.table, next, alias, s.edge.fkColumn, next))
		}
		alias = next
	}
	return alias + "." + p.leaf.column
}

// clause compiles one validated filter clause into a Sqlizer.
func (c *compiler) clause(p resolvedPath, f FilterClause) (sq.Sqlizer, error) {
	if !p.hasCollection() {
		return c.leafPredicate(c.column(p), p.leaf, f)
	}
	return c.existsPredicate(p, f)
}

// existsPredicate compiles a collection path (meeting attendees) into a
// correlated EXISTS so matches never multiply base rows.
func (c *compiler) existsPredicate(p resolvedPath, f FilterClause) (sq.Sqlizer, error) {
	// Locate the collection step; everything after it joins inside the
	// subquery.
	idx := 0
	for i, s := range p.steps {
		if s.edge.collection {
			idx = i
			break
		}
	}
	col := p.steps[idx]
	if idx != 0 {
		// No current path nests a collection under single-valued
		// steps; the graph would need outer joins ahead of the child
		// table to support one.
		return nil, apperr.Newf(apperr.InvalidArgument, "invalid path %q: unsupported collection nesting", p.raw)
	}

	childAlias := "sub_" + col.name
	inner := sq.Select("1").From(col.def.table + " AS " + childAlias).
		Where(fmt.Sprintf("%s.%s = %s.id", childAlias, col.edge.childKey, c.base.table))

	alias := childAlias
	for _, s := range p.steps[idx+1:] {
		next := alias + "_" + s.name
		inner = inner.LeftJoin(fmt.Sprintf("%s AS %s ON %s.%s = %s.id",
			s.def.table, next, alias, s.edge.fkColumn, next))
		alias = next
	}

	pred, err := c.leafPredicate(alias+"."+p.leaf.column, p.leaf, f)
	if err != nil {
		return nil, err
	}
	innerSQL, innerArgs, err := inner.Where(pred).ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "compile exists subquery", err)
	}
	return sq.Expr("EXISTS ("+innerSQL+")", innerArgs...), nil
}

// leafPredicate compiles an operator against one qualified column.
func (c *compiler) leafPredicate(col string, leaf field, f FilterClause) (sq.Sqlizer, error) {
	cmp := col
	if leaf.kind == kindDecimal {
		cmp = fmt.Sprintf("CAST(%s AS REAL)", col)
	}

	switch f.Operator {
	case OpEq:
		v, err := c.literal(leaf, f.Value, f.Field)
		if err != nil {
			return nil, err
		}
		return sq.Eq{cmp: v}, nil
	case OpNe:
		v, err := c.literal(leaf, f.Value, f.Field)
		if err != nil {
			return nil, err
		}
		return sq.NotEq{cmp: v}, nil
	case OpGt, OpGte, OpLt, OpLte:
		v, err := c.literal(leaf, f.Value, f.Field)
		if err != nil {
			return nil, err
		}
		switch f.Operator {
		case OpGt:
			return sq.Gt{cmp: v}, nil
		case OpGte:
			return sq.GtOrEq{cmp: v}, nil
		case OpLt:
			return sq.Lt{cmp: v}, nil
		default:
			return sq.LtOrEq{cmp: v}, nil
		}
	case OpIn, OpNotIn:
		list := f.Value.([]any)
		vals := make([]any, 0, len(list))
		for _, raw := range list {
			v, err := c.literal(leaf, raw, f.Field)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		if f.Operator == OpIn {
			return sq.Eq{cmp: vals}, nil
		}
		return sq.NotEq{cmp: vals}, nil
	case OpContains:
		return likeExpr(col, "%"+escapeLike(f.Value.(string))+"%"), nil
	case OpStartsWith:
		return likeExpr(col, escapeLike(f.Value.(string))+"%"), nil
	case OpEndsWith:
		return likeExpr(col, "%"+escapeLike(f.Value.(string))), nil
	case OpIsNull:
		return sq.Eq{col: nil}, nil
	case OpIsNotNull:
		return sq.NotEq{col: nil}, nil
	case OpHasTag:
		return sq.Expr(
			fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", col),
			f.Value.(string)), nil
	case OpHasAnyTag:
		list := f.Value.([]any)
		marks := strings.TrimSuffix(strings.Repeat("?,", len(list)), ",")
		return sq.Expr(
			fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value IN (%s))", col, marks),
			list...), nil
	}
	return nil, apperr.Newf(apperr.InvalidArgument, "invalid operator %q", f.Operator)
}

// literal normalizes one comparison value for storage: time shortcuts
// and offset datetimes become stored forms, booleans become 0/1.
func (c *compiler) literal(leaf field, v any, fieldName string) (any, error) {
	switch leaf.kind {
	case kindDate, kindDatetime:
		s, ok := v.(string)
		if !ok {
			return nil, apperr.Newf(apperr.InvalidArgument,
				"invalid value for %q: want a date or datetime string", fieldName)
		}
		if t, ok := timeutil.ResolveShortcut(s, c.now, c.loc, c.week); ok {
			if leaf.kind == kindDate {
				return t.In(c.loc).Format(timeutil.DateLayout), nil
			}
			return t.UTC().Format(time.RFC3339), nil
		}
		if leaf.kind == kindDate {
			if _, err := time.Parse(timeutil.DateLayout, s); err != nil {
				return nil, apperr.Newf(apperr.InvalidArgument,
					"invalid value %q for %q: want YYYY-MM-DD or a time shortcut", s, fieldName)
			}
			return s, nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, apperr.Newf(apperr.InvalidArgument,
				"invalid value %q for %q: want RFC3339 or a time shortcut", s, fieldName)
		}
		return t.UTC().Format(time.RFC3339), nil
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, apperr.Newf(apperr.InvalidArgument,
				"invalid value for %q: want a boolean", fieldName)
		}
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return v, nil
}

// likeExpr builds a LIKE with an explicit escape character. SQLite
// LIKE is case-insensitive for ASCII, which matches the contract for
// string operators.
func likeExpr(col, pattern string) sq.Sqlizer {
	return sq.Expr(col+` LIKE ? ESCAPE '\'`, pattern)
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}
