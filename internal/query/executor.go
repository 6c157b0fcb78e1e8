package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
	"github.com/jarosser06/mosaic/internal/timeutil"
)

// Engine executes validated queries against the store's database.
type Engine struct {
	db   *sqlx.DB
	loc  *time.Location
	week timeutil.WeekBoundary

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewEngine builds an engine over the store, inheriting its timezone
// and week-boundary conventions for shortcut resolution.
func NewEngine(s *store.Store) *Engine {
	return &Engine{db: s.DB(), loc: s.Timezone(), week: s.WeekBoundary(), now: time.Now}
}

// Execute validates, compiles, and runs a query. The result is one of
// EntityResult, ScalarAggregate, or GroupedAggregate depending on the
// aggregation shape.
func (e *Engine) Execute(ctx context.Context, q Query, mode AccessMode) (any, error) {
	base, ok := queryableEntity(q.EntityType)
	if !ok {
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown entity type %q", q.EntityType)
	}
	if mode == "" {
		mode = AccessAll
	}
	if !mode.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown access mode %q", mode)
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, apperr.New(apperr.InvalidArgument, "limit and offset must be non-negative")
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}

	c := newCompiler(base, e.now(), e.loc, e.week)

	var preds []sq.Sqlizer
	for _, f := range q.Filters {
		p, err := validateClause(base, f)
		if err != nil {
			return nil, err
		}
		pred, err := c.clause(p, f)
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	if base.privacy {
		if p := mode.Predicate(base.table); p != nil {
			preds = append(preds, p)
		}
	}

	if q.Aggregation != nil {
		plan, err := validateAggregation(base, q.Aggregation)
		if err != nil {
			return nil, err
		}
		return e.runAggregation(ctx, c, q, plan, preds)
	}
	return e.runEntityQuery(ctx, c, q, preds)
}

// ─── Entity queries ──────────────────────────────────────────────────────────

func (e *Engine) runEntityQuery(ctx context.Context, c *compiler, q Query, preds []sq.Sqlizer) (*EntityResult, error) {
	base := c.base

	orderCols, err := e.orderColumns(c, q)
	if err != nil {
		return nil, err
	}

	sel := sq.Select(base.table + ".*").From(base.table)
	cnt := sq.Select("COUNT(*)").From(base.table)
	for _, j := range c.joins {
		sel = sel.LeftJoin(j)
		cnt = cnt.LeftJoin(j)
	}
	for _, p := range preds {
		sel = sel.Where(p)
		cnt = cnt.Where(p)
	}

	cntSQL, cntArgs, err := cnt.ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "compile count", err)
	}
	var total int
	if err := e.db.GetContext(ctx, &total, cntSQL, cntArgs...); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "count query", err)
	}

	sel = sel.OrderBy(orderCols...).Limit(uint64(q.Limit)).Offset(uint64(q.Offset))
	selSQL, selArgs, err := sel.ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "compile query", err)
	}

	results, err := e.scanEntities(ctx, q.EntityType, selSQL, selArgs)
	if err != nil {
		return nil, err
	}
	return &EntityResult{EntityType: q.EntityType, Results: results, TotalCount: total}, nil
}

// orderColumns resolves order_by paths, defaulting to newest-first.
func (e *Engine) orderColumns(c *compiler, q Query) ([]string, error) {
	if len(q.OrderBy) == 0 {
		return []string{c.base.table + ".created_at DESC"}, nil
	}
	out := make([]string, 0, len(q.OrderBy))
	for _, ob := range q.OrderBy {
		p, err := resolvePath(c.base, ob.Field)
		if err != nil {
			return nil, err
		}
		if p.hasCollection() {
			return nil, apperr.Newf(apperr.InvalidArgument,
				"invalid path %q: cannot order by a collection path", ob.Field)
		}
		dir := strings.ToUpper(ob.Direction)
		switch dir {
		case "":
			dir = "ASC"
		case "ASC", "DESC":
		default:
			return nil, apperr.Newf(apperr.InvalidArgument,
				"invalid order direction %q: want asc or desc", ob.Direction)
		}
		out = append(out, c.column(p)+" "+dir)
	}
	return out, nil
}

// scanEntities materializes rows into typed DTOs for the entity type.
func (e *Engine) scanEntities(ctx context.Context, et store.EntityType, sql string, args []any) ([]any, error) {
	wrap := func(err error) error { return apperr.Wrap(apperr.Internal, "run query", err) }
	out := []any{}

	switch et {
	case store.EntityWorkSession:
		var rows []store.WorkSession
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityMeeting:
		var rows []store.Meeting
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		if err := e.loadAttendees(ctx, rows); err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityPerson:
		var rows []store.Person
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityClient:
		var rows []store.Client
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityProject:
		var rows []store.Project
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityEmployer:
		var rows []store.Employer
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityNote:
		var rows []store.Note
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	case store.EntityReminder:
		var rows []store.Reminder
		if err := e.db.SelectContext(ctx, &rows, sql, args...); err != nil {
			return nil, wrap(err)
		}
		for i := range rows {
			out = append(out, &rows[i])
		}
	default:
		return nil, apperr.Newf(apperr.InvalidArgument, "unknown entity type %q", et)
	}
	return out, nil
}

// loadAttendees fills attendee ids for a page of meetings in one query.
func (e *Engine) loadAttendees(ctx context.Context, meetings []store.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}
	ids := make([]int64, len(meetings))
	byID := make(map[int64]*store.Meeting, len(meetings))
	for i := range meetings {
		ids[i] = meetings[i].ID
		meetings[i].AttendeeIDs = []int64{}
		byID[meetings[i].ID] = &meetings[i]
	}

	sql, args, err := sqlx.In(`
		SELECT meeting_id, person_id FROM meeting_attendees
		WHERE meeting_id IN (?) ORDER BY meeting_id, person_id`, ids)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "expand attendee query", err)
	}
	var links []struct {
		MeetingID int64 `db:"meeting_id"`
		PersonID  int64 `db:"person_id"`
	}
	if err := e.db.SelectContext(ctx, &links, sql, args...); err != nil {
		return apperr.Wrap(apperr.Internal, "load attendees", err)
	}
	for _, l := range links {
		m := byID[l.MeetingID]
		m.AttendeeIDs = append(m.AttendeeIDs, l.PersonID)
	}
	return nil
}

// ─── Aggregations ────────────────────────────────────────────────────────────

func (e *Engine) runAggregation(ctx context.Context, c *compiler, q Query, plan aggPlan, preds []sq.Sqlizer) (any, error) {
	agg := q.Aggregation

	expr, err := aggExpr(c, agg.Function, plan.field)
	if err != nil {
		return nil, err
	}

	groupCols := make([]string, 0, len(plan.groupBy))
	for _, g := range plan.groupBy {
		groupCols = append(groupCols, c.column(g))
	}

	cols := append(append([]string{}, groupCols...), expr+" AS agg_result")
	sel := sq.Select(cols...).From(c.base.table)
	for _, j := range c.joins {
		sel = sel.LeftJoin(j)
	}
	for _, p := range preds {
		sel = sel.Where(p)
	}

	if len(groupCols) == 0 {
		sql, args, err := sel.ToSql()
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "compile aggregation", err)
		}
		var result any
		if err := e.db.GetContext(ctx, &result, sql, args...); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "run aggregation", err)
		}
		return &ScalarAggregate{
			EntityType:  q.EntityType,
			Aggregation: ScalarValue{Function: agg.Function, Field: agg.Field, Result: normalizeScanned(result)},
		}, nil
	}

	sel = sel.GroupBy(groupCols...)
	// Grouped results order by the group tuple unless told otherwise.
	if len(q.OrderBy) == 0 {
		sel = sel.OrderBy(groupCols...)
	} else {
		orderCols, err := e.orderColumns(c, q)
		if err != nil {
			return nil, err
		}
		sel = sel.OrderBy(orderCols...)
	}

	sql, args, err := sel.ToSql()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "compile aggregation", err)
	}
	rows, err := e.db.QueryxContext(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "run aggregation", err)
	}
	defer rows.Close()

	groups := []Group{}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scan aggregation row", err)
		}
		g := Group{GroupValues: make([]any, len(vals)-1)}
		for i, v := range vals[:len(vals)-1] {
			g.GroupValues[i] = normalizeScanned(v)
		}
		g.Result = normalizeScanned(vals[len(vals)-1])
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "scan aggregation rows", err)
	}

	return &GroupedAggregate{
		EntityType:  q.EntityType,
		Aggregation: GroupedValue{Function: agg.Function, Field: agg.Field, Groups: groups},
		TotalGroups: len(groups),
	}, nil
}

// aggExpr renders the aggregate function over its (optional) field.
func aggExpr(c *compiler, fn AggFunc, p *resolvedPath) (string, error) {
	if p == nil {
		return "COUNT(*)", nil
	}
	col := c.column(*p)
	if p.leaf.kind == kindDecimal {
		col = fmt.Sprintf("CAST(%s AS REAL)", col)
	}
	switch fn {
	case AggCount:
		return fmt.Sprintf("COUNT(%s)", col), nil
	case AggSum:
		return fmt.Sprintf("SUM(%s)", col), nil
	case AggAvg:
		return fmt.Sprintf("AVG(%s)", col), nil
	case AggMin:
		return fmt.Sprintf("MIN(%s)", col), nil
	case AggMax:
		return fmt.Sprintf("MAX(%s)", col), nil
	case AggCountDistinct:
		return fmt.Sprintf("COUNT(DISTINCT %s)", col), nil
	}
	return "", apperr.Newf(apperr.InvalidArgument, "invalid aggregation function %q", fn)
}

// normalizeScanned converts driver byte slices to strings for JSON
// output.
func normalizeScanned(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
