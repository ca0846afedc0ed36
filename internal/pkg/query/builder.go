// Package query builds parameterised Spanner SELECT statements.
package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

type ordering struct {
	column    string
	direction Direction
}

// Builder is an immutable SELECT builder. Every method returns a copy, so a
// base builder can be shared between statements. Condition parameters are
// named @p0, @p1, ... in the order the conditions were added.
type Builder struct {
	table   string
	columns []string
	where   []Condition
	orders  []ordering
	limit   int64
}

// From starts a statement against table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns; with none the statement selects *.
func (b *Builder) Select(columns ...string) *Builder {
	next := b.clone()
	next.columns = append(next.columns, columns...)
	return next
}

// Where adds a condition, combined with the others by AND.
func (b *Builder) Where(condition Condition) *Builder {
	next := b.clone()
	next.where = append(next.where, condition)
	return next
}

// WhereIf adds condition only when ok, for optional filters.
func (b *Builder) WhereIf(ok bool, condition Condition) *Builder {
	if !ok {
		return b
	}
	return b.Where(condition)
}

// OrderBy appends a sort key. Repeated calls build a composite order, which
// keeps listings deterministic when the first key ties.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	next := b.clone()
	next.orders = append(next.orders, ordering{column: column, direction: direction})
	return next
}

// Limit caps the number of rows. Zero means no limit.
func (b *Builder) Limit(limit int64) *Builder {
	next := b.clone()
	next.limit = limit
	return next
}

// Build renders the statement.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.columns) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.columns, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.where) > 0 {
		parts := make([]string, 0, len(b.where))
		index := 0
		for _, condition := range b.where {
			fragment, condParams := condition.SQL(index)
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			index += len(condParams)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.orders) > 0 {
		keys := make([]string, 0, len(b.orders))
		for _, o := range b.orders {
			keys = append(keys, o.column+" "+o.direction.String())
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(keys, ", "))
	}

	if b.limit > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limit
	}

	return spanner.Statement{SQL: sql.String(), Params: params}
}

func (b *Builder) clone() *Builder {
	return &Builder{
		table:   b.table,
		columns: append([]string(nil), b.columns...),
		where:   append([]Condition(nil), b.where...),
		orders:  append([]ordering(nil), b.orders...),
		limit:   b.limit,
	}
}

// String renders the statement for debugging.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s\nParams: %v", stmt.SQL, stmt.Params)
}
