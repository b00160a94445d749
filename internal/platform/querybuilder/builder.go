// Package querybuilder assembles SQL statements with "?" placeholders.
// Callers rebind the result for their driver (sqlx.DB.Rebind) so the same
// statement serves postgres and sqlite.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"
)

type Condition interface {
	appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any) {
	_, _ = buf.WriteString(c.column)
	_, _ = buf.WriteString(" = ?")
	*args = append(*args, c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any) {
	if len(c.values) == 0 {
		_, _ = buf.WriteString("1=0")
		return
	}

	_, _ = buf.WriteString(c.column)
	_, _ = buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_ = buf.WriteByte('?')
		*args = append(*args, v)
	}
	_ = buf.WriteByte(')')
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(buf *bytebufferpool.ByteBuffer, _ *[]any) {
	_, _ = buf.WriteString(c.column)
	_, _ = buf.WriteString(" IS NULL")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds a raw expression; each "?" in expr consumes one of args.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *bytebufferpool.ByteBuffer, args *[]any) {
	_, _ = buf.WriteString(c.expr)
	*args = append(*args, c.args...)
}

// Int64s adapts an id slice for In.
func Int64s(values []int64) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, strings.TrimSpace(clause))
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("SELECT ")
	_, _ = buf.WriteString(strings.Join(b.columns, ", "))
	_, _ = buf.WriteString(" FROM ")
	_, _ = buf.WriteString(b.table)
	for _, join := range b.joins {
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(join)
	}

	args := make([]any, 0, len(b.where))
	appendWhereClause(buf, b.where, &args)
	appendListClause(buf, " GROUP BY ", b.groupBy)
	appendListClause(buf, " ORDER BY ", b.orderBy)
	if b.limit > 0 {
		_, _ = buf.WriteString(" LIMIT ")
		_, _ = buf.WriteString(strconv.Itoa(b.limit))
	}

	return buf.String(), args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends a trailing clause such as ON CONFLICT or RETURNING.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("INSERT INTO ")
	_, _ = buf.WriteString(b.table)
	_, _ = buf.WriteString(" (")
	_, _ = buf.WriteString(strings.Join(b.columns, ", "))
	_, _ = buf.WriteString(") VALUES ")

	args := make([]any, 0, len(b.rows)*len(b.columns))
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			_, _ = buf.WriteString(", ")
		}
		_ = buf.WriteByte('(')
		for colIdx, value := range row {
			if colIdx > 0 {
				_, _ = buf.WriteString(", ")
			}
			_ = buf.WriteByte('?')
			args = append(args, value)
		}
		_ = buf.WriteByte(')')
	}

	if b.suffix != "" {
		_ = buf.WriteByte(' ')
		_, _ = buf.WriteString(b.suffix)
	}

	return buf.String(), args, nil
}

type setClause struct {
	column string
	value  any
	expr   *exprCondition
}

type UpdateBuilder struct {
	table string
	sets  []setClause
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: &exprCondition{expr: expr, args: args}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("UPDATE ")
	_, _ = buf.WriteString(b.table)
	_, _ = buf.WriteString(" SET ")

	args := make([]any, 0, len(b.sets)+len(b.where))
	for i, s := range b.sets {
		if i > 0 {
			_, _ = buf.WriteString(", ")
		}
		_, _ = buf.WriteString(s.column)
		_, _ = buf.WriteString(" = ")
		if s.expr != nil {
			s.expr.appendSQL(buf, &args)
			continue
		}
		_ = buf.WriteByte('?')
		args = append(args, s.value)
	}

	appendWhereClause(buf, b.where, &args)

	return buf.String(), args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build a DELETE without conditions.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete conditions are required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("DELETE FROM ")
	_, _ = buf.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	appendWhereClause(buf, b.where, &args)

	return buf.String(), args, nil
}

func appendWhereClause(buf *bytebufferpool.ByteBuffer, conditions []Condition, args *[]any) {
	if len(conditions) == 0 {
		return
	}
	_, _ = buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			_, _ = buf.WriteString(" AND ")
		}
		c.appendSQL(buf, args)
	}
}

func appendListClause(buf *bytebufferpool.ByteBuffer, keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	_, _ = buf.WriteString(keyword)
	_, _ = buf.WriteString(strings.Join(parts, ", "))
}
