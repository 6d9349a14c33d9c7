package db

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Bind maps column names to values.
// Keys are emitted in sorted order so generated SQL is deterministic.
type Bind map[string]any

// SelectOption customises a generated SELECT.
type SelectOption func(*selectOptions)

type selectOptions struct {
	orderBy  []string
	limit    int
	offset   int
	matchAny bool
}

// OrderBy sorts by the given columns. A column may carry an ASC or DESC
// suffix, e.g. "created_at DESC".
func OrderBy(columns ...string) SelectOption {
	return func(o *selectOptions) {
		o.orderBy = append(o.orderBy, columns...)
	}
}

// Limit caps the number of returned rows.
func Limit(n int) SelectOption {
	return func(o *selectOptions) {
		o.limit = n
	}
}

// Page returns count rows starting at offset.
func Page(offset, count int) SelectOption {
	return func(o *selectOptions) {
		o.offset = offset
		o.limit = count
	}
}

// MatchAny joins the where conditions with OR instead of AND.
func MatchAny() SelectOption {
	return func(o *selectOptions) {
		o.matchAny = true
	}
}

type placeholders struct {
	d    Dialect
	args []any
}

func (p *placeholders) add(v any) string {
	p.args = append(p.args, v)
	return p.d.Placeholder(len(p.args))
}

func sortedKeys(b Bind) []string {
	return slices.Sorted(maps.Keys(b))
}

func whereClause(p *placeholders, where Bind, glue string) string {
	if len(where) == 0 {
		return ""
	}
	conds := make([]string, 0, len(where))
	for _, k := range sortedKeys(where) {
		v := where[k]
		if v == nil {
			conds = append(conds, p.d.Quote(k)+" IS NULL")
			continue
		}
		conds = append(conds, p.d.Quote(k)+" = "+p.add(v))
	}
	return " WHERE " + strings.Join(conds, glue)
}

func buildSelect(d Dialect, table string, where Bind, opts ...SelectOption) (string, []any) {
	o := &selectOptions{}
	for _, opt := range opts {
		opt(o)
	}

	p := &placeholders{d: d}
	glue := " AND "
	if o.matchAny {
		glue = " OR "
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(d.Quote(table))
	sb.WriteString(whereClause(p, where, glue))

	if len(o.orderBy) > 0 {
		cols := make([]string, 0, len(o.orderBy))
		for _, c := range o.orderBy {
			f := strings.Fields(c)
			if len(f) == 0 {
				continue
			}
			col := d.Quote(f[0])
			if len(f) > 1 {
				if dir := strings.ToUpper(f[1]); dir == "ASC" || dir == "DESC" {
					col += " " + dir
				}
			}
			cols = append(cols, col)
		}
		if len(cols) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(strings.Join(cols, ", "))
		}
	}

	if o.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(o.limit))
	}
	if o.offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(o.offset))
	}

	return sb.String(), p.args
}

func buildInsert(d Dialect, table string, bind Bind, pk string) (string, []any) {
	p := &placeholders{d: d}
	keys := sortedKeys(bind)
	cols := make([]string, len(keys))
	vals := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = d.Quote(k)
		vals[i] = p.add(bind[k])
	}

	q := "INSERT INTO " + d.Quote(table) +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ")"
	if d.Returning() && pk != "" {
		q += " RETURNING " + d.Quote(pk)
	}
	return q, p.args
}

func buildUpdate(d Dialect, table string, set, where Bind) (string, []any) {
	p := &placeholders{d: d}
	keys := sortedKeys(set)
	assigns := make([]string, len(keys))
	for i, k := range keys {
		assigns[i] = d.Quote(k) + " = " + p.add(set[k])
	}

	q := "UPDATE " + d.Quote(table) + " SET " + strings.Join(assigns, ", ") + whereClause(p, where, " AND ")
	return q, p.args
}

func buildDelete(d Dialect, table string, where Bind) (string, []any) {
	p := &placeholders{d: d}
	q := "DELETE FROM " + d.Quote(table) + whereClause(p, where, " AND ")
	return q, p.args
}
