package db

import (
	"database/sql"
	"errors"
	"maps"
	"slices"
)

// Row is a single result row keyed by column name.
type Row map[string]any

// ResultSet is a buffered query result with random and sequential access.
type ResultSet struct {
	columns []string
	rows    []Row
	pos     int
}

// NewResultSet wraps already materialised rows.
func NewResultSet(columns []string, rows []Row) *ResultSet {
	return &ResultSet{columns: columns, rows: rows}
}

// RowCount returns the number of rows in the set.
func (r *ResultSet) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.rows)
}

// Columns returns the column names in select order.
func (r *ResultSet) Columns() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.columns)
}

// FetchAt returns the row at the absolute offset without moving the cursor.
func (r *ResultSet) FetchAt(offset int) (Row, bool) {
	if r == nil || offset < 0 || offset >= len(r.rows) {
		return nil, false
	}
	return maps.Clone(r.rows[offset]), true
}

// Fetch returns the next row and advances the cursor.
func (r *ResultSet) Fetch() (Row, bool) {
	row, ok := r.FetchAt(r.pos)
	if ok {
		r.pos++
	}
	return row, ok
}

// FetchAll returns every row not yet fetched and moves the cursor to the end.
func (r *ResultSet) FetchAll() []Row {
	if r == nil {
		return nil
	}
	out := make([]Row, 0, len(r.rows)-r.pos)
	for {
		row, ok := r.Fetch()
		if !ok {
			return out
		}
		out = append(out, row)
	}
}

// Rewind moves the cursor back to the first row.
func (r *ResultSet) Rewind() {
	if r != nil {
		r.pos = 0
	}
}

func scanRows(rows *sql.Rows) (*ResultSet, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	rs := &ResultSet{columns: cols}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		rs.rows = append(rs.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	return rs, nil
}
