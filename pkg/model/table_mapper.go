package model

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/llama/pkg/db"
)

// TableOption configures a TableMapper.
type TableOption func(*TableMapper)

// WithPrimaryKey sets the primary key column. The default is "id".
func WithPrimaryKey(column string) TableOption {
	return func(m *TableMapper) {
		m.pk = column
	}
}

// TableMapper maps a single table through a db.Adapter.
type TableMapper struct {
	adapter *db.Adapter
	table   string
	pk      string
}

// NewTableMapper creates a mapper for table.
func NewTableMapper(adapter *db.Adapter, table string, opts ...TableOption) *TableMapper {
	m := &TableMapper{adapter: adapter, table: table, pk: "id"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Table returns the mapped table name.
func (m *TableMapper) Table() string { return m.table }

// PrimaryKey returns the primary key column.
func (m *TableMapper) PrimaryKey() string { return m.pk }

// FindAll selects every row.
func (m *TableMapper) FindAll(ctx context.Context, opts ...db.SelectOption) (Cursor, error) {
	return m.FindBy(ctx, nil, opts...)
}

// FindBy selects rows matching where.
func (m *TableMapper) FindBy(ctx context.Context, where db.Bind, opts ...db.SelectOption) (Cursor, error) {
	rs, err := m.adapter.Select(ctx, m.table, where, opts...)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// FindByID selects the row with the given primary key.
func (m *TableMapper) FindByID(ctx context.Context, id any) (Cursor, error) {
	return m.FindBy(ctx, db.Bind{m.pk: id}, db.Limit(1))
}

// LoadField reads one column of the model's row from the table.
func (m *TableMapper) LoadField(ctx context.Context, model Model, name string) (any, error) {
	if name == m.pk {
		return nil, ErrNoPrimaryKey
	}
	id := model.Field(m.pk)
	if id == nil {
		return nil, ErrNoPrimaryKey
	}

	cursor, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	row, ok := cursor.FetchAt(0)
	if !ok {
		return nil, fmt.Errorf("%w: %s %v", ErrRecordNotFound, m.table, id)
	}
	v, ok := row[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, m.table, name)
	}
	return v, nil
}

// Insert adds a row and returns its key.
func (m *TableMapper) Insert(ctx context.Context, bind db.Bind) (int64, error) {
	return m.adapter.Insert(ctx, m.table, bind)
}

// Update changes the row with the given key.
func (m *TableMapper) Update(ctx context.Context, id any, set db.Bind) (int64, error) {
	return m.adapter.Update(ctx, m.table, set, db.Bind{m.pk: id})
}

// Delete removes the row with the given key.
func (m *TableMapper) Delete(ctx context.Context, id any) (int64, error) {
	return m.adapter.Delete(ctx, m.table, db.Bind{m.pk: id})
}
