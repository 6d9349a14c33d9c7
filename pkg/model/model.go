package model

import (
	"context"
	"maps"

	"github.com/spf13/cast"

	"github.com/dmitrymomot/llama/pkg/db"
)

// Cursor gives random access to query rows.
type Cursor interface {
	RowCount() int
	FetchAt(offset int) (db.Row, bool)
}

// Mapper loads data for models. LoadField fetches a single field that was
// not part of the row a model was built from.
type Mapper interface {
	LoadField(ctx context.Context, m Model, name string) (any, error)
}

// Model is implemented by types stored in a Collection.
// Embedding Record satisfies it.
type Model interface {
	Hydrate(row db.Row)
	SetMapper(m Mapper)
	Field(name string) any
}

// Record is an embeddable Model backed by a row.
type Record struct {
	row    db.Row
	mapper Mapper
}

// Hydrate replaces the record's data with a copy of row.
func (r *Record) Hydrate(row db.Row) {
	r.row = maps.Clone(row)
	if r.row == nil {
		r.row = make(db.Row)
	}
}

// SetMapper sets the mapper used for lazy field loads.
func (r *Record) SetMapper(m Mapper) { r.mapper = m }

// Mapper returns the record's mapper, or nil.
func (r *Record) Mapper() Mapper { return r.mapper }

// Row returns a copy of the loaded fields.
func (r *Record) Row() db.Row { return maps.Clone(r.row) }

// Field returns the named field, loading it through the mapper when it is
// not part of the row. Load failures yield nil.
func (r *Record) Field(name string) any {
	v, _ := r.LoadField(context.Background(), name)
	return v
}

// LoadField is Field with a context and the load error.
func (r *Record) LoadField(ctx context.Context, name string) (any, error) {
	if v, ok := r.row[name]; ok {
		return v, nil
	}
	if r.mapper == nil {
		return nil, ErrFieldNotFound
	}

	v, err := r.mapper.LoadField(ctx, r, name)
	if err != nil {
		return nil, err
	}
	r.Set(name, v)
	return v, nil
}

// Set stores a field value.
func (r *Record) Set(name string, value any) {
	if r.row == nil {
		r.row = make(db.Row)
	}
	r.row[name] = value
}

// String returns the record's id field.
func (r *Record) String() string {
	return cast.ToString(r.row["id"])
}
