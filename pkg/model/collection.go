package model

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// Collection is an index-addressable view over a cursor that instantiates
// models on first access.
//
// Count always reflects the cursor. Models added with Set beyond it are
// reachable through Get but not through iteration.
type Collection[M Model, Q Mapper] struct {
	mapper  Q
	factory func() M
	cursor  Cursor
	models  map[int]M
	removed map[int]bool
}

// NewCollection creates a collection. factory returns a fresh, empty model;
// cursor may be nil and set later with Find or SetCursor.
func NewCollection[M Model, Q Mapper](mapper Q, factory func() M, cursor Cursor) *Collection[M, Q] {
	c := &Collection[M, Q]{
		mapper:  mapper,
		factory: factory,
	}
	c.SetCursor(cursor)
	return c
}

// Mapper returns the collection's mapper.
func (c *Collection[M, Q]) Mapper() Q { return c.mapper }

// SetCursor replaces the underlying cursor and drops every cached model.
func (c *Collection[M, Q]) SetCursor(cursor Cursor) {
	c.cursor = cursor
	c.models = make(map[int]M)
	c.removed = make(map[int]bool)
}

// Find replaces the cursor with the one returned by query.
func (c *Collection[M, Q]) Find(ctx context.Context, query func(ctx context.Context, mapper Q) (Cursor, error)) error {
	cursor, err := query(ctx, c.mapper)
	if err != nil {
		return err
	}
	c.SetCursor(cursor)
	return nil
}

// Count returns the cursor's row count.
func (c *Collection[M, Q]) Count() int {
	if c.cursor == nil {
		return 0
	}
	return c.cursor.RowCount()
}

// Get returns the model at offset, building it from the cursor on first use.
func (c *Collection[M, Q]) Get(offset int) (M, bool) {
	var zero M
	if c.removed[offset] {
		return zero, false
	}
	if m, ok := c.models[offset]; ok {
		return m, true
	}
	if offset < 0 || offset >= c.Count() {
		return zero, false
	}

	row, ok := c.cursor.FetchAt(offset)
	if !ok {
		return zero, false
	}

	m := c.factory()
	m.Hydrate(row)
	m.SetMapper(c.mapper)
	c.models[offset] = m
	return m, true
}

// Set stores m at offset. A negative offset appends at Count.
func (c *Collection[M, Q]) Set(offset int, m M) {
	if offset < 0 {
		offset = c.Count()
	}
	delete(c.removed, offset)
	c.models[offset] = m
}

// Has reports whether offset holds a model.
func (c *Collection[M, Q]) Has(offset int) bool {
	if c.removed[offset] {
		return false
	}
	if _, ok := c.models[offset]; ok {
		return true
	}
	return offset >= 0 && offset < c.Count()
}

// Remove drops the model at offset. The offset stays empty until Set.
func (c *Collection[M, Q]) Remove(offset int) {
	delete(c.models, offset)
	c.removed[offset] = true
}

// All iterates the models at offsets 0 to Count-1, skipping removed ones.
func (c *Collection[M, Q]) All() iter.Seq2[int, M] {
	return func(yield func(int, M) bool) {
		it := c.Iterator()
		for ; it.Valid(); it.Next() {
			if !yield(it.Key(), it.Current()) {
				return
			}
		}
	}
}

// Iterator returns a cursor positioned at the first model.
func (c *Collection[M, Q]) Iterator() *Iterator[M, Q] {
	it := &Iterator[M, Q]{c: c}
	it.Rewind()
	return it
}

// FetchField materialises every model and returns the named field of each,
// in order.
func (c *Collection[M, Q]) FetchField(name string) []any {
	out := make([]any, 0, c.Count())
	for _, m := range c.All() {
		out = append(out, m.Field(name))
	}
	return out
}

// String joins the string form of every model with ", ".
func (c *Collection[M, Q]) String() string {
	parts := make([]string, 0, c.Count())
	for _, m := range c.All() {
		parts = append(parts, fmt.Sprint(m))
	}
	return strings.Join(parts, ", ")
}

// Iterator walks a collection by offset.
type Iterator[M Model, Q Mapper] struct {
	c       *Collection[M, Q]
	current M
	pos     int
}

// Rewind moves to the first live offset.
func (it *Iterator[M, Q]) Rewind() {
	it.pos = 0
}

// Valid loads the model at the current offset, skipping removed ones, and
// reports whether one was found.
func (it *Iterator[M, Q]) Valid() bool {
	for ; it.pos < it.c.Count(); it.pos++ {
		if m, ok := it.c.Get(it.pos); ok {
			it.current = m
			return true
		}
	}
	return false
}

// Key returns the current offset.
func (it *Iterator[M, Q]) Key() int { return it.pos }

// Current returns the model loaded by the last successful Valid.
func (it *Iterator[M, Q]) Current() M { return it.current }

// Next advances to the following offset.
func (it *Iterator[M, Q]) Next() { it.pos++ }
