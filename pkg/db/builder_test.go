package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dialect Dialect
		where   Bind
		name    string
		query   string
		args    []any
		opts    []SelectOption
	}{
		{
			name:    "no conditions",
			dialect: SQLite,
			query:   `SELECT * FROM "posts"`,
		},
		{
			name:    "sorted and conditions",
			dialect: Postgres,
			where:   Bind{"title": "x", "author_id": 7},
			query:   `SELECT * FROM "posts" WHERE "author_id" = $1 AND "title" = $2`,
			args:    []any{7, "x"},
		},
		{
			name:    "match any",
			dialect: SQLite,
			where:   Bind{"a": 1, "b": 2},
			opts:    []SelectOption{MatchAny()},
			query:   `SELECT * FROM "posts" WHERE "a" = ? OR "b" = ?`,
			args:    []any{1, 2},
		},
		{
			name:    "null condition",
			dialect: Postgres,
			where:   Bind{"deleted_at": nil, "id": 3},
			query:   `SELECT * FROM "posts" WHERE "deleted_at" IS NULL AND "id" = $1`,
			args:    []any{3},
		},
		{
			name:    "order and page",
			dialect: Postgres,
			opts:    []SelectOption{OrderBy("created_at desc", "id"), Page(20, 10)},
			query:   `SELECT * FROM "posts" ORDER BY "created_at" DESC, "id" LIMIT 10 OFFSET 20`,
		},
		{
			name:    "limit",
			dialect: SQLite,
			opts:    []SelectOption{Limit(5)},
			query:   `SELECT * FROM "posts" LIMIT 5`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			query, args := buildSelect(tt.dialect, "posts", tt.where, tt.opts...)
			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	query, args := buildInsert(Postgres, "posts", Bind{"title": "x", "body": "y"}, "id")
	assert.Equal(t, `INSERT INTO "posts" ("body", "title") VALUES ($1, $2) RETURNING "id"`, query)
	assert.Equal(t, []any{"y", "x"}, args)

	query, _ = buildInsert(SQLite, "posts", Bind{"title": "x"}, "id")
	assert.Equal(t, `INSERT INTO "posts" ("title") VALUES (?)`, query)
}

func TestBuildUpdateDelete(t *testing.T) {
	t.Parallel()

	query, args := buildUpdate(Postgres, "posts", Bind{"title": "x", "body": "y"}, Bind{"id": 1})
	assert.Equal(t, `UPDATE "posts" SET "body" = $1, "title" = $2 WHERE "id" = $3`, query)
	assert.Equal(t, []any{"y", "x", 1}, args)

	query, args = buildDelete(SQLite, "posts", Bind{"id": 1})
	assert.Equal(t, `DELETE FROM "posts" WHERE "id" = ?`, query)
	assert.Equal(t, []any{1}, args)
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"public"."posts"`, Postgres.Quote("public.posts"))
	assert.Equal(t, `"we""ird"`, SQLite.Quote(`we"ird`))
}
