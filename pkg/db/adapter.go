package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/llama/pkg/logger"
)

// querier is implemented by both *sql.Conn and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for statement tracing.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPrimaryKey sets the column returned by Insert on dialects that use
// RETURNING. The default is "id".
func WithPrimaryKey(column string) Option {
	return func(a *Adapter) {
		a.pk = column
	}
}

// Adapter runs statements over a single dedicated connection that is opened
// on first use. One statement is live at a time: Prepare replaces it.
// An Adapter is not safe for concurrent use.
type Adapter struct {
	cfg     Config
	dialect Dialect
	logger  *slog.Logger
	pk      string

	db     *sql.DB
	pool   *pgxpool.Pool
	ownsDB bool

	conn *sql.Conn
	tx   *sql.Tx
	q    querier

	stmt     *sql.Stmt
	result   *ResultSet
	affected int64
	lastID   int64
}

// New creates an adapter that opens its own database handle from cfg.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	d, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		cfg:     cfg,
		dialect: d,
		logger:  logger.NewNope(),
		pk:      "id",
		ownsDB:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewFromDB wraps an already open database handle. Disconnect releases the
// adapter's connection but leaves db open.
func NewFromDB(db *sql.DB, dialect Dialect, opts ...Option) *Adapter {
	a := &Adapter{
		db:      db,
		dialect: dialect,
		logger:  logger.NewNope(),
		pk:      "id",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dialect returns the adapter's SQL dialect.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// DB returns the underlying handle, or nil before Connect.
func (a *Adapter) DB() *sql.DB { return a.db }

// Connect opens the database handle if needed and reserves a connection.
// Calling it on a connected adapter is a no-op.
func (a *Adapter) Connect(ctx context.Context) error {
	if a.q != nil {
		return nil
	}

	if err := a.Open(ctx); err != nil {
		return err
	}

	conn, err := a.db.Conn(ctx)
	if err != nil {
		return errors.Join(ErrConnect, err)
	}
	a.conn = conn
	a.q = conn
	return nil
}

// Open opens the database handle without reserving a connection.
// Adapters created with NewFromDB are already open.
func (a *Adapter) Open(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	if err := a.open(ctx); err != nil {
		return errors.Join(ErrConnect, err)
	}
	return nil
}

func (a *Adapter) open(ctx context.Context) error {
	if a.cfg.Driver == DriverPgx {
		pool, err := Connect(ctx, a.cfg)
		if err != nil {
			return err
		}
		a.pool = pool
		a.db = stdlib.OpenDBFromPool(pool)
		return nil
	}

	db, err := OpenSQL(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.db = db
	return nil
}

// Disconnect closes the live statement and releases the connection.
// Handles opened by the adapter itself are closed too.
func (a *Adapter) Disconnect() error {
	var errs []error
	if a.stmt != nil {
		errs = append(errs, a.stmt.Close())
		a.stmt = nil
	}
	if a.tx != nil {
		// transaction adapters never own the connection
		a.q = nil
		return errors.Join(errs...)
	}
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
		a.conn = nil
	}
	a.q = nil

	if a.ownsDB && a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
		if a.pool != nil {
			a.pool.Close()
			a.pool = nil
		}
	}
	return errors.Join(errs...)
}

// Prepare compiles query and makes it the live statement, closing the
// previous one.
func (a *Adapter) Prepare(ctx context.Context, query string) error {
	if err := a.Connect(ctx); err != nil {
		return err
	}

	if a.stmt != nil {
		_ = a.stmt.Close()
		a.stmt = nil
	}

	a.logger.DebugContext(ctx, "db: prepare", slog.String("query", query))

	stmt, err := a.q.PrepareContext(ctx, query)
	if err != nil {
		return errors.Join(ErrPrepare, err)
	}
	a.stmt = stmt
	return nil
}

// Execute runs the live statement and records the affected row count and
// last insert id.
func (a *Adapter) Execute(ctx context.Context, args ...any) error {
	if a.stmt == nil {
		return ErrNoStatement
	}

	res, err := a.stmt.ExecContext(ctx, args...)
	if err != nil {
		return errors.Join(ErrExecute, err)
	}

	a.affected, _ = res.RowsAffected()
	// drivers without insert ids report an error here, which is not a failure
	if id, err := res.LastInsertId(); err == nil {
		a.lastID = id
	}
	return nil
}

// Query runs the live statement and buffers its rows.
func (a *Adapter) Query(ctx context.Context, args ...any) (*ResultSet, error) {
	if a.stmt == nil {
		return nil, ErrNoStatement
	}

	rows, err := a.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}

	rs, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	a.result = rs
	return rs, nil
}

// Fetch returns the next row of the last result set.
func (a *Adapter) Fetch() (Row, bool) {
	return a.result.Fetch()
}

// FetchAll returns the remaining rows of the last result set.
func (a *Adapter) FetchAll() []Row {
	return a.result.FetchAll()
}

// AffectedRows returns the row count of the last Execute.
func (a *Adapter) AffectedRows() int64 { return a.affected }

// LastInsertID returns the key generated by the last insert.
func (a *Adapter) LastInsertID() int64 { return a.lastID }

// Select queries table for rows matching where. An empty where selects
// every row.
func (a *Adapter) Select(ctx context.Context, table string, where Bind, opts ...SelectOption) (*ResultSet, error) {
	query, args := buildSelect(a.dialect, table, where, opts...)
	if err := a.Prepare(ctx, query); err != nil {
		return nil, err
	}
	return a.Query(ctx, args...)
}

// Insert adds a row and returns its generated key.
func (a *Adapter) Insert(ctx context.Context, table string, bind Bind) (int64, error) {
	if len(bind) == 0 {
		return 0, ErrEmptyBind
	}

	query, args := buildInsert(a.dialect, table, bind, a.pk)
	if err := a.Prepare(ctx, query); err != nil {
		return 0, err
	}

	if a.dialect.Returning() {
		var id int64
		if err := a.stmt.QueryRowContext(ctx, args...).Scan(&id); err != nil {
			return 0, errors.Join(ErrExecute, err)
		}
		a.lastID = id
		a.affected = 1
		return id, nil
	}

	if err := a.Execute(ctx, args...); err != nil {
		return 0, err
	}
	return a.lastID, nil
}

// Update changes rows matching where and returns how many were affected.
// Both set and where must be non-empty.
func (a *Adapter) Update(ctx context.Context, table string, set, where Bind) (int64, error) {
	if len(set) == 0 || len(where) == 0 {
		return 0, ErrEmptyBind
	}

	query, args := buildUpdate(a.dialect, table, set, where)
	if err := a.Prepare(ctx, query); err != nil {
		return 0, err
	}
	if err := a.Execute(ctx, args...); err != nil {
		return 0, err
	}
	return a.affected, nil
}

// Delete removes rows matching where and returns how many were affected.
// An empty where is rejected.
func (a *Adapter) Delete(ctx context.Context, table string, where Bind) (int64, error) {
	if len(where) == 0 {
		return 0, ErrEmptyBind
	}

	query, args := buildDelete(a.dialect, table, where)
	if err := a.Prepare(ctx, query); err != nil {
		return 0, err
	}
	if err := a.Execute(ctx, args...); err != nil {
		return 0, err
	}
	return a.affected, nil
}
