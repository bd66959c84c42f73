package tablestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	undefinedTable  = "42P01"
	schemaCacheMiss = "PGRST205"
	uniqueViolation = "23505"
	// invalidText is raised when a filter value cannot be cast to the
	// column type, e.g. a non-uuid id against a uuid column.
	invalidText = "22P02"
	connectTimeout  = 10 * time.Second
	defaultMaxConns = 10
)

// PostgresStore talks to the tables through a pgx connection pool.
type PostgresStore struct {
	pool  *pgxpool.Pool
	mylog logger.Logger
}

// Start connects to Postgres and verifies the connection with a ping.
func Start(ctx context.Context, cfg *config.Postgres, mylog logger.Logger) (*PostgresStore, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = defaultMaxConns

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	mylog.Action("db_connected").Info("Connected to PostgreSQL database", "host", cfg.Host, "database", cfg.Database)
	return &PostgresStore{pool: pool, mylog: mylog}, nil
}

func (p *PostgresStore) SelectAll(ctx context.Context, table string, order ...Order) ([]Row, error) {
	q := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t`, ident(table))
	if len(order) > 0 {
		parts := make([]string, 0, len(order))
		for _, o := range order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, ident(o.Column)+" "+dir)
		}
		q += " ORDER BY " + strings.Join(parts, ", ")
	}
	return p.query(ctx, table, q)
}

func (p *PostgresStore) Select(ctx context.Context, table string, where Eq) ([]Row, error) {
	q := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t WHERE %s = $1`, ident(table), ident(where.Column))
	rows, err := p.query(ctx, table, q, where.Value)
	if matchesNothing(err) {
		return nil, nil
	}
	return rows, err
}

func (p *PostgresStore) Insert(ctx context.Context, table string, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range rows {
		if len(r) == 0 {
			return ErrEmptyRow
		}
		cols := columns(r)
		names := make([]string, len(cols))
		params := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, c := range cols {
			names[i] = ident(c)
			params[i] = fmt.Sprintf("$%d", i+1)
			args[i] = encode(r[c])
		}

		q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
			ident(table), strings.Join(names, ", "), strings.Join(params, ", "))
		if _, err := tx.Exec(ctx, q, args...); err != nil {
			return classify(table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresStore) Update(ctx context.Context, table string, values Row, where ...Eq) (int64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyRow
	}
	if len(where) == 0 {
		return 0, ErrNoFilter
	}

	cols := columns(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(where))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
		args = append(args, encode(values[c]))
	}
	conds := make([]string, len(where))
	for i, w := range where {
		args = append(args, w.Value)
		conds[i] = fmt.Sprintf("%s = $%d", ident(w.Column), len(args))
	}

	q := fmt.Sprintf(`UPDATE %s SET %s WHERE %s`,
		ident(table), strings.Join(sets, ", "), strings.Join(conds, " AND "))

	tag, err := p.pool.Exec(ctx, q, args...)
	if matchesNothing(err) {
		return 0, nil
	}
	if err != nil {
		return 0, classify(table, err)
	}
	return tag.RowsAffected(), nil
}

func (p *PostgresStore) Delete(ctx context.Context, table string, where Eq) (int64, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, ident(table), ident(where.Column))

	tag, err := p.pool.Exec(ctx, q, where.Value)
	if matchesNothing(err) {
		return 0, nil
	}
	if err != nil {
		return 0, classify(table, err)
	}
	return tag.RowsAffected(), nil
}

func (p *PostgresStore) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, ident(table))
	if err := p.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, classify(table, err)
	}
	return n, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	p.mylog.Action("db_closed").Info("Database pool closed")
	return nil
}

func (p *PostgresStore) query(ctx context.Context, table, q string, args ...any) ([]Row, error) {
	rows, err := p.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, classify(table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		r := Row{}
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(table, err)
	}
	return out, nil
}

// classify maps backend error codes onto the package's sentinel errors.
func classify(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case undefinedTable, schemaCacheMiss:
			return fmt.Errorf("%w: %s", ErrTableMissing, table)
		case uniqueViolation:
			return fmt.Errorf("%w: %s: %s", ErrDuplicateKey, table, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", table, err)
}

// matchesNothing reports whether a filter value could not be cast to its
// column, so no row can match it.
func matchesNothing(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidText
}

// encode turns nested documents into JSON so they land in jsonb columns.
func encode(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int64, float64, time.Time, json.RawMessage:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return json.RawMessage(data)
	}
}

func columns(r Row) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
