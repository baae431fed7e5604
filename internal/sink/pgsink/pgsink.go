// Package pgsink stores lead rows in a Postgres table with one text column
// per model.Columns entry.
package pgsink

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const defaultTable = "leads"

type Sink struct {
	pool  *pgxpool.Pool
	table string
}

// Connect opens and pings a pool.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func New(pool *pgxpool.Pool, table string) *Sink {
	if table == "" {
		table = defaultTable
	}
	return &Sink{pool: pool, table: table}
}

func (s *Sink) Close() { s.pool.Close() }

// EnsureSchema creates the leads table and its email index.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL(s.table) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Upsert serialises writers per email with a transaction-scoped advisory
// lock, then updates the row matched by id or email or inserts a new one.
func (s *Sink) Upsert(ctx context.Context, rec *model.LeadRecord) (bool, error) {
	if rec.ID == "" {
		return false, errx.WrapSink(errors.New("lead has no id"))
	}
	email := rec.Email()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, errx.WrapSink(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx)

	lockKey := email
	if lockKey == "" {
		lockKey = rec.ID
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		return false, errx.WrapSink(fmt.Errorf("lock lead: %w", err))
	}

	var existing string
	err = tx.QueryRow(ctx, matchSQL(s.table), rec.ID, email).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, insertSQL(s.table), rowArgs(rec.Row())...)
		if err != nil {
			return false, errx.WrapSink(fmt.Errorf("insert lead: %w", err))
		}
	case err != nil:
		return false, errx.WrapSink(fmt.Errorf("match lead: %w", err))
	default:
		row := rec.Row()
		row[0] = existing
		if _, err := tx.Exec(ctx, updateSQL(s.table), rowArgs(row)...); err != nil {
			return false, errx.WrapSink(fmt.Errorf("update lead: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, errx.WrapSink(fmt.Errorf("commit: %w", err))
	}
	logx.Debug().Str("lead_id", rec.ID).Bool("updated", existing != "").Msg("lead upserted")
	return true, nil
}

func (s *Sink) FindByEmail(ctx context.Context, email string) (*model.LeadRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	row, err := scanRow(s.pool.QueryRow(ctx, findByEmailSQL(s.table), email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.WrapSink(fmt.Errorf("find lead by email: %w", err))
	}
	return model.RecordFromRow(row)
}

func scanRow(r pgx.Row) ([]string, error) {
	row := make([]string, len(model.Columns))
	dest := make([]any, len(row))
	for i := range row {
		dest[i] = &row[i]
	}
	if err := r.Scan(dest...); err != nil {
		return nil, err
	}
	return row, nil
}

func rowArgs(row []string) []any {
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}
	return args
}

var _ model.LeadSink = (*Sink)(nil)
