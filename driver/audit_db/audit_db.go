// Package audit_db persists cutout audit records in Postgres.
package audit_db

import (
	"context"
	"fmt"
	"time"

	"skyview/domain"
	"skyview/utils/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of pgxpool.Pool used by the repository.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// AuditRepository writes rows into cutout_audit_log.
//
//	CREATE TABLE cutout_audit_log (
//	    id            UUID PRIMARY KEY,
//	    provider      TEXT NOT NULL,
//	    survey        TEXT NOT NULL,
//	    attempt_count INTEGER NOT NULL,
//	    cache_hit     BOOLEAN NOT NULL,
//	    byte_size     INTEGER NOT NULL,
//	    recorded_at   TIMESTAMPTZ NOT NULL
//	);
type AuditRepository struct {
	pool PgxIface
}

func NewAuditRepository(pool PgxIface) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Connect opens a pool against databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Logger.Info("Connected to audit database", "max_conns", cfg.MaxConns)
	return pool, nil
}

// WriteCutoutAudit inserts one audit row.
func (r *AuditRepository) WriteCutoutAudit(ctx context.Context, record domain.CutoutAuditRecord) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("audit repository is not initialized")
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO cutout_audit_log (id, provider, survey, attempt_count, cache_hit, byte_size, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.Provider.String(),
		record.Survey,
		record.AttemptCount,
		record.CacheHit,
		record.ByteSize,
		record.RecordedAt,
	)
	if err != nil {
		logger.FromContext(ctx).Error("Error writing cutout audit record", "error", err, "id", record.ID)
		return fmt.Errorf("write cutout audit: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func (r *AuditRepository) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}
