// Package storage persists analysis history rows in Postgres.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	// import db drivers
	_ "github.com/lib/pq"

	"github.com/codeargus/argus/internal/core"
)

// Store defines the interface for all history-store operations.
type Store interface {
	// SaveRecord inserts one row for an analyzed pull request.
	SaveRecord(ctx context.Context, rec *core.AnalysisRecord) error
	// RecentResults returns the most recent records, newest first.
	RecentResults(ctx context.Context, limit int) ([]*core.AnalysisRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveRecord inserts a new analysis record into the database.
func (s *postgresStore) SaveRecord(ctx context.Context, rec *core.AnalysisRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `INSERT INTO analyses (pr_number, pr_title, status, cache_hit, provider, model, report_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		rec.PRNumber, rec.PRTitle, rec.Status, rec.CacheHit, rec.Provider, rec.Model, rec.ReportPath, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis record for PR #%d: %w", rec.PRNumber, err)
	}
	return nil
}

// RecentResults retrieves the most recent analysis records, newest first.
func (s *postgresStore) RecentResults(ctx context.Context, limit int) ([]*core.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, pr_number, pr_title, status, cache_hit, provider, model, report_path, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis history: %w", err)
	}
	defer rows.Close()

	var records []*core.AnalysisRecord
	for rows.Next() {
		var r core.AnalysisRecord
		if err := rows.Scan(&r.ID, &r.PRNumber, &r.PRTitle, &r.Status, &r.CacheHit, &r.Provider, &r.Model, &r.ReportPath, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read analysis history: %w", err)
	}
	return records, nil
}
