package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/pkg/log"
)

type AnalysesRepo struct {
	db *sql.DB
}

func NewAnalysesRepo(db *sql.DB) *AnalysesRepo {
	return &AnalysesRepo{db: db}
}

func (r *AnalysesRepo) SaveAnalysis(ctx context.Context, a core.Analysis) (int64, error) {
	artifactJSON, err := json.Marshal(a.Artifact)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal artifact: %w", err)
	}

	query := `INSERT INTO analyses (subject, category, mode, artifact, fallback) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, a.Subject, a.Category, a.Mode, string(artifactJSON), a.Fallback)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	log.FromCtx(ctx).Debug().Int64("id", id).Str("subject", a.Subject).Msg("analysis saved")
	return id, nil
}

// LatestAnalysis returns the newest stored brief for a subject, matched
// case-insensitively. A miss is (nil, nil), not an error.
func (r *AnalysesRepo) LatestAnalysis(ctx context.Context, subject string) (*core.Analysis, error) {
	query := `SELECT id, subject, category, mode, artifact, fallback, created_at
		FROM analyses WHERE subject = ? COLLATE NOCASE ORDER BY id DESC LIMIT 1`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, query, subject))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest analysis: %w", err)
	}
	return analysis, nil
}

func (r *AnalysesRepo) RecentAnalyses(ctx context.Context, limit int) ([]core.Analysis, error) {
	query := `SELECT id, subject, category, mode, artifact, fallback, created_at
		FROM analyses ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []core.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*core.Analysis, error) {
	var a core.Analysis
	var artifactJSON string

	if err := row.Scan(&a.ID, &a.Subject, &a.Category, &a.Mode, &artifactJSON, &a.Fallback, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(artifactJSON), &a.Artifact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	return &a, nil
}
