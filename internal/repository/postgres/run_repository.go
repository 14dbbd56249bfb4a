package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/repository"
)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *runRepository {
	return &runRepository{db: db}
}

// runRow carries the persisted shape: a few flat columns for querying plus
// the full result document.
type runRow struct {
	ID        uuid.UUID `db:"id"`
	Result    []byte    `db:"result"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *runRepository) SaveRun(ctx context.Context, run *domain.OptimizationRun) error {
	payload, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("error encoding run %s: %w", run.ID, err)
	}

	query := `
		INSERT INTO optimization_runs (
			id, max_budget, target_avg_risk_pct, total_spent,
			converged, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		run.ID,
		run.Result.Constraints.MaxBudget,
		run.Result.Constraints.TargetAvgRiskPct,
		run.Result.Summary.TotalSpent,
		run.Result.Summary.Converged,
		payload,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving run %s: %w", run.ID, err)
	}

	return nil
}

func (r *runRepository) GetRun(ctx context.Context, id uuid.UUID) (*domain.OptimizationRun, error) {
	query := `
		SELECT id, result, created_at
		FROM optimization_runs
		WHERE id = $1
	`

	var row runRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting run %s: %w", id, err)
	}

	return row.toDomain()
}

func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, result, created_at
		FROM optimization_runs
		ORDER BY created_at DESC, id
		LIMIT $1
	`

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}

	runs := make([]domain.OptimizationRun, 0, len(rows))
	for _, row := range rows {
		run, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, nil
}

func (row runRow) toDomain() (*domain.OptimizationRun, error) {
	var result domain.OptimizationResult
	if err := json.Unmarshal(row.Result, &result); err != nil {
		return nil, fmt.Errorf("error decoding run %s: %w", row.ID, err)
	}

	return &domain.OptimizationRun{
		ID:        row.ID,
		Result:    result,
		CreatedAt: row.CreatedAt,
	}, nil
}

var _ repository.RunRepository = (*runRepository)(nil)
