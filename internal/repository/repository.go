// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/andresuchdata/invopt/internal/domain"
)

// ErrNotFound reports a lookup that matched no row. Callers translate it to
// their own not-found handling instead of inspecting driver errors.
var ErrNotFound = errors.New("not found")

// ComponentRepository stores the component master data the engine computes
// from. Status is a derived field, so ComponentFilter.Status is applied by
// the service layer after metrics are computed, not here.
type ComponentRepository interface {
	ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error)
	GetComponent(ctx context.Context, componentID string) (*domain.Component, error)
	UpsertComponents(ctx context.Context, comps []domain.Component) (int, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	UpsertSuppliers(ctx context.Context, suppliers []domain.Supplier) (int, error)
	// EnsureSuppliers inserts suppliers that do not exist yet and leaves
	// existing rows untouched. Component snapshots carry only partial
	// supplier data, so this must never overwrite a richer row.
	EnsureSuppliers(ctx context.Context, suppliers []domain.Supplier) error
}

// RunRepository persists optimizer executions for audit and replay.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.OptimizationRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*domain.OptimizationRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error)
}
