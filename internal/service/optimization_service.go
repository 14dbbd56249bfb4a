package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository"
)

// OptimizationService runs the budget-constrained reorder optimizer over the
// stored portfolio and persists every run for audit.
type OptimizationService struct {
	components repository.ComponentRepository
	runs       repository.RunRepository
	opt        *engine.Optimizer
}

func NewOptimizationService(components repository.ComponentRepository, runs repository.RunRepository, opt *engine.Optimizer) *OptimizationService {
	if opt == nil {
		opt = engine.NewOptimizer(engine.NewCalculator(engine.DefaultCostParams()))
	}
	return &OptimizationService{components: components, runs: runs, opt: opt}
}

// RunOptimization executes one optimizer pass over the matching components
// and stores the outcome. An infeasible budget is a valid run, not an error.
func (s *OptimizationService) RunOptimization(ctx context.Context, filter domain.ComponentFilter, constraints domain.OptimizationConstraints) (*domain.OptimizationRun, error) {
	if constraints.MaxBudget.IsNegative() {
		return nil, fmt.Errorf("%w: max budget %s is negative",
			engine.ErrInvalidInput, constraints.MaxBudget.String())
	}
	if constraints.TargetAvgRiskPct < 0 || constraints.TargetAvgRiskPct > 100 {
		return nil, fmt.Errorf("%w: target avg risk %.1f%% outside [0, 100]",
			engine.ErrInvalidInput, constraints.TargetAvgRiskPct)
	}

	comps, err := s.components.ListComponents(ctx, filter)
	if err != nil {
		return nil, err
	}

	result, err := s.opt.Run(comps, constraints)
	if err != nil {
		return nil, err
	}

	run := &domain.OptimizationRun{
		ID:        uuid.New(),
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", run.ID.String()).
		Int("items_ordered", result.Summary.ItemsOrdered).
		Str("total_spent", result.Summary.TotalSpent.String()).
		Bool("converged", result.Summary.Converged).
		Msg("optimization run completed")

	return run, nil
}

// GetRun fetches one persisted run by id.
func (s *OptimizationService) GetRun(ctx context.Context, id uuid.UUID) (*domain.OptimizationRun, error) {
	return s.runs.GetRun(ctx, id)
}

// ListRuns returns the most recent runs, newest first.
func (s *OptimizationService) ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error) {
	return s.runs.ListRuns(ctx, limit)
}
