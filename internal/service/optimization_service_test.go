package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository"
)

func testOptimizerRepo() *stubComponentRepo {
	a := domain.Component{
		ComponentID: "CMP-0001", Category: "Seat Material", SupplierID: "SUP-001",
		WeeklyDemand: 100, LeadTimeWeeks: 4, UnitCost: 26, CurrentStock: 100,
		ServiceLevel: 0.95,
	}
	b := domain.Component{
		ComponentID: "CMP-0002", Category: "Frame", SupplierID: "SUP-002",
		WeeklyDemand: 100, LeadTimeWeeks: 4, UnitCost: 37.5, CurrentStock: 350,
		ServiceLevel: 0.95,
	}

	return &stubComponentRepo{comps: []domain.Component{a, b}}
}

func TestOptimizationService_RunOptimization(t *testing.T) {
	runs := newStubRunRepo()
	svc := NewOptimizationService(testOptimizerRepo(), runs, nil)

	run, err := svc.RunOptimization(context.Background(), domain.ComponentFilter{}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("RunOptimization failed: %v", err)
	}

	if run.ID == uuid.Nil {
		t.Error("expected a run id")
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
	if len(run.Result.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(run.Result.Steps))
	}
	if !run.Result.Summary.Converged {
		t.Error("expected convergence")
	}

	stored, err := runs.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("run not persisted: %v", err)
	}
	if stored.Result.Summary.ItemsOrdered != 2 {
		t.Errorf("persisted run has %d items, want 2", stored.Result.Summary.ItemsOrdered)
	}
}

func TestOptimizationService_RunOptimization_InvalidConstraints(t *testing.T) {
	svc := NewOptimizationService(testOptimizerRepo(), newStubRunRepo(), nil)

	tests := []struct {
		name        string
		constraints domain.OptimizationConstraints
	}{
		{"negative_budget", domain.OptimizationConstraints{
			MaxBudget: decimal.NewFromInt(-1), TargetAvgRiskPct: 10,
		}},
		{"negative_target", domain.OptimizationConstraints{
			MaxBudget: decimal.NewFromInt(1000), TargetAvgRiskPct: -5,
		}},
		{"target_above_100", domain.OptimizationConstraints{
			MaxBudget: decimal.NewFromInt(1000), TargetAvgRiskPct: 120,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RunOptimization(context.Background(), domain.ComponentFilter{}, tt.constraints)
			if !errors.Is(err, engine.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestOptimizationService_RunOptimization_PersistFailure(t *testing.T) {
	runs := newStubRunRepo()
	runs.saveErr = errors.New("disk full")
	svc := NewOptimizationService(testOptimizerRepo(), runs, nil)

	_, err := svc.RunOptimization(context.Background(), domain.ComponentFilter{}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 10,
	})
	if err == nil {
		t.Error("expected persistence error to surface")
	}
}

func TestOptimizationService_ListRuns(t *testing.T) {
	runs := newStubRunRepo()
	svc := NewOptimizationService(testOptimizerRepo(), runs, nil)

	first, err := svc.RunOptimization(context.Background(), domain.ComponentFilter{}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(12000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("RunOptimization failed: %v", err)
	}
	second, err := svc.RunOptimization(context.Background(), domain.ComponentFilter{}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("RunOptimization failed: %v", err)
	}

	listed, err := svc.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(listed))
	}
	if listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Error("expected newest run first")
	}

	_, err = svc.GetRun(context.Background(), uuid.New())
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown run, got %v", err)
	}
}
