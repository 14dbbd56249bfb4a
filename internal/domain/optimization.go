package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptimizationConstraints bound a single optimizer run: a spending cap and
// the portfolio average risk (in percent) the run tries to reach.
type OptimizationConstraints struct {
	MaxBudget        decimal.Decimal `json:"max_budget"`
	TargetAvgRiskPct float64         `json:"target_avg_risk_pct"`
}

// OptimizationStep records one accepted reorder: which component, how much
// it cost, and where the budget and the portfolio risk stood afterwards.
type OptimizationStep struct {
	Iteration       int             `json:"iteration"`
	ComponentID     string          `json:"component_id"`
	Category        string          `json:"category"`
	Variant         string          `json:"variant,omitempty"`
	Quantity        int             `json:"quantity"`
	Cost            decimal.Decimal `json:"cost"`
	CumulativeSpend decimal.Decimal `json:"cumulative_spend"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	AvgRiskAfter    float64         `json:"avg_risk_after"`
}

// OptimizationSummary is the outcome of a run. Converged means the final
// average risk is at or below the requested target.
type OptimizationSummary struct {
	ItemsOrdered    int             `json:"items_ordered"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	RemainingBudget decimal.Decimal `json:"remaining_budget"`
	InitialAvgRisk  float64         `json:"initial_avg_risk"`
	FinalAvgRisk    float64         `json:"final_avg_risk"`
	RiskReduction   float64         `json:"risk_reduction"`
	Converged       bool            `json:"converged"`
}

// OptimizationResult is the immutable output of one run: the ordered step
// trail plus its summary. It is never fed back into component state.
type OptimizationResult struct {
	Constraints OptimizationConstraints `json:"constraints"`
	Steps       []OptimizationStep      `json:"steps"`
	Summary     OptimizationSummary     `json:"summary"`
}

// OptimizationRun is a persisted, identified optimizer execution.
type OptimizationRun struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	Result    OptimizationResult `json:"result"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}
