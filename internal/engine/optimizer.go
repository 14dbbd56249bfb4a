package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/invopt/internal/domain"
)

// postOrderResidualRisk replaces an ordered component's contribution to the
// running portfolio average. Fresh stock is assumed adequate until the next
// snapshot; the true post-delivery risk is not recomputed. A modeling
// simplification, kept for auditability of each step.
const postOrderResidualRisk = 0.05

// Optimizer selects components to reorder under a budget ceiling, greedily
// maximizing stockout-risk reduction per dollar spent. A fractional-knapsack
// style heuristic: deterministic and explainable, not globally optimal.
type Optimizer struct {
	calc *Calculator
}

// NewOptimizer creates an optimizer computing candidate metrics with calc.
func NewOptimizer(calc *Calculator) *Optimizer {
	return &Optimizer{calc: calc}
}

type reorderCandidate struct {
	id            string
	category      string
	variant       string
	qty           int
	cost          decimal.Decimal
	risk          float64
	riskPerDollar float64
}

// Run executes one optimization over the given component snapshot. The run
// is strictly sequential: every acceptance changes the remaining budget and
// the running average risk that later decisions observe. Infeasibility is
// not an error; it surfaces as Converged=false with the partial step trail.
func (o *Optimizer) Run(comps []domain.Component, constraints domain.OptimizationConstraints) (*domain.OptimizationResult, error) {
	target := constraints.TargetAvgRiskPct / 100

	var riskSum float64
	candidates := make([]reorderCandidate, 0)
	for _, comp := range comps {
		metrics, err := o.calc.Compute(comp)
		if err != nil {
			return nil, fmt.Errorf("optimizer: %w", err)
		}
		riskSum += metrics.StockoutRisk

		// Already-ok components keep their place in the average but offer
		// no marginal benefit; zero-quantity orders cannot change stock.
		if metrics.Status == domain.StatusOK || metrics.RecommendedOrderQty <= 0 {
			continue
		}

		cost := decimal.NewFromFloat(comp.UnitCost).
			Mul(decimal.NewFromInt(int64(metrics.RecommendedOrderQty))).
			Round(2)
		costFloat, _ := cost.Float64()

		candidates = append(candidates, reorderCandidate{
			id:            comp.ComponentID,
			category:      comp.Category,
			variant:       comp.Variant,
			qty:           metrics.RecommendedOrderQty,
			cost:          cost,
			risk:          metrics.StockoutRisk,
			riskPerDollar: metrics.StockoutRisk / math.Max(1, costFloat),
		})
	}

	// Highest risk reduction per dollar first; ties go to the cheaper fix,
	// then component id, so reruns produce identical step sequences.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.riskPerDollar != b.riskPerDollar {
			return a.riskPerDollar > b.riskPerDollar
		}
		if !a.cost.Equal(b.cost) {
			return a.cost.LessThan(b.cost)
		}

		return a.id < b.id
	})

	total := float64(len(comps))
	initialRisk := 0.0
	if total > 0 {
		initialRisk = riskSum / total
	}

	avgRisk := initialRisk
	remaining := constraints.MaxBudget
	spent := decimal.Zero
	steps := make([]domain.OptimizationStep, 0)

	for _, cand := range candidates {
		if avgRisk <= target {
			break
		}
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		// Full orders only; a candidate that does not fit is skipped, a
		// cheaper one later may still fit.
		if cand.cost.GreaterThan(remaining) {
			continue
		}

		spent = spent.Add(cand.cost)
		remaining = remaining.Sub(cand.cost)
		riskSum += postOrderResidualRisk - cand.risk
		avgRisk = riskSum / total

		steps = append(steps, domain.OptimizationStep{
			Iteration:       len(steps) + 1,
			ComponentID:     cand.id,
			Category:        cand.category,
			Variant:         cand.variant,
			Quantity:        cand.qty,
			Cost:            cand.cost,
			CumulativeSpend: spent,
			RemainingBudget: remaining,
			AvgRiskAfter:    roundTo(avgRisk, 4),
		})
	}

	return &domain.OptimizationResult{
		Constraints: constraints,
		Steps:       steps,
		Summary: domain.OptimizationSummary{
			ItemsOrdered:    len(steps),
			TotalSpent:      spent,
			RemainingBudget: remaining,
			InitialAvgRisk:  roundTo(initialRisk, 4),
			FinalAvgRisk:    roundTo(avgRisk, 4),
			RiskReduction:   roundTo(initialRisk-avgRisk, 4),
			Converged:       avgRisk <= target,
		},
	}, nil
}
