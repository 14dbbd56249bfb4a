package engine

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/invopt/internal/domain"
)

// optimizerFixture pairs a high-risk component with a cheaper-to-fix but
// lower-risk one. The expensive fix still wins on risk per dollar:
// A: risk 0.8, order 383*26.00 = 9958.00, 0.8/9958 per dollar
// B: risk 0.3, order 133*37.50 = 4987.50, 0.3/4987.5 per dollar
func optimizerFixture() []domain.Component {
	a := testComponent()
	a.ComponentID = "CMP-0001"
	a.CurrentStock = 100
	a.UnitCost = 26

	b := testComponent()
	b.ComponentID = "CMP-0002"
	b.CurrentStock = 350
	b.UnitCost = 37.5

	return []domain.Component{a, b}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}

	return d
}

func assertDecimalEqual(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(mustDecimal(t, want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got.String())
	}
}

func TestOptimizer_Run_BudgetCoversOneOrder(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(12000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(res.Steps))
	}

	step := res.Steps[0]
	if step.ComponentID != "CMP-0001" {
		t.Errorf("expected the high risk-per-dollar component first, got %s", step.ComponentID)
	}
	if step.Iteration != 1 {
		t.Errorf("expected iteration 1, got %d", step.Iteration)
	}
	if step.Quantity != 383 {
		t.Errorf("expected quantity 383, got %d", step.Quantity)
	}
	assertDecimalEqual(t, "step cost", step.Cost, "9958.00")
	assertDecimalEqual(t, "cumulative spend", step.CumulativeSpend, "9958.00")
	assertDecimalEqual(t, "remaining budget", step.RemainingBudget, "2042.00")
	// (0.05 + 0.3) / 2 after the reorder
	if !almostEqual(step.AvgRiskAfter, 0.175) {
		t.Errorf("expected avg risk 0.175 after step, got %v", step.AvgRiskAfter)
	}

	sum := res.Summary
	if sum.ItemsOrdered != 1 {
		t.Errorf("expected 1 item ordered, got %d", sum.ItemsOrdered)
	}
	assertDecimalEqual(t, "total spent", sum.TotalSpent, "9958.00")
	assertDecimalEqual(t, "remaining budget", sum.RemainingBudget, "2042.00")
	if !almostEqual(sum.InitialAvgRisk, 0.55) {
		t.Errorf("expected initial avg risk 0.55, got %v", sum.InitialAvgRisk)
	}
	if !almostEqual(sum.FinalAvgRisk, 0.175) {
		t.Errorf("expected final avg risk 0.175, got %v", sum.FinalAvgRisk)
	}
	if !almostEqual(sum.RiskReduction, 0.375) {
		t.Errorf("expected risk reduction 0.375, got %v", sum.RiskReduction)
	}
	if sum.Converged {
		t.Error("0.175 avg risk should not converge against a 10% target")
	}
}

func TestOptimizer_Run_BudgetCoversBothOrders(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(res.Steps))
	}
	if res.Steps[0].ComponentID != "CMP-0001" || res.Steps[1].ComponentID != "CMP-0002" {
		t.Errorf("expected order CMP-0001, CMP-0002; got %s, %s",
			res.Steps[0].ComponentID, res.Steps[1].ComponentID)
	}

	second := res.Steps[1]
	if second.Quantity != 133 {
		t.Errorf("expected quantity 133, got %d", second.Quantity)
	}
	assertDecimalEqual(t, "step cost", second.Cost, "4987.50")
	assertDecimalEqual(t, "cumulative spend", second.CumulativeSpend, "14945.50")
	assertDecimalEqual(t, "remaining budget", second.RemainingBudget, "1054.50")
	// Both components now sit at the post-order residual.
	if !almostEqual(second.AvgRiskAfter, 0.05) {
		t.Errorf("expected avg risk 0.05 after both orders, got %v", second.AvgRiskAfter)
	}

	sum := res.Summary
	if !sum.Converged {
		t.Error("expected convergence at the 10% target")
	}
	if !almostEqual(sum.FinalAvgRisk, 0.05) {
		t.Errorf("expected final avg risk 0.05, got %v", sum.FinalAvgRisk)
	}
	if !almostEqual(sum.RiskReduction, 0.5) {
		t.Errorf("expected risk reduction 0.5, got %v", sum.RiskReduction)
	}
}

func TestOptimizer_Run_SkipsOrderThatDoesNotFit(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	// Enough for the cheap order only; the pricier, better-value one is
	// skipped rather than partially filled.
	res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(5000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(res.Steps))
	}
	if res.Steps[0].ComponentID != "CMP-0002" {
		t.Errorf("expected the affordable component, got %s", res.Steps[0].ComponentID)
	}
	assertDecimalEqual(t, "total spent", res.Summary.TotalSpent, "4987.50")
	// (0.8 + 0.05) / 2
	if !almostEqual(res.Summary.FinalAvgRisk, 0.425) {
		t.Errorf("expected final avg risk 0.425, got %v", res.Summary.FinalAvgRisk)
	}
	if res.Summary.Converged {
		t.Error("partial coverage should not converge")
	}
}

func TestOptimizer_Run_NeverOverspends(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	for _, budget := range []int64{0, 3000, 5000, 10000, 12000, 15000, 20000} {
		res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
			MaxBudget:        decimal.NewFromInt(budget),
			TargetAvgRiskPct: 0,
		})
		if err != nil {
			t.Fatalf("Run failed at budget %d: %v", budget, err)
		}

		ceiling := decimal.NewFromInt(budget)
		if res.Summary.TotalSpent.GreaterThan(ceiling) {
			t.Errorf("budget %d: spent %s over budget", budget, res.Summary.TotalSpent.String())
		}
		wantRemaining := ceiling.Sub(res.Summary.TotalSpent)
		if !res.Summary.RemainingBudget.Equal(wantRemaining) {
			t.Errorf("budget %d: remaining %s, want %s",
				budget, res.Summary.RemainingBudget.String(), wantRemaining.String())
		}

		prevRisk := res.Summary.InitialAvgRisk
		for _, step := range res.Steps {
			if step.AvgRiskAfter > prevRisk {
				t.Errorf("budget %d: step %d raised avg risk %v -> %v",
					budget, step.Iteration, prevRisk, step.AvgRiskAfter)
			}
			prevRisk = step.AvgRiskAfter
		}
	}
}

func TestOptimizer_Run_Deterministic(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))
	constraints := domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 10,
	}

	first, err := opt.Run(optimizerFixture(), constraints)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	second, err := opt.Run(optimizerFixture(), constraints)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reruns differ:\n%+v\n%+v", first, second)
	}
}

func TestOptimizer_Run_TieBreaksOnCostThenID(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	// Sub-dollar order costs clamp the risk-per-dollar denominator to 1,
	// forcing a tie on equal risks so the secondary keys decide.
	pricier := testComponent()
	pricier.ComponentID = "CMP-0001"
	pricier.CurrentStock = 100
	pricier.UnitCost = 0.002 // 383 * 0.002 -> 0.77

	cheap := testComponent()
	cheap.ComponentID = "CMP-0003"
	cheap.CurrentStock = 100
	cheap.UnitCost = 0.001 // 383 * 0.001 -> 0.38

	cheapTwin := testComponent()
	cheapTwin.ComponentID = "CMP-0002"
	cheapTwin.CurrentStock = 100
	cheapTwin.UnitCost = 0.001

	res, err := opt.Run([]domain.Component{pricier, cheap, cheapTwin}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(100),
		TargetAvgRiskPct: 0,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(res.Steps))
	}
	wantOrder := []string{"CMP-0002", "CMP-0003", "CMP-0001"}
	for i, want := range wantOrder {
		if res.Steps[i].ComponentID != want {
			t.Errorf("step %d: expected %s, got %s", i+1, want, res.Steps[i].ComponentID)
		}
	}
}

func TestOptimizer_Run_ZeroBudget(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
		MaxBudget:        decimal.Zero,
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(res.Steps))
	}
	if !res.Summary.TotalSpent.IsZero() {
		t.Errorf("expected zero spend, got %s", res.Summary.TotalSpent.String())
	}
	if !almostEqual(res.Summary.FinalAvgRisk, res.Summary.InitialAvgRisk) {
		t.Errorf("final risk %v should equal initial %v",
			res.Summary.FinalAvgRisk, res.Summary.InitialAvgRisk)
	}
	if res.Summary.Converged {
		t.Error("nothing ordered against a risky portfolio should not converge")
	}
}

func TestOptimizer_Run_AlreadyHealthyPortfolio(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	healthy := testComponent()
	healthy.CurrentStock = 900

	res, err := opt.Run([]domain.Component{healthy}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(50000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 0 {
		t.Errorf("expected no steps for a healthy portfolio, got %d", len(res.Steps))
	}
	if !res.Summary.Converged {
		t.Error("a portfolio already below target should converge")
	}
	if !res.Summary.TotalSpent.IsZero() {
		t.Errorf("expected zero spend, got %s", res.Summary.TotalSpent.String())
	}
}

func TestOptimizer_Run_EmptyPortfolio(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	res, err := opt.Run(nil, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(1000),
		TargetAvgRiskPct: 10,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(res.Steps))
	}
	if res.Summary.InitialAvgRisk != 0 || res.Summary.FinalAvgRisk != 0 {
		t.Errorf("expected zero risks, got %v / %v",
			res.Summary.InitialAvgRisk, res.Summary.FinalAvgRisk)
	}
	if !res.Summary.Converged {
		t.Error("an empty portfolio trivially converges")
	}
	assertDecimalEqual(t, "remaining budget", res.Summary.RemainingBudget, "1000")
}

func TestOptimizer_Run_StopsAtTarget(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	// 0.175 average after the first order already beats a 20% target, so
	// the second affordable order must not happen.
	res, err := opt.Run(optimizerFixture(), domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(16000),
		TargetAvgRiskPct: 20,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.Steps) != 1 {
		t.Fatalf("expected to stop after 1 step, got %d", len(res.Steps))
	}
	if !res.Summary.Converged {
		t.Error("expected convergence")
	}
	assertDecimalEqual(t, "total spent", res.Summary.TotalSpent, "9958.00")
}

func TestOptimizer_Run_InvalidComponent(t *testing.T) {
	opt := NewOptimizer(NewCalculator(DefaultCostParams()))

	bad := testComponent()
	bad.UnitCost = -1

	if _, err := opt.Run([]domain.Component{bad}, domain.OptimizationConstraints{
		MaxBudget:        decimal.NewFromInt(1000),
		TargetAvgRiskPct: 10,
	}); err == nil {
		t.Error("expected error for invalid component")
	}
}
