package engine

import (
	"fmt"

	"github.com/andresuchdata/invopt/internal/domain"
)

// Aggregate computes metrics for every component and reduces them into
// portfolio KPIs. An empty portfolio yields a zero-valued summary, not an
// error.
func (c *Calculator) Aggregate(comps []domain.Component) (*domain.PortfolioResult, error) {
	items := make([]domain.ComponentMetrics, 0, len(comps))
	for _, comp := range comps {
		item, err := c.Enrich(comp)
		if err != nil {
			return nil, fmt.Errorf("aggregate portfolio: %w", err)
		}
		items = append(items, item)
	}

	return &domain.PortfolioResult{
		Items:   items,
		Summary: Summarize(items),
	}, nil
}

// AggregateScenario evaluates one scenario across every component and
// summarizes the outcome next to the baseline summary. Baseline components
// are never mutated.
func (c *Calculator) AggregateScenario(comps []domain.Component, params domain.ScenarioParams) (*domain.ScenarioPortfolioResult, error) {
	baseline, err := c.Aggregate(comps)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ScenarioResult, 0, len(comps))
	views := make([]domain.ComponentMetrics, 0, len(comps))
	for _, comp := range comps {
		res, err := c.Evaluate(comp, params)
		if err != nil {
			return nil, fmt.Errorf("scenario portfolio: %w", err)
		}
		items = append(items, res)

		// At-risk exposure keeps using the real current stock and unit
		// cost; only the derived metrics come from the scenario.
		view := comp
		view.ServiceLevel = res.AppliedServiceLevel
		views = append(views, domain.ComponentMetrics{Component: view, StockMetrics: res.StockMetrics})
	}

	return &domain.ScenarioPortfolioResult{
		Params:   params,
		Items:    items,
		Summary:  Summarize(views),
		Baseline: baseline.Summary,
	}, nil
}

// Summarize reduces computed items into portfolio KPIs. Pure sums and
// counts; the outcome does not depend on item order.
func Summarize(items []domain.ComponentMetrics) domain.PortfolioSummary {
	summary := domain.PortfolioSummary{TotalComponents: len(items)}
	if len(items) == 0 {
		return summary
	}

	var serviceSum, coverSum, riskSum float64
	for _, item := range items {
		switch item.Status {
		case domain.StatusCritical:
			summary.CriticalCount++
		case domain.StatusWarning:
			summary.WarningCount++
		default:
			summary.OKCount++
		}

		if item.Status != domain.StatusOK {
			summary.TotalAtRiskValue += float64(item.CurrentStock) * item.UnitCost
		}
		summary.TotalOrderCost += item.OrderCost
		serviceSum += item.ServiceLevel
		coverSum += item.WeeksOfCover
		riskSum += item.StockoutRisk
	}

	n := float64(len(items))
	summary.TotalAtRiskValue = roundTo(summary.TotalAtRiskValue, 2)
	summary.TotalOrderCost = roundTo(summary.TotalOrderCost, 2)
	summary.AvgServiceLevel = roundTo(serviceSum/n, 3)
	summary.AvgWeeksOfCover = roundTo(coverSum/n, 1)
	summary.AvgStockoutRisk = roundTo(riskSum/n, 4)

	return summary
}
