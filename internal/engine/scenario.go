package engine

import (
	"fmt"
	"math"

	"github.com/andresuchdata/invopt/internal/domain"
)

// Evaluate recomputes a component's stock metrics under the given scenario.
// The component is received by value and never modified, so repeated what-if
// calls from the same baseline snapshot are safe.
func (c *Calculator) Evaluate(comp domain.Component, params domain.ScenarioParams) (domain.ScenarioResult, error) {
	if params.DemandChangePct < -100 {
		return domain.ScenarioResult{}, fmt.Errorf("%w: demand change %.1f%% is below -100%%",
			ErrInvalidInput, params.DemandChangePct)
	}

	// Rounding the scaled demand keeps float artifacts (100 × 1.1 =
	// 110.000...01) from leaking into the ceil-based formulas downstream.
	adjusted := comp
	adjusted.WeeklyDemand = roundTo(comp.WeeklyDemand*(1+params.DemandChangePct/100), 6)
	adjusted.LeadTimeWeeks = math.Max(comp.LeadTimeWeeks+params.LeadTimeDeltaWeeks, minLeadTimeWeeks)
	adjusted.ServiceLevel = params.ServiceLevel

	metrics, err := c.Compute(adjusted)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	return domain.ScenarioResult{
		ComponentID:           comp.ComponentID,
		Category:              comp.Category,
		Variant:               comp.Variant,
		AdjustedWeeklyDemand:  roundTo(adjusted.WeeklyDemand, 2),
		AdjustedLeadTimeWeeks: adjusted.LeadTimeWeeks,
		AppliedServiceLevel:   NormalizeServiceLevel(params.ServiceLevel),
		StockMetrics:          metrics,
	}, nil
}
