package domain

// ScenarioParams describes a what-if perturbation applied on top of a
// component's baseline statistics. Built fresh per simulation request and
// never persisted with the component.
type ScenarioParams struct {
	DemandChangePct    float64 `json:"demand_change_pct"`
	LeadTimeDeltaWeeks float64 `json:"lead_time_delta_weeks"`
	ServiceLevel       float64 `json:"service_level"`
}

// ScenarioResult is the recomputed view of one component under a scenario.
// The baseline component stays untouched; this is a standalone copy.
type ScenarioResult struct {
	ComponentID           string  `json:"component_id"`
	Category              string  `json:"category"`
	Variant               string  `json:"variant,omitempty"`
	AdjustedWeeklyDemand  float64 `json:"adjusted_weekly_demand"`
	AdjustedLeadTimeWeeks float64 `json:"adjusted_lead_time_weeks"`
	AppliedServiceLevel   float64 `json:"applied_service_level"`
	StockMetrics
}

// ScenarioPortfolioResult evaluates one scenario across the whole portfolio,
// keeping the baseline summary alongside for comparison.
type ScenarioPortfolioResult struct {
	Params   ScenarioParams   `json:"params"`
	Items    []ScenarioResult `json:"items"`
	Summary  PortfolioSummary `json:"summary"`
	Baseline PortfolioSummary `json:"baseline"`
}
