package domain

// PortfolioSummary reduces the computed portfolio into dashboard KPIs.
// At-risk value is the current stock exposure (stock × unit cost) of every
// component whose status is not ok; the same definition is used for baseline
// and scenario summaries so the two stay comparable.
type PortfolioSummary struct {
	TotalComponents  int     `json:"total_components"`
	CriticalCount    int     `json:"critical_count"`
	WarningCount     int     `json:"warning_count"`
	OKCount          int     `json:"ok_count"`
	TotalAtRiskValue float64 `json:"total_at_risk_value"`
	TotalOrderCost   float64 `json:"total_order_cost"`
	AvgServiceLevel  float64 `json:"avg_service_level"`
	AvgWeeksOfCover  float64 `json:"avg_weeks_of_cover"`
	AvgStockoutRisk  float64 `json:"avg_stockout_risk"`
}

// PortfolioResult is the full baseline evaluation: every component with its
// metrics, plus the reduced summary.
type PortfolioResult struct {
	Items   []ComponentMetrics `json:"items"`
	Summary PortfolioSummary   `json:"summary"`
}
