// Package engine implements the quantitative inventory computations: stock
// metrics per component, what-if scenario evaluation, portfolio aggregation
// and budget-constrained reorder optimization. Every call is a pure
// computation over the inputs it receives; the package holds no state
// between calls and performs no I/O.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/andresuchdata/invopt/internal/domain"
)

// ErrInvalidInput reports component or scenario fields outside the engine's
// domain, such as negative demand or cost.
var ErrInvalidInput = errors.New("invalid input")

// zScores maps a target service level to its safety-stock z-score.
var zScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.97: 1.88,
	0.99: 2.33,
}

const (
	// demandCV estimates demand variability as a fixed fraction of mean
	// weekly demand; only the mean is tracked per component.
	demandCV = 0.25

	// minLeadTimeWeeks floors supplier lead times so a zero or near-zero
	// lead time never yields a degenerate zero safety stock.
	minLeadTimeWeeks = 0.5

	// coverSentinelWeeks stands in for weeks of cover when a component has
	// no consumption.
	coverSentinelWeeks = 999.0

	// maxStockoutRisk caps the risk score for items already at zero cover.
	maxStockoutRisk = 0.95

	defaultServiceLevel = 0.95

	weeksPerMonth = 4.33
	weeksPerYear  = 52.0
)

// CostParams hold the EOQ cost model: a fixed cost per purchase order and an
// annual holding rate charged against unit cost.
type CostParams struct {
	OrderingCost float64
	HoldingRate  float64
}

// DefaultCostParams is the cost model used when none is configured.
func DefaultCostParams() CostParams {
	return CostParams{
		OrderingCost: 50,
		HoldingRate:  0.20,
	}
}

// Calculator derives stock metrics for components.
type Calculator struct {
	costs CostParams
}

// NewCalculator creates a calculator with the given cost model. Zero or
// negative cost parameters fall back to the defaults.
func NewCalculator(costs CostParams) *Calculator {
	def := DefaultCostParams()
	if costs.OrderingCost <= 0 {
		costs.OrderingCost = def.OrderingCost
	}
	if costs.HoldingRate <= 0 {
		costs.HoldingRate = def.HoldingRate
	}

	return &Calculator{costs: costs}
}

// ZScore maps a service level to its safety-stock z-score, falling back to
// the 0.95 entry for unrecognized levels.
func ZScore(serviceLevel float64) float64 {
	if z, ok := zScores[serviceLevel]; ok {
		return z
	}

	return zScores[defaultServiceLevel]
}

// NormalizeServiceLevel returns the service level actually applied: the
// input when recognized, otherwise the 0.95 fallback.
func NormalizeServiceLevel(serviceLevel float64) float64 {
	if _, ok := zScores[serviceLevel]; ok {
		return serviceLevel
	}

	return defaultServiceLevel
}

// Compute derives all stock metrics for a single component.
func (c *Calculator) Compute(comp domain.Component) (domain.StockMetrics, error) {
	if comp.WeeklyDemand < 0 {
		return domain.StockMetrics{}, fmt.Errorf("%w: component %s has negative weekly demand %.2f",
			ErrInvalidInput, comp.ComponentID, comp.WeeklyDemand)
	}
	if comp.UnitCost < 0 {
		return domain.StockMetrics{}, fmt.Errorf("%w: component %s has negative unit cost %.2f",
			ErrInvalidInput, comp.ComponentID, comp.UnitCost)
	}

	leadTime := math.Max(comp.LeadTimeWeeks, minLeadTimeWeeks)
	z := ZScore(comp.ServiceLevel)

	// 1. Demand std estimated from the fixed coefficient of variation.
	demandStd := comp.WeeklyDemand * demandCV

	// 2. Safety stock, rounded up so rounding never under-provisions.
	safetyStock := int(math.Ceil(z * demandStd * math.Sqrt(leadTime)))

	// 3. Reorder point = lead-time demand + safety stock.
	reorderPoint := int(math.Ceil(comp.WeeklyDemand*leadTime + float64(safetyStock)))

	// 4. Weeks of cover, or the sentinel when nothing is consumed.
	cover := coverSentinelWeeks
	if comp.WeeklyDemand > 0 {
		cover = roundTo(float64(comp.CurrentStock)/comp.WeeklyDemand, 1)
	}

	// 5. Order up to the reorder point.
	orderQty := reorderPoint - comp.CurrentStock
	if orderQty < 0 {
		orderQty = 0
	}

	// 6. Status bands: under one week of cover is critical, under one lead
	// time is warning.
	status := domain.StatusOK
	switch {
	case cover <= 1:
		status = domain.StatusCritical
	case cover <= leadTime:
		status = domain.StatusWarning
	}

	// 7. Stockout risk: linear in cover, zero once cover clears the lead
	// time by a week, capped near certainty at zero cover.
	risk := 0.0
	if comp.WeeklyDemand > 0 {
		risk = roundTo(clamp(1-cover/(leadTime+1), 0, maxStockoutRisk), 3)
	}

	return domain.StockMetrics{
		SafetyStock:         safetyStock,
		ReorderPoint:        reorderPoint,
		EOQ:                 c.eoq(comp.WeeklyDemand, comp.UnitCost),
		WeeksOfCover:        cover,
		StockoutRisk:        risk,
		RecommendedOrderQty: orderQty,
		OrderCost:           roundTo(float64(orderQty)*comp.UnitCost, 2),
		Status:              status,
		ZScore:              z,
	}, nil
}

// Enrich pairs a component with its computed metrics.
func (c *Calculator) Enrich(comp domain.Component) (domain.ComponentMetrics, error) {
	metrics, err := c.Compute(comp)
	if err != nil {
		return domain.ComponentMetrics{}, err
	}

	return domain.ComponentMetrics{Component: comp, StockMetrics: metrics}, nil
}

// eoq is the classic economic order quantity over annualized demand. A zero
// unit cost gives no holding-cost signal; fall back to roughly one month of
// demand.
func (c *Calculator) eoq(weeklyDemand, unitCost float64) int {
	if weeklyDemand <= 0 {
		return 0
	}
	if unitCost == 0 {
		return max(1, int(math.Round(weeklyDemand*weeksPerMonth)))
	}

	annualDemand := weeklyDemand * weeksPerYear
	q := math.Sqrt(2 * annualDemand * c.costs.OrderingCost / (unitCost * c.costs.HoldingRate))

	return max(1, int(math.Round(q)))
}
