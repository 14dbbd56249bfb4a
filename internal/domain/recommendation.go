package domain

import "time"

// ReorderRecommendation is one entry of the buyer action queue: a component
// that needs ordering, with the dates that make the urgency concrete.
// ProjectedStockout extrapolates current cover forward; OrderDeadline backs
// the supplier lead time out of that date.
type ReorderRecommendation struct {
	ComponentID         string      `json:"component_id"`
	Category            string      `json:"category"`
	Variant             string      `json:"variant,omitempty"`
	SupplierID          string      `json:"supplier_id"`
	SupplierName        string      `json:"supplier_name"`
	Status              StockStatus `json:"status"`
	Priority            int         `json:"priority"`
	StockoutRisk        float64     `json:"stockout_risk"`
	WeeksOfCover        float64     `json:"weeks_of_cover"`
	RecommendedOrderQty int         `json:"recommended_order_qty"`
	OrderCost           float64     `json:"order_cost"`
	ProjectedStockout   *time.Time  `json:"projected_stockout,omitempty"`
	OrderDeadline       *time.Time  `json:"order_deadline,omitempty"`
	Overdue             bool        `json:"overdue"`
}
