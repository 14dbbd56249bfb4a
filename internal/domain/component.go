package domain

// Component is one purchased SKU/variant tracked by the optimizer, with the
// demand, supply and cost statistics the engine derives everything else from.
type Component struct {
	ComponentID      string  `json:"component_id" db:"component_id"`
	Category         string  `json:"category" db:"category"`
	Variant          string  `json:"variant,omitempty" db:"variant"`
	SupplierID       string  `json:"supplier_id" db:"supplier_id"`
	SupplierName     string  `json:"supplier_name" db:"supplier_name"`
	WeeklyDemand     float64 `json:"weekly_demand" db:"weekly_demand"`
	LeadTimeWeeks    float64 `json:"lead_time_weeks" db:"lead_time_weeks"`
	LeadTimeStdWeeks float64 `json:"lead_time_std_weeks" db:"lead_time_std_weeks"`
	UnitCost         float64 `json:"unit_cost" db:"unit_cost"`
	CurrentStock     int     `json:"current_stock" db:"current_stock"`
	ServiceLevel     float64 `json:"service_level" db:"service_level"`
}

// StockMetrics holds the derived inventory figures for one component. These
// are recomputed wholesale from the component inputs and never stored or
// edited independently.
type StockMetrics struct {
	SafetyStock         int         `json:"safety_stock"`
	ReorderPoint        int         `json:"reorder_point"`
	EOQ                 int         `json:"eoq"`
	WeeksOfCover        float64     `json:"weeks_of_cover"`
	StockoutRisk        float64     `json:"stockout_risk"`
	RecommendedOrderQty int         `json:"recommended_order_qty"`
	OrderCost           float64     `json:"order_cost"`
	Status              StockStatus `json:"status"`
	ZScore              float64     `json:"z_score"`
}

// ComponentMetrics pairs a component with its freshly computed metrics.
type ComponentMetrics struct {
	Component
	StockMetrics
}

// Supplier describes a component source and its delivery characteristics.
type Supplier struct {
	SupplierID       string  `json:"supplier_id" db:"supplier_id"`
	Name             string  `json:"name" db:"name"`
	Country          string  `json:"country" db:"country"`
	BaseLeadWeeks    float64 `json:"base_lead_weeks" db:"base_lead_weeks"`
	LeadTimeStdWeeks float64 `json:"lead_time_std_weeks" db:"lead_time_std_weeks"`
	Reliability      float64 `json:"reliability" db:"reliability"`
}

// ComponentFilter narrows component queries. Categories and supplier IDs
// filter at the store level; Status filters after metrics are computed
// because the band is a derived field.
type ComponentFilter struct {
	Categories  []string    `json:"categories,omitempty"`
	SupplierIDs []string    `json:"supplier_ids,omitempty"`
	Status      StockStatus `json:"status,omitempty"`
}
