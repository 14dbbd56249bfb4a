package ingest

import (
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

const componentSnapshotCSV = `component_id,category,variant,supplier_id,supplier_name,weekly_demand,lead_time_weeks,lead_time_std_weeks,unit_cost,current_stock,service_level,last_restock_date
CMP-0001,Seat Material,Vinyl Gray,SUP-001,Apex Seating Co.,100,4,1.0,12.5,50,0.95,2025-12-01
CMP-0002,Handrails,Standard Steel,SUP-001,Apex Seating Co.,45.5,4,1.0,170.0,320,0.90,2025-12-14
`

func TestParseComponents_Snapshot(t *testing.T) {
	comps, err := ParseComponents(strings.NewReader(componentSnapshotCSV))
	if err != nil {
		t.Fatalf("ParseComponents failed: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d", len(comps))
	}

	c := comps[0]
	if c.ComponentID != "CMP-0001" || c.Category != "Seat Material" || c.Variant != "Vinyl Gray" {
		t.Errorf("unexpected identity fields: %+v", c)
	}
	if c.SupplierID != "SUP-001" || c.SupplierName != "Apex Seating Co." {
		t.Errorf("unexpected supplier fields: %+v", c)
	}
	if c.WeeklyDemand != 100 || c.LeadTimeWeeks != 4 || c.LeadTimeStdWeeks != 1.0 {
		t.Errorf("unexpected demand/lead fields: %+v", c)
	}
	if c.UnitCost != 12.5 || c.CurrentStock != 50 || c.ServiceLevel != 0.95 {
		t.Errorf("unexpected cost/stock fields: %+v", c)
	}

	if comps[1].WeeklyDemand != 45.5 {
		t.Errorf("expected weekly demand 45.5, got %v", comps[1].WeeklyDemand)
	}
}

func TestParseComponents_MonthlyDemandFallback(t *testing.T) {
	csv := `component_id,category,supplier_id,monthly_demand_avg,lead_time_weeks,unit_cost,current_stock
CMP-0001,Seat Material,SUP-001,433,4,12.5,50
`
	comps, err := ParseComponents(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseComponents failed: %v", err)
	}
	if !almostEqual(comps[0].WeeklyDemand, 100) {
		t.Errorf("expected weekly demand 100 from monthly 433, got %v", comps[0].WeeklyDemand)
	}
}

func TestParseComponents_HeaderNormalization(t *testing.T) {
	csv := ` Component_ID ,CATEGORY,Supplier_Id,Weekly_Demand,Unit_Cost,Current_Stock
CMP-0001,Seat Material,SUP-001,100,12.5,50
`
	comps, err := ParseComponents(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseComponents failed: %v", err)
	}
	if comps[0].ComponentID != "CMP-0001" || comps[0].WeeklyDemand != 100 {
		t.Errorf("header normalization failed: %+v", comps[0])
	}
}

func TestParseComponents_MissingRequiredColumn(t *testing.T) {
	csv := `component_id,category,supplier_id,weekly_demand,current_stock
CMP-0001,Seat Material,SUP-001,100,50
`
	_, err := ParseComponents(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for missing unit_cost column")
	}
	if !strings.Contains(err.Error(), "unit_cost") {
		t.Errorf("error should name the missing column, got: %v", err)
	}
}

func TestParseComponents_MissingDemandColumn(t *testing.T) {
	csv := `component_id,category,supplier_id,unit_cost,current_stock
CMP-0001,Seat Material,SUP-001,12.5,50
`
	_, err := ParseComponents(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error when no demand column is present")
	}
}

func TestParseComponents_RowMissingID(t *testing.T) {
	csv := `component_id,category,supplier_id,weekly_demand,unit_cost,current_stock
,Seat Material,SUP-001,100,12.5,50
`
	_, err := ParseComponents(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "component_id") {
		t.Errorf("expected component_id error, got: %v", err)
	}
}

func TestParseComponents_RowMissingSupplier(t *testing.T) {
	csv := `component_id,category,supplier_id,weekly_demand,unit_cost,current_stock
CMP-0001,Seat Material,,100,12.5,50
`
	_, err := ParseComponents(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "supplier_id") {
		t.Errorf("expected supplier_id error, got: %v", err)
	}
}

func TestParseSuppliers(t *testing.T) {
	csv := `supplier_id,name,country,base_lead_weeks,lead_time_std_weeks,reliability
SUP-001,Apex Seating Co.,US,4,1.0,0.92
SUP-002,Northline Floor Systems,US,3,0.8,0.95
`
	suppliers, err := ParseSuppliers(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseSuppliers failed: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(suppliers))
	}

	s := suppliers[0]
	if s.SupplierID != "SUP-001" || s.Name != "Apex Seating Co." || s.Country != "US" {
		t.Errorf("unexpected supplier fields: %+v", s)
	}
	if s.BaseLeadWeeks != 4 || s.LeadTimeStdWeeks != 1.0 || s.Reliability != 0.92 {
		t.Errorf("unexpected supplier numbers: %+v", s)
	}
}

func TestParseSuppliers_MissingNameColumn(t *testing.T) {
	csv := `supplier_id,country
SUP-001,US
`
	_, err := ParseSuppliers(strings.NewReader(csv))
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Errorf("expected missing name column error, got: %v", err)
	}
}

func TestSuppliersFromComponents(t *testing.T) {
	comps, err := ParseComponents(strings.NewReader(componentSnapshotCSV))
	if err != nil {
		t.Fatalf("ParseComponents failed: %v", err)
	}

	suppliers := SuppliersFromComponents(comps)
	if len(suppliers) != 1 {
		t.Fatalf("expected 1 distinct supplier, got %d", len(suppliers))
	}
	s := suppliers[0]
	if s.SupplierID != "SUP-001" || s.Name != "Apex Seating Co." {
		t.Errorf("unexpected derived supplier: %+v", s)
	}
	if s.BaseLeadWeeks != 4 || s.LeadTimeStdWeeks != 1.0 {
		t.Errorf("derived lead times should come from the first row: %+v", s)
	}
}
