// internal/ingest/parser.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/invopt/internal/domain"
)

// Demand columns: weekly_demand is preferred; monthly_demand_avg is
// accepted for sources that report demand per month and converted at 4.33
// weeks per month.
const weeksPerMonth = 4.33

var requiredComponentCols = []string{"component_id", "category", "supplier_id", "current_stock", "unit_cost"}

var requiredSupplierCols = []string{"supplier_id", "name"}

// ParseComponents reads a component snapshot CSV. Header names are matched
// case-insensitively and unknown columns are ignored, so planner exports
// with extra columns load as-is.
func ParseComponents(r io.Reader) ([]domain.Component, error) {
	reader := csv.NewReader(r)

	colMap, err := readHeader(reader, requiredComponentCols)
	if err != nil {
		return nil, err
	}
	if _, ok := colMap["weekly_demand"]; !ok {
		if _, ok := colMap["monthly_demand_avg"]; !ok {
			return nil, fmt.Errorf("missing demand column: weekly_demand or monthly_demand_avg")
		}
	}

	var comps []domain.Component
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		comp, err := componentFromRecord(record, colMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		comps = append(comps, comp)
	}

	return comps, nil
}

// ParseSuppliers reads a supplier master CSV.
func ParseSuppliers(r io.Reader) ([]domain.Supplier, error) {
	reader := csv.NewReader(r)

	colMap, err := readHeader(reader, requiredSupplierCols)
	if err != nil {
		return nil, err
	}

	var suppliers []domain.Supplier
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		sup, err := supplierFromRecord(record, colMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		suppliers = append(suppliers, sup)
	}

	return suppliers, nil
}

// readHeader maps lower-cased header names to column indices and verifies
// the required columns are present.
func readHeader(reader *csv.Reader, required []string) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colMap, nil
}

func componentFromRecord(record []string, colMap map[string]int) (domain.Component, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	getFloat := func(colName string) float64 {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}

	getInt := func(colName string) int {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		// Handle float strings like "12.0"
		f, _ := strconv.ParseFloat(val, 64)
		return int(f)
	}

	comp := domain.Component{
		ComponentID:      getValue("component_id"),
		Category:         getValue("category"),
		Variant:          getValue("variant"),
		SupplierID:       getValue("supplier_id"),
		SupplierName:     getValue("supplier_name"),
		WeeklyDemand:     getFloat("weekly_demand"),
		LeadTimeWeeks:    getFloat("lead_time_weeks"),
		LeadTimeStdWeeks: getFloat("lead_time_std_weeks"),
		UnitCost:         getFloat("unit_cost"),
		CurrentStock:     getInt("current_stock"),
		ServiceLevel:     getFloat("service_level"),
	}

	if comp.ComponentID == "" {
		return domain.Component{}, fmt.Errorf("row missing component_id")
	}
	if comp.SupplierID == "" {
		return domain.Component{}, fmt.Errorf("component %s missing supplier_id", comp.ComponentID)
	}

	if comp.WeeklyDemand == 0 {
		if monthly := getFloat("monthly_demand_avg"); monthly > 0 {
			comp.WeeklyDemand = monthly / weeksPerMonth
		}
	}

	return comp, nil
}

func supplierFromRecord(record []string, colMap map[string]int) (domain.Supplier, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	getFloat := func(colName string) float64 {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		f, _ := strconv.ParseFloat(val, 64)
		return f
	}

	sup := domain.Supplier{
		SupplierID:       getValue("supplier_id"),
		Name:             getValue("name"),
		Country:          getValue("country"),
		BaseLeadWeeks:    getFloat("base_lead_weeks"),
		LeadTimeStdWeeks: getFloat("lead_time_std_weeks"),
		Reliability:      getFloat("reliability"),
	}

	if sup.SupplierID == "" {
		return domain.Supplier{}, fmt.Errorf("row missing supplier_id")
	}

	return sup, nil
}

// SuppliersFromComponents derives the minimal supplier rows referenced in a
// component snapshot so foreign keys resolve even when no supplier master
// file was loaded. Lead times come from the component rows.
func SuppliersFromComponents(comps []domain.Component) []domain.Supplier {
	seen := make(map[string]bool)
	var suppliers []domain.Supplier
	for _, c := range comps {
		if c.SupplierID == "" || seen[c.SupplierID] {
			continue
		}
		seen[c.SupplierID] = true
		suppliers = append(suppliers, domain.Supplier{
			SupplierID:       c.SupplierID,
			Name:             c.SupplierName,
			BaseLeadWeeks:    c.LeadTimeWeeks,
			LeadTimeStdWeeks: c.LeadTimeStdWeeks,
		})
	}
	return suppliers
}
