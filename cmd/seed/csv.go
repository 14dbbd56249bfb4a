package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/andresuchdata/invopt/internal/domain"
)

var supplierHeader = []string{
	"supplier_id", "name", "country", "base_lead_weeks",
	"lead_time_std_weeks", "reliability",
}

var componentHeader = []string{
	"component_id", "category", "variant", "supplier_id", "supplier_name",
	"weekly_demand", "lead_time_weeks", "lead_time_std_weeks", "unit_cost",
	"current_stock", "service_level",
}

func writeSupplierCSV(path string, suppliers []domain.Supplier) error {
	records := make([][]string, 0, len(suppliers))
	for _, sup := range suppliers {
		records = append(records, []string{
			sup.SupplierID,
			sup.Name,
			sup.Country,
			formatFloat(sup.BaseLeadWeeks),
			formatFloat(sup.LeadTimeStdWeeks),
			formatFloat(sup.Reliability),
		})
	}
	return writeCSV(path, supplierHeader, records)
}

func writeComponentCSV(path string, components []domain.Component) error {
	records := make([][]string, 0, len(components))
	for _, comp := range components {
		records = append(records, []string{
			comp.ComponentID,
			comp.Category,
			comp.Variant,
			comp.SupplierID,
			comp.SupplierName,
			formatFloat(comp.WeeklyDemand),
			formatFloat(comp.LeadTimeWeeks),
			formatFloat(comp.LeadTimeStdWeeks),
			formatFloat(comp.UnitCost),
			strconv.Itoa(comp.CurrentStock),
			formatFloat(comp.ServiceLevel),
		})
	}
	return writeCSV(path, componentHeader, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record to %s: %w", path, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
