package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/repository"
)

type componentRepository struct {
	db *DB
}

func NewComponentRepository(db *DB) *componentRepository {
	return &componentRepository{db: db}
}

const componentColumns = `
	c.component_id, c.category, c.variant, c.supplier_id,
	s.name AS supplier_name, c.weekly_demand, c.lead_time_weeks,
	c.lead_time_std_weeks, c.unit_cost, c.current_stock, c.service_level
`

func (r *componentRepository) ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	query := `
		SELECT ` + componentColumns + `
		FROM components c
		JOIN suppliers s ON s.supplier_id = c.supplier_id
		WHERE 1=1
	`

	clause, args := buildComponentFilterClause(filter, "c.", 1)
	query += clause
	query += " ORDER BY c.component_id"

	comps := make([]domain.Component, 0)
	if err := r.db.SelectContext(ctx, &comps, query, args...); err != nil {
		return nil, fmt.Errorf("error listing components: %w", err)
	}

	return comps, nil
}

func (r *componentRepository) GetComponent(ctx context.Context, componentID string) (*domain.Component, error) {
	query := `
		SELECT ` + componentColumns + `
		FROM components c
		JOIN suppliers s ON s.supplier_id = c.supplier_id
		WHERE c.component_id = $1
	`

	var comp domain.Component
	err := r.db.GetContext(ctx, &comp, query, componentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("component %s: %w", componentID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error getting component %s: %w", componentID, err)
	}

	return &comp, nil
}

func (r *componentRepository) UpsertComponents(ctx context.Context, comps []domain.Component) (int, error) {
	if len(comps) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO components (
			component_id, category, variant, supplier_id, weekly_demand,
			lead_time_weeks, lead_time_std_weeks, unit_cost, current_stock,
			service_level, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (component_id)
		DO UPDATE SET
			category = EXCLUDED.category,
			variant = EXCLUDED.variant,
			supplier_id = EXCLUDED.supplier_id,
			weekly_demand = EXCLUDED.weekly_demand,
			lead_time_weeks = EXCLUDED.lead_time_weeks,
			lead_time_std_weeks = EXCLUDED.lead_time_std_weeks,
			unit_cost = EXCLUDED.unit_cost,
			current_stock = EXCLUDED.current_stock,
			service_level = EXCLUDED.service_level,
			updated_at = NOW()
	`

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, comp := range comps {
			_, err := stmt.ExecContext(
				ctx,
				comp.ComponentID,
				comp.Category,
				comp.Variant,
				comp.SupplierID,
				comp.WeeklyDemand,
				comp.LeadTimeWeeks,
				comp.LeadTimeStdWeeks,
				comp.UnitCost,
				comp.CurrentStock,
				comp.ServiceLevel,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert component %s: %w", comp.ComponentID, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(comps), nil
}

func (r *componentRepository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `
		SELECT supplier_id, name, country, base_lead_weeks,
			lead_time_std_weeks, reliability
		FROM suppliers
		ORDER BY supplier_id
	`

	suppliers := make([]domain.Supplier, 0)
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *componentRepository) UpsertSuppliers(ctx context.Context, suppliers []domain.Supplier) (int, error) {
	if len(suppliers) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO suppliers (
			supplier_id, name, country, base_lead_weeks,
			lead_time_std_weeks, reliability, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (supplier_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			country = EXCLUDED.country,
			base_lead_weeks = EXCLUDED.base_lead_weeks,
			lead_time_std_weeks = EXCLUDED.lead_time_std_weeks,
			reliability = EXCLUDED.reliability,
			updated_at = NOW()
	`

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, sup := range suppliers {
			_, err := stmt.ExecContext(
				ctx,
				sup.SupplierID,
				sup.Name,
				sup.Country,
				sup.BaseLeadWeeks,
				sup.LeadTimeStdWeeks,
				sup.Reliability,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert supplier %s: %w", sup.SupplierID, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(suppliers), nil
}

func (r *componentRepository) EnsureSuppliers(ctx context.Context, suppliers []domain.Supplier) error {
	if len(suppliers) == 0 {
		return nil
	}

	query := `
		INSERT INTO suppliers (
			supplier_id, name, country, base_lead_weeks,
			lead_time_std_weeks, reliability, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (supplier_id) DO NOTHING
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, sup := range suppliers {
			_, err := stmt.ExecContext(
				ctx,
				sup.SupplierID,
				sup.Name,
				sup.Country,
				sup.BaseLeadWeeks,
				sup.LeadTimeStdWeeks,
				sup.Reliability,
			)
			if err != nil {
				return fmt.Errorf("failed to ensure supplier %s: %w", sup.SupplierID, err)
			}
		}

		return nil
	})
}

var _ repository.ComponentRepository = (*componentRepository)(nil)
