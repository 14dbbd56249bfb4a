package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/invopt/internal/datagen"
	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/ingest"
	"github.com/andresuchdata/invopt/internal/repository/postgres"
)

type ctxKey string

const dbKey ctxKey = "seed-db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory for snapshot CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func newGeneratorFlags() []cli.Flag {
	defaults := datagen.DefaultParams()
	return []cli.Flag{
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "Random seed for the generator",
			Value: defaults.Seed,
		},
		&cli.IntFlag{
			Name:  "annual-vehicles",
			Usage: "Annual production volume driving component demand",
			Value: defaults.AnnualVehicles,
		},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFromContext(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not found in context")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Generate and load inventory snapshot data",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Write supplier and component snapshot CSVs from the catalog generator",
				Flags:  append([]cli.Flag{newDataDirFlag()}, newGeneratorFlags()...),
				Action: runGenerate,
			},
			{
				Name:   "load",
				Usage:  "Seed the database straight from the catalog generator",
				Flags:  append([]cli.Flag{newDBURLFlag()}, newGeneratorFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: runLoad,
			},
			{
				Name:  "import",
				Usage: "Load snapshot CSVs into the database, optionally pulling them from object storage first",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					newDataDirFlag(),
					&cli.BoolFlag{
						Name:  "from-storage",
						Usage: "Download snapshot CSVs from object storage before importing",
					},
				}, newStorageFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: runImport,
			},
			{
				Name:   "all",
				Usage:  "Generate snapshot CSVs and import them into the database",
				Flags:  append([]cli.Flag{newDBURLFlag(), newDataDirFlag()}, newGeneratorFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					// First write the snapshot files
					if err := runGenerate(c); err != nil {
						return fmt.Errorf("error generating snapshots: %w", err)
					}
					// Then import them
					if err := runImport(c); err != nil {
						return fmt.Errorf("error importing snapshots: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	params := datagen.Params{
		Seed:           c.Int64("seed"),
		AnnualVehicles: c.Int("annual-vehicles"),
	}
	dataDir := c.String("data-dir")

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure data dir %s: %w", dataDir, err)
	}

	suppliers, components := datagen.Generate(params)

	supplierPath := filepath.Join(dataDir, "suppliers.csv")
	if err := writeSupplierCSV(supplierPath, suppliers); err != nil {
		return err
	}

	componentPath := filepath.Join(dataDir, "inventory_levels.csv")
	if err := writeComponentCSV(componentPath, components); err != nil {
		return err
	}

	log.Printf("Wrote %d suppliers to %s and %d components to %s", len(suppliers), supplierPath, len(components), componentPath)
	return nil
}

func runLoad(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	params := datagen.Params{
		Seed:           c.Int64("seed"),
		AnnualVehicles: c.Int("annual-vehicles"),
	}
	suppliers, components := datagen.Generate(params)

	ctx := c.Context
	if err := applySchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	log.Println("Starting database seeding...")

	if err := seedSuppliers(ctx, tx, suppliers); err != nil {
		return err
	}
	if err := seedComponents(ctx, tx, components); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Seeded %d suppliers and %d components", len(suppliers), len(components))
	return nil
}

func runImport(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Context
	dataDir := c.String("data-dir")

	if c.Bool("from-storage") {
		downloader, err := newSnapshotDownloader(c)
		if err != nil {
			return err
		}
		paths, err := downloader.download(ctx, c.String("storage-prefix"), dataDir)
		if err != nil {
			return err
		}
		log.Printf("Downloaded %d snapshot files from object storage", len(paths))
	}

	supplierFiles, componentFiles, err := snapshotFiles(dataDir)
	if err != nil {
		return err
	}

	if err := applySchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	var supplierCount, componentCount int

	// Supplier masters go first so component foreign keys resolve.
	for _, path := range supplierFiles {
		suppliers, err := parseSupplierFile(path)
		if err != nil {
			return err
		}
		if err := seedSuppliers(ctx, tx, suppliers); err != nil {
			return err
		}
		supplierCount += len(suppliers)
	}

	for _, path := range componentFiles {
		components, err := parseComponentFile(path)
		if err != nil {
			return err
		}
		if err := ensureSuppliers(ctx, tx, ingest.SuppliersFromComponents(components)); err != nil {
			return err
		}
		if err := seedComponents(ctx, tx, components); err != nil {
			return err
		}
		componentCount += len(components)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Imported %d suppliers and %d components from %s", supplierCount, componentCount, dataDir)
	return nil
}

// snapshotFiles splits the CSV files under dir into supplier masters and
// component snapshots, each sorted by name.
func snapshotFiles(dir string) (supplierFiles, componentFiles []string, err error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list csv files in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no csv files found in %s", dir)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if strings.HasPrefix(strings.ToLower(filepath.Base(path)), "supplier") {
			supplierFiles = append(supplierFiles, path)
		} else {
			componentFiles = append(componentFiles, path)
		}
	}
	return supplierFiles, componentFiles, nil
}

func parseSupplierFile(path string) ([]domain.Supplier, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	suppliers, err := ingest.ParseSuppliers(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return suppliers, nil
}

func parseComponentFile(path string) ([]domain.Component, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	components, err := ingest.ParseComponents(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return components, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range postgres.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func seedSuppliers(ctx context.Context, tx *sql.Tx, suppliers []domain.Supplier) error {
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
			return fmt.Errorf("failed to seed supplier %s: %w", sup.SupplierID, err)
		}
	}

	return nil
}

// ensureSuppliers inserts supplier rows derived from component snapshots
// without overwriting richer rows loaded from a supplier master.
func ensureSuppliers(ctx context.Context, tx *sql.Tx, suppliers []domain.Supplier) error {
	query := `
		INSERT INTO suppliers (
			supplier_id, name, country, base_lead_weeks,
			lead_time_std_weeks, reliability, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (supplier_id) DO NOTHING
	`

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
}

func seedComponents(ctx context.Context, tx *sql.Tx, components []domain.Component) error {
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

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, comp := range components {
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
			return fmt.Errorf("failed to seed component %s: %w", comp.ComponentID, err)
		}
	}

	return nil
}
