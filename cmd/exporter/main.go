package main

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/export"
	"github.com/andresuchdata/invopt/internal/ingest"
	"github.com/andresuchdata/invopt/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	defaults := engine.DefaultCostParams()

	app := &cli.App{
		Name:  "exporter",
		Usage: "Compute portfolio artifacts from a component snapshot and optionally upload them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Usage:   "Component snapshot CSV to export from",
				Value:   "./data/seeds/inventory_levels.csv",
				EnvVars: []string{"EXPORT_INPUT"},
			},
			&cli.StringFlag{
				Name:    "export-dir",
				Usage:   "Directory receiving the JSON artifacts",
				Value:   "./exports",
				EnvVars: []string{"EXPORT_DIR"},
			},
			&cli.Float64Flag{
				Name:  "ordering-cost",
				Usage: "Fixed cost per purchase order",
				Value: defaults.OrderingCost,
			},
			&cli.Float64Flag{
				Name:  "holding-rate",
				Usage: "Annual holding cost as a fraction of unit cost",
				Value: defaults.HoldingRate,
			},
			&cli.BoolFlag{
				Name:  "upload",
				Usage: "Upload the artifacts to object storage after writing them",
			},
			&cli.StringFlag{
				Name:    "storage-endpoint",
				Usage:   "Object storage endpoint",
				EnvVars: []string{"STORAGE_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "storage-access-key",
				Usage:   "Object storage access key",
				EnvVars: []string{"STORAGE_ACCESS_KEY"},
			},
			&cli.StringFlag{
				Name:    "storage-secret-key",
				Usage:   "Object storage secret key",
				EnvVars: []string{"STORAGE_SECRET_KEY"},
			},
			&cli.StringFlag{
				Name:    "storage-bucket",
				Usage:   "Bucket receiving the artifacts",
				Value:   "invopt-exports",
				EnvVars: []string{"STORAGE_BUCKET"},
			},
			&cli.StringFlag{
				Name:    "storage-region",
				Usage:   "Bucket region",
				Value:   "us-east-1",
				EnvVars: []string{"STORAGE_REGION"},
			},
			&cli.BoolFlag{
				Name:    "storage-use-ssl",
				Usage:   "Use TLS for object storage",
				Value:   true,
				EnvVars: []string{"STORAGE_USE_SSL"},
			},
			&cli.StringFlag{
				Name:    "storage-prefix",
				Usage:   "Key prefix for uploaded artifacts",
				Value:   "exports/",
				EnvVars: []string{"STORAGE_PREFIX"},
			},
		},
		Action: runExport,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runExport(c *cli.Context) error {
	input := c.String("input")

	file, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("failed to open snapshot %s: %w", input, err)
	}
	components, err := ingest.ParseComponents(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", input, err)
	}

	calc := engine.NewCalculator(engine.CostParams{
		OrderingCost: c.Float64("ordering-cost"),
		HoldingRate:  c.Float64("holding-rate"),
	})

	now := time.Now().UTC()
	report, err := export.BuildReport(calc, components, now)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	paths, err := report.WriteArtifacts(c.Context, c.String("export-dir"))
	if err != nil {
		return err
	}
	log.Printf("Wrote %d artifacts for %d components to %s", len(paths), len(components), c.String("export-dir"))

	if !c.Bool("upload") {
		return nil
	}

	client, err := storage.NewMinioClient(storage.Config{
		Endpoint:  c.String("storage-endpoint"),
		AccessKey: c.String("storage-access-key"),
		SecretKey: c.String("storage-secret-key"),
		Bucket:    c.String("storage-bucket"),
		Region:    c.String("storage-region"),
		UseSSL:    c.Bool("storage-use-ssl"),
	})
	if err != nil {
		return err
	}

	if err := client.EnsureBucket(c.Context); err != nil {
		return err
	}

	// Each run uploads under its own timestamped prefix so earlier exports
	// stay retrievable.
	runPrefix := path.Join(c.String("storage-prefix"), now.Format("20060102T150405Z"))
	for _, artifact := range paths {
		key := path.Join(runPrefix, filepath.Base(artifact))
		if err := client.UploadFile(c.Context, key, artifact); err != nil {
			return err
		}
		log.Printf("Uploaded %s", key)
	}

	return nil
}
