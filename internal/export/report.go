// internal/export/report.go

// Package export writes the dashboard artifacts: the component metrics
// list, the KPI summary and the reorder queue as JSON files a static
// dashboard can serve directly.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
)

// Artifact file names are stable so dashboards can hard-code fetch paths.
const (
	ComponentsFile   = "components.json"
	KPIsFile         = "kpis.json"
	ReorderQueueFile = "reorder_queue.json"
)

// Report bundles everything one export run writes.
type Report struct {
	Components   []domain.ComponentMetrics      `json:"components"`
	Summary      domain.PortfolioSummary        `json:"summary"`
	ReorderQueue []domain.ReorderRecommendation `json:"reorder_queue"`
	GeneratedAt  time.Time                      `json:"generated_at"`
}

// BuildReport computes the full dashboard payload from raw components.
func BuildReport(calc *engine.Calculator, comps []domain.Component, now time.Time) (*Report, error) {
	result, err := calc.Aggregate(comps)
	if err != nil {
		return nil, err
	}

	return &Report{
		Components:   result.Items,
		Summary:      result.Summary,
		ReorderQueue: engine.BuildReorderQueue(result.Items, now),
		GeneratedAt:  now,
	}, nil
}

type kpiArtifact struct {
	domain.PortfolioSummary
	GeneratedAt time.Time `json:"generated_at"`
}

// WriteArtifacts writes the three dashboard files concurrently and returns
// their paths.
func (r *Report) WriteArtifacts(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	artifacts := []struct {
		name    string
		payload any
	}{
		{ComponentsFile, r.Components},
		{KPIsFile, kpiArtifact{PortfolioSummary: r.Summary, GeneratedAt: r.GeneratedAt}},
		{ReorderQueueFile, r.ReorderQueue},
	}

	g, _ := errgroup.WithContext(ctx)
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		i, a := i, a
		g.Go(func() error {
			path := filepath.Join(dir, a.name)
			if err := writeJSON(path, a.payload); err != nil {
				return fmt.Errorf("write %s: %w", a.name, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paths, nil
}

func writeJSON(path string, payload any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
