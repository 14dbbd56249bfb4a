// internal/ingest/service.go

// Package ingest loads component and supplier snapshot CSVs into the
// component store, either from local files, direct uploads or a mirrored
// Google Drive folder.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/invopt/internal/cache"
	"github.com/andresuchdata/invopt/internal/drive"
	"github.com/andresuchdata/invopt/internal/repository"
)

// ingestConcurrency bounds how many snapshot files load at once.
const ingestConcurrency = 4

type Service struct {
	repo       repository.ComponentRepository
	cache      cache.PortfolioCache
	downloader *drive.Downloader
}

// NewService wires the ingest flow. downloader may be nil when no Drive
// source is configured; Drive-backed methods then fail with a clear error.
func NewService(repo repository.ComponentRepository, portfolioCache cache.PortfolioCache, downloader *drive.Downloader) *Service {
	if portfolioCache == nil {
		portfolioCache = cache.NewNoopPortfolioCache()
	}
	return &Service{
		repo:       repo,
		cache:      portfolioCache,
		downloader: downloader,
	}
}

// IngestComponents loads a component snapshot CSV. Suppliers referenced by
// the snapshot are created on the fly when missing so foreign keys resolve
// without a supplier master file.
func (s *Service) IngestComponents(ctx context.Context, r io.Reader) (int, error) {
	n, err := s.loadComponents(ctx, r)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// IngestSuppliers loads a supplier master CSV. Rows overwrite existing
// suppliers: the master file is authoritative.
func (s *Service) IngestSuppliers(ctx context.Context, r io.Reader) (int, error) {
	n, err := s.loadSuppliers(ctx, r)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// IngestFile loads one local CSV, routed by filename: files named like
// "suppliers*.csv" load as supplier masters, everything else as component
// snapshots.
func (s *Service) IngestFile(ctx context.Context, path string) (int, error) {
	n, err := s.loadFile(ctx, path)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// IngestDir loads every CSV in a directory. Supplier masters load first so
// component snapshots never race their referenced suppliers.
func (s *Service) IngestDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no CSV files in %s", dir)
	}

	n, err := s.loadPaths(ctx, paths)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// SyncDrive mirrors the configured Drive folder locally and loads every
// downloaded snapshot.
func (s *Service) SyncDrive(ctx context.Context, opts drive.DownloadOptions) (int, error) {
	if s.downloader == nil {
		return 0, fmt.Errorf("drive source not configured")
	}

	paths, err := s.downloader.FetchFolderCSV(ctx, opts)
	if err != nil {
		return 0, fmt.Errorf("drive sync failed: %w", err)
	}
	if len(paths) == 0 {
		log.Info().Msg("drive sync found no snapshot files")
		return 0, nil
	}

	n, err := s.loadPaths(ctx, paths)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx)
	return n, nil
}

// PollDrive runs SyncDrive on a fixed interval until ctx is cancelled.
func (s *Service) PollDrive(ctx context.Context, interval time.Duration, opts drive.DownloadOptions) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("drive polling started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("drive polling stopped")
			return
		case <-ticker.C:
			n, err := s.SyncDrive(ctx, opts)
			if err != nil {
				log.Warn().Err(err).Msg("drive poll failed")
				continue
			}
			log.Info().Int("rows", n).Msg("drive poll complete")
		}
	}
}

func (s *Service) loadComponents(ctx context.Context, r io.Reader) (int, error) {
	comps, err := ParseComponents(r)
	if err != nil {
		return 0, err
	}

	if err := s.repo.EnsureSuppliers(ctx, SuppliersFromComponents(comps)); err != nil {
		return 0, fmt.Errorf("ensure suppliers: %w", err)
	}

	n, err := s.repo.UpsertComponents(ctx, comps)
	if err != nil {
		return 0, fmt.Errorf("upsert components: %w", err)
	}
	return n, nil
}

func (s *Service) loadSuppliers(ctx context.Context, r io.Reader) (int, error) {
	suppliers, err := ParseSuppliers(r)
	if err != nil {
		return 0, err
	}

	n, err := s.repo.UpsertSuppliers(ctx, suppliers)
	if err != nil {
		return 0, fmt.Errorf("upsert suppliers: %w", err)
	}
	return n, nil
}

func (s *Service) loadFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if isSupplierFile(path) {
		return s.loadSuppliers(ctx, f)
	}
	return s.loadComponents(ctx, f)
}

// loadPaths loads a batch of snapshot files: supplier masters sequentially
// first, then component snapshots with bounded concurrency.
func (s *Service) loadPaths(ctx context.Context, paths []string) (int, error) {
	var supplierPaths, componentPaths []string
	for _, p := range paths {
		if isSupplierFile(p) {
			supplierPaths = append(supplierPaths, p)
		} else {
			componentPaths = append(componentPaths, p)
		}
	}

	total := 0
	for _, p := range supplierPaths {
		n, err := s.loadFile(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("ingest %s: %w", filepath.Base(p), err)
		}
		total += n
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)

	counts := make([]int, len(componentPaths))
	for i, p := range componentPaths {
		i, p := i, p
		g.Go(func() error {
			n, err := s.loadFile(ctx, p)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", filepath.Base(p), err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate portfolio cache")
	}
}

func isSupplierFile(path string) bool {
	return strings.HasPrefix(strings.ToLower(filepath.Base(path)), "supplier")
}
