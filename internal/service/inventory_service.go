package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/invopt/internal/cache"
	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository"
)

// InventoryService answers every read about the component portfolio:
// per-component metrics, portfolio rollups, reorder advice and what-if
// scenarios. Metrics are always computed fresh from stored component data;
// only the assembled portfolio result is cached.
type InventoryService struct {
	repo  repository.ComponentRepository
	cache cache.PortfolioCache
	calc  *engine.Calculator
}

func NewInventoryService(repo repository.ComponentRepository, cacheImpl cache.PortfolioCache, calc *engine.Calculator) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopPortfolioCache()
	}
	if calc == nil {
		calc = engine.NewCalculator(engine.DefaultCostParams())
	}
	return &InventoryService{repo: repo, cache: cacheImpl, calc: calc}
}

// GetPortfolio returns every matching component with computed metrics plus
// the portfolio summary. The status filter applies after computation, so a
// status-filtered summary describes only the matching band.
func (s *InventoryService) GetPortfolio(ctx context.Context, filter domain.ComponentFilter) (*domain.PortfolioResult, error) {
	if result, ok, err := s.cache.GetPortfolio(ctx, filter); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("inventory: cache get portfolio failed")
	}

	comps, err := s.repo.ListComponents(ctx, filter)
	if err != nil {
		return nil, err
	}

	result, err := s.calc.Aggregate(comps)
	if err != nil {
		return nil, err
	}

	if filter.Status.Valid() {
		items := make([]domain.ComponentMetrics, 0, len(result.Items))
		for _, item := range result.Items {
			if item.Status == filter.Status {
				items = append(items, item)
			}
		}
		result = &domain.PortfolioResult{
			Items:   items,
			Summary: engine.Summarize(items),
		}
	}

	if err := s.cache.SetPortfolio(ctx, filter, result); err != nil {
		log.Warn().Err(err).Msg("inventory: cache set portfolio failed")
	}

	return result, nil
}

// GetSummary returns only the portfolio KPIs.
func (s *InventoryService) GetSummary(ctx context.Context, filter domain.ComponentFilter) (*domain.PortfolioSummary, error) {
	result, err := s.GetPortfolio(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &result.Summary, nil
}

// GetComponent returns a single component with freshly computed metrics.
func (s *InventoryService) GetComponent(ctx context.Context, componentID string) (*domain.ComponentMetrics, error) {
	comp, err := s.repo.GetComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	item, err := s.calc.Enrich(*comp)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// GetReorderQueue returns the prioritized buyer action list for every
// matching component that sits below its coverage band.
func (s *InventoryService) GetReorderQueue(ctx context.Context, filter domain.ComponentFilter) ([]domain.ReorderRecommendation, error) {
	result, err := s.GetPortfolio(ctx, filter)
	if err != nil {
		return nil, err
	}

	return engine.BuildReorderQueue(result.Items, time.Now().UTC()), nil
}

// EvaluateScenario recomputes the matching portfolio under a what-if
// perturbation. Results are never cached or persisted; the baseline data is
// untouched.
func (s *InventoryService) EvaluateScenario(ctx context.Context, filter domain.ComponentFilter, params domain.ScenarioParams) (*domain.ScenarioPortfolioResult, error) {
	comps, err := s.repo.ListComponents(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.calc.AggregateScenario(comps, params)
}

// EvaluateComponentScenario runs a what-if for a single component.
func (s *InventoryService) EvaluateComponentScenario(ctx context.Context, componentID string, params domain.ScenarioParams) (*domain.ScenarioResult, error) {
	comp, err := s.repo.GetComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}

	result, err := s.calc.Evaluate(*comp, params)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListSuppliers returns the supplier master data.
func (s *InventoryService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}
