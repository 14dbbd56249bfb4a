package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/repository"
	"github.com/andresuchdata/invopt/internal/service"
)

type memComponentRepo struct {
	comps []domain.Component
}

func (m *memComponentRepo) ListComponents(ctx context.Context, filter domain.ComponentFilter) ([]domain.Component, error) {
	return m.comps, nil
}

func (m *memComponentRepo) GetComponent(ctx context.Context, componentID string) (*domain.Component, error) {
	for _, comp := range m.comps {
		if comp.ComponentID == componentID {
			c := comp
			return &c, nil
		}
	}
	return nil, fmt.Errorf("component %s: %w", componentID, repository.ErrNotFound)
}

func (m *memComponentRepo) UpsertComponents(ctx context.Context, comps []domain.Component) (int, error) {
	return len(comps), nil
}

func (m *memComponentRepo) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return nil, nil
}

func (m *memComponentRepo) UpsertSuppliers(ctx context.Context, suppliers []domain.Supplier) (int, error) {
	return len(suppliers), nil
}

func (m *memComponentRepo) EnsureSuppliers(ctx context.Context, suppliers []domain.Supplier) error {
	return nil
}

type memRunRepo struct {
	runs map[uuid.UUID]domain.OptimizationRun
}

func (m *memRunRepo) SaveRun(ctx context.Context, run *domain.OptimizationRun) error {
	if m.runs == nil {
		m.runs = make(map[uuid.UUID]domain.OptimizationRun)
	}
	m.runs[run.ID] = *run
	return nil
}

func (m *memRunRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.OptimizationRun, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, repository.ErrNotFound)
	}
	return &run, nil
}

func (m *memRunRepo) ListRuns(ctx context.Context, limit int) ([]domain.OptimizationRun, error) {
	out := make([]domain.OptimizationRun, 0, len(m.runs))
	for _, run := range m.runs {
		out = append(out, run)
	}
	return out, nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := &memComponentRepo{comps: []domain.Component{
		{
			ComponentID: "CMP-0001", Category: "Seat Material", SupplierID: "SUP-001",
			WeeklyDemand: 100, LeadTimeWeeks: 4, UnitCost: 12.5, CurrentStock: 50,
			ServiceLevel: 0.95,
		},
		{
			ComponentID: "CMP-0002", Category: "Frame", SupplierID: "SUP-002",
			WeeklyDemand: 100, LeadTimeWeeks: 4, UnitCost: 10, CurrentStock: 900,
			ServiceLevel: 0.95,
		},
	}}

	services := &Services{
		Inventory:    service.NewInventoryService(repo, nil, nil),
		Optimization: service.NewOptimizationService(repo, &memRunRepo{}, nil),
	}

	return NewRouter(services, nil)
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_GetComponents(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/api/v1/components", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items   []domain.ComponentMetrics `json:"items"`
		Total   int                       `json:"total"`
		Summary domain.PortfolioSummary   `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Total != 2 {
		t.Errorf("expected 2 components, got %d", resp.Total)
	}
	if resp.Summary.CriticalCount != 1 || resp.Summary.OKCount != 1 {
		t.Errorf("unexpected summary counts: %+v", resp.Summary)
	}
	if resp.Items[0].SafetyStock != 83 {
		t.Errorf("expected computed safety stock 83, got %d", resp.Items[0].SafetyStock)
	}
}

func TestRouter_GetComponent_NotFound(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/api/v1/components/CMP-9999", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRouter_PortfolioSummary(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/api/v1/portfolio/summary", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary domain.PortfolioSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if summary.TotalComponents != 2 || summary.CriticalCount != 1 || summary.OKCount != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	// Only the critical component carries exposure: 50 units at $12.50.
	if summary.TotalAtRiskValue != 625 {
		t.Errorf("expected at-risk value 625, got %v", summary.TotalAtRiskValue)
	}
	if summary.TotalOrderCost != 5412.50 {
		t.Errorf("expected order cost 5412.50, got %v", summary.TotalOrderCost)
	}
}

func TestRouter_ReorderQueue(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/api/v1/portfolio/reorder-queue", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []domain.ReorderRecommendation `json:"items"`
		Total int                            `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Only the critical component needs ordering.
	if resp.Total != 1 || resp.Items[0].ComponentID != "CMP-0001" {
		t.Errorf("unexpected queue: %+v", resp.Items)
	}
}

func TestRouter_EvaluateScenario(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodPost, "/api/v1/scenario/evaluate", map[string]any{
		"demand_change_pct":     10,
		"lead_time_delta_weeks": 1,
		"service_level":         0.95,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.ScenarioPortfolioResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Errorf("expected 2 scenario items, got %d", len(resp.Items))
	}
	if resp.Baseline.TotalComponents != 2 {
		t.Errorf("expected baseline over 2 components, got %d", resp.Baseline.TotalComponents)
	}
}

func TestRouter_EvaluateScenario_BadInput(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodPost, "/api/v1/scenario/evaluate", map[string]any{
		"demand_change_pct": -150,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RunOptimizer(t *testing.T) {
	router := testRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/v1/optimizer/run", map[string]any{
		"max_budget":          20000,
		"target_avg_risk_pct": 10,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var run domain.OptimizationRun
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if run.ID == uuid.Nil {
		t.Error("expected a run id")
	}
	if len(run.Result.Steps) != 1 {
		t.Errorf("expected 1 step, got %d", len(run.Result.Steps))
	}

	got := doRequest(t, router, http.MethodGet, "/api/v1/optimizer/runs/"+run.ID.String(), nil)
	if got.Code != http.StatusOK {
		t.Fatalf("expected persisted run, got %d", got.Code)
	}
}

func TestRouter_ListRuns(t *testing.T) {
	router := testRouter()

	posted := doRequest(t, router, http.MethodPost, "/api/v1/optimizer/run", map[string]any{
		"max_budget":          20000,
		"target_avg_risk_pct": 10,
	})
	if posted.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", posted.Code, posted.Body.String())
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/optimizer/runs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Items []domain.OptimizationRun `json:"items"`
		Total int                      `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("expected the posted run to be listed, got %+v", resp)
	}
	if resp.Items[0].ID == uuid.Nil {
		t.Error("expected listed run to carry its id")
	}
}

func TestRouter_RunOptimizer_NegativeBudget(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodPost, "/api/v1/optimizer/run", map[string]any{
		"max_budget":          -100,
		"target_avg_risk_pct": 10,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GetRun_InvalidID(t *testing.T) {
	rec := doRequest(t, testRouter(), http.MethodGet, "/api/v1/optimizer/runs/not-a-uuid", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
