package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository"
	"github.com/andresuchdata/invopt/internal/service"
)

type ScenarioHandler struct {
	service *service.InventoryService
}

func NewScenarioHandler(service *service.InventoryService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

type scenarioRequest struct {
	DemandChangePct    float64  `json:"demand_change_pct"`
	LeadTimeDeltaWeeks float64  `json:"lead_time_delta_weeks"`
	ServiceLevel       float64  `json:"service_level"`
	Categories         []string `json:"categories,omitempty"`
	SupplierIDs        []string `json:"supplier_ids,omitempty"`
}

func (r scenarioRequest) params() domain.ScenarioParams {
	return domain.ScenarioParams{
		DemandChangePct:    r.DemandChangePct,
		LeadTimeDeltaWeeks: r.LeadTimeDeltaWeeks,
		ServiceLevel:       r.ServiceLevel,
	}
}

func (r scenarioRequest) filter() domain.ComponentFilter {
	return domain.ComponentFilter{
		Categories:  r.Categories,
		SupplierIDs: r.SupplierIDs,
	}
}

// EvaluatePortfolio runs one what-if over the matching portfolio. Nothing is
// written; the response carries the scenario view next to the baseline.
func (h *ScenarioHandler) EvaluatePortfolio(c *gin.Context) {
	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario request", "details": err.Error()})
		return
	}

	result, err := h.service.EvaluateScenario(c.Request.Context(), req.filter(), req.params())
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evaluate scenario", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// EvaluateComponent runs one what-if for a single component.
func (h *ScenarioHandler) EvaluateComponent(c *gin.Context) {
	componentID := strings.TrimSpace(c.Param("id"))
	if componentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "component id is required"})
		return
	}

	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario request", "details": err.Error()})
		return
	}

	result, err := h.service.EvaluateComponentScenario(c.Request.Context(), componentID, req.params())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "component not found"})
		case errors.Is(err, engine.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to evaluate scenario", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
