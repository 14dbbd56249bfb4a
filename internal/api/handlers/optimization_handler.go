package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/engine"
	"github.com/andresuchdata/invopt/internal/repository"
	"github.com/andresuchdata/invopt/internal/service"
)

type OptimizationHandler struct {
	service *service.OptimizationService
}

func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

type optimizeRequest struct {
	MaxBudget        decimal.Decimal `json:"max_budget"`
	TargetAvgRiskPct float64         `json:"target_avg_risk_pct"`
	Categories       []string        `json:"categories,omitempty"`
	SupplierIDs      []string        `json:"supplier_ids,omitempty"`
}

// RunOptimization executes one optimizer pass and returns the persisted run.
func (h *OptimizationHandler) RunOptimization(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid optimization request", "details": err.Error()})
		return
	}

	filter := domain.ComponentFilter{
		Categories:  req.Categories,
		SupplierIDs: req.SupplierIDs,
	}
	constraints := domain.OptimizationConstraints{
		MaxBudget:        req.MaxBudget,
		TargetAvgRiskPct: req.TargetAvgRiskPct,
	}

	run, err := h.service.RunOptimization(c.Request.Context(), filter, constraints)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run optimization", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *OptimizationHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}

	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch runs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": runs,
		"total": len(runs),
	})
}

func (h *OptimizationHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}
