package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/invopt/internal/domain"
	"github.com/andresuchdata/invopt/internal/repository"
	"github.com/andresuchdata/invopt/internal/service"
)

type InventoryHandler struct {
	service *service.InventoryService
}

func NewInventoryHandler(service *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func parseComponentFilter(c *gin.Context) domain.ComponentFilter {
	var filter domain.ComponentFilter

	filter.Categories = parseStringList(c, "categories")
	filter.SupplierIDs = parseStringList(c, "supplier_ids")

	if status, ok := domain.ParseStockStatus(c.Query("status")); ok {
		filter.Status = status
	}

	return filter
}

// parseStringList supports both repeated params and comma-separated values:
//
//	?categories=Mirrors&categories=Handrails
//	?categories=Mirrors,Handrails
func parseStringList(c *gin.Context, param string) []string {
	raw := c.QueryArray(param)
	if len(raw) == 0 {
		if single := strings.TrimSpace(c.Query(param)); single != "" {
			raw = []string{single}
		}
	}

	var values []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}

	return values
}

func (h *InventoryHandler) GetComponents(c *gin.Context) {
	filter := parseComponentFilter(c)

	result, err := h.service.GetPortfolio(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch components", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   result.Items,
		"total":   len(result.Items),
		"summary": result.Summary,
	})
}

func (h *InventoryHandler) GetComponent(c *gin.Context) {
	componentID := strings.TrimSpace(c.Param("id"))
	if componentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "component id is required"})
		return
	}

	item, err := h.service.GetComponent(c.Request.Context(), componentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "component not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch component", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) GetPortfolioSummary(c *gin.Context) {
	filter := parseComponentFilter(c)

	summary, err := h.service.GetSummary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch portfolio summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *InventoryHandler) GetReorderQueue(c *gin.Context) {
	filter := parseComponentFilter(c)

	queue, err := h.service.GetReorderQueue(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reorder queue", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": queue,
		"total": len(queue),
	})
}

func (h *InventoryHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch suppliers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, suppliers)
}
