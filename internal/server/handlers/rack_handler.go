package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/rackstructure"
	"github.com/binpoint/wms/internal/store"
)

// RackHandler adapts rack structure operations to HTTP.
type RackHandler struct {
	manager rackstructure.Manager
	logger  *zap.Logger
}

// NewRackHandler constructs the HTTP handler adapter.
func NewRackHandler(manager rackstructure.Manager, logger *zap.Logger) *RackHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RackHandler{manager: manager, logger: logger}
}

// Create handles POST /warehouses/:wid/racks.
func (h *RackHandler) Create(c *gin.Context) {
	var cfg models.RackConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Warn("invalid rack payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.manager.CreateRackWithStructure(c.Request.Context(), c.Param("wid"), cfg)
	if err != nil {
		h.respondRackError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Update handles PUT /warehouses/:wid/racks/:rid.
func (h *RackHandler) Update(c *gin.Context) {
	var cfg models.RackConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.logger.Warn("invalid rack payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.manager.UpdateRackStructure(c.Request.Context(), c.Param("wid"), c.Param("rid"), cfg)
	if err != nil {
		h.respondRackError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /warehouses/:wid/racks/:rid.
func (h *RackHandler) Delete(c *gin.Context) {
	if err := h.manager.DeleteRackStructure(c.Request.Context(), c.Param("wid"), c.Param("rid")); err != nil {
		h.respondRackError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondRackError maps domain failures to status codes. Typed errors keep
// their structured payload so callers can build actionable messages.
func (h *RackHandler) respondRackError(c *gin.Context, err error) {
	var conflict *models.RackNumberConflict
	var shrink *models.NonEmptyBinShrink
	var notEmpty *models.RackNotEmpty

	switch {
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error(), "conflict": conflict})
	case errors.As(err, &shrink):
		c.JSON(http.StatusConflict, gin.H{"error": shrink.Error(), "non_empty_bins": shrink.Bins})
	case errors.As(err, &notEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": notEmpty.Error(), "occupied_bins": notEmpty.Bins})
	case errors.Is(err, rackstructure.ErrInvalidConfig):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "warehouse or rack not found"})
	default:
		h.logger.Error("rack operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rack operation failed"})
	}
}
