package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
	"github.com/binpoint/wms/internal/service/report"
)

// ReportHandler exposes movement-report generation over HTTP.
type ReportHandler struct {
	svc    *report.Service
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *report.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

// Movements handles GET /warehouses/:wid/reports/movements.
// Query: from, to (RFC 3339), skus (comma separated), order=oldest|recent.
func (h *ReportHandler) Movements(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	rep, err := h.svc.GenerateMovementReport(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	c.JSON(http.StatusOK, rep)
}

// Deliver handles POST /warehouses/:wid/reports/movements/deliver:
// generate, then push to every configured sink.
func (h *ReportHandler) Deliver(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	rep, err := h.svc.GenerateMovementReport(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("report generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}

	if err := h.svc.DeliverReport(c.Request.Context(), *rep); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "report delivery failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivered": true, "summary": rep.Summary, "warnings": rep.Warnings})
}

// Reconcile handles GET /warehouses/:wid/reports/reconciliation: replay
// against current bin quantities.
func (h *ReportHandler) Reconcile(c *gin.Context) {
	mismatches, err := h.svc.ReconcileCurrentStock(c.Request.Context(), c.Param("wid"))
	if err != nil {
		h.logger.Error("reconciliation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_sync": len(mismatches) == 0, "mismatches": mismatches})
}

func (h *ReportHandler) bindRequest(c *gin.Context) (models.MovementReportRequest, bool) {
	req := models.MovementReportRequest{
		WarehouseID: c.Param("wid"),
		OldestFirst: c.Query("order") == "oldest",
	}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return req, false
		}
		req.SinceExclusive = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return req, false
		}
		req.UntilInclusive = &t
	}
	if raw := c.Query("skus"); raw != "" {
		for _, sku := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(sku); trimmed != "" {
				req.SKUs = append(req.SKUs, trimmed)
			}
		}
	}

	return req, true
}
