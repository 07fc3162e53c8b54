package handlers

import (
	"net/http"
	"strconv"
	"time"

	"printshop_backend/internal/config"
	"printshop_backend/internal/services"
	"printshop_backend/internal/services/dto"
	"printshop_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the maintenance and override operations: the explicit
// file reassignment, and on-demand triggers for the GC and reconciler sweeps
// that otherwise run on worker schedules.
type AdminHandler struct {
	*BaseHandler
	links     services.FileLinkService
	cleanup   services.CleanupService
	reconcile services.ReconcileService
	cfg       *config.Config
}

func NewAdminHandler(
	base *BaseHandler,
	links services.FileLinkService,
	cleanup services.CleanupService,
	reconcile services.ReconcileService,
	cfg *config.Config,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		links:       links,
		cleanup:     cleanup,
		reconcile:   reconcile,
		cfg:         cfg,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/files/:fileId/reassign", h.ReassignFile)
	r.POST("/maintenance/gc", h.RunGarbageCollection)
	r.POST("/maintenance/reconcile", h.RunReconciliation)
}

// ReassignFile forcibly associates a file with an order, overwriting any
// existing link. This is the only path that may do so.
func (h *AdminHandler) ReassignFile(c *gin.Context) {
	var req dto.ReassignFileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.links.ReassignFile(c.Request.Context(), h.GetDB(c), c.Param("fileId"), req.OrderID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reassigned"})
}

func (h *AdminHandler) RunGarbageCollection(c *gin.Context) {
	retention := h.cfg.CleanupRetention()
	if v := c.Query("retention_minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			apperrors.HandleError(c, apperrors.ErrValidationFailed.WithDetails("retention_minutes must be a positive integer"))
			return
		}
		retention = time.Duration(minutes) * time.Minute
	}

	report, err := h.cleanup.RunGarbageCollection(c.Request.Context(), h.GetDB(c), retention)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *AdminHandler) RunReconciliation(c *gin.Context) {
	report, err := h.reconcile.RunReconciliation(c.Request.Context(), h.GetDB(c))
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	c.JSON(http.StatusOK, report)
}
