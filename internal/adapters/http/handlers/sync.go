package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotekeeper/internal/app"
)

// SyncHandler triggers an immediate reconcile with the remote quote service.
type SyncHandler struct {
	syncer *app.Syncer
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(syncer *app.Syncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// Sync handles POST /api/v1/sync. A failed pull is a 503; a failed push
// alone is reported in the body of a 200.
func (h *SyncHandler) Sync(c *gin.Context) {
	result, err := h.syncer.RunOnce(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSyncResponse(result))
}

// RegisterRoutes registers the sync route on an /api/v1 group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sync", h.Sync)
}
