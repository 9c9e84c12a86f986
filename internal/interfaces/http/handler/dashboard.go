package handler

import (
	"context"

	"github.com/coursebridge/backend/internal/application/access"
	"github.com/gin-gonic/gin"
)

// Bootstrapper issues the dashboard's ajax URL and action nonces
type Bootstrapper interface {
	Bootstrap(ctx context.Context, req access.RequestContext) (*access.Bootstrap, error)
}

// DashboardHandler serves the vendor dashboard bootstrap
type DashboardHandler struct {
	BaseHandler
	dashboard Bootstrapper
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard Bootstrapper) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Bootstrap godoc
// @Summary      Vendor dashboard bootstrap
// @Description  Returns the ajax endpoint and one nonce per dashboard action for the signed-in vendor
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=access.Bootstrap}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /vendor/dashboard [get]
func (h *DashboardHandler) Bootstrap(c *gin.Context) {
	result, err := h.dashboard.Bootstrap(c.Request.Context(), requestContext(c, ""))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
