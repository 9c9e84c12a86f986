package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/coursebridge/backend/internal/application/access"
	"github.com/coursebridge/backend/internal/application/duplication"
	"github.com/coursebridge/backend/internal/application/listing"
	"github.com/coursebridge/backend/internal/infrastructure/telemetry"
	"github.com/coursebridge/backend/internal/interfaces/http/dto"
	"github.com/coursebridge/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Duplicator copies an admin product into the caller's catalog
type Duplicator interface {
	Duplicate(ctx context.Context, req access.RequestContext, productID int64) (*duplication.Result, error)
}

// Lister renders one page of duplicable products
type Lister interface {
	Fetch(ctx context.Context, req access.RequestContext, rawPage string) (*listing.Fragment, error)
}

// AjaxRequest is the form posted by the vendor dashboard. ProductID and
// Page stay strings so malformed values reach the services, which apply the
// gates in order before looking at them.
type AjaxRequest struct {
	Action    string `form:"action" binding:"required"`
	Nonce     string `form:"nonce"`
	ProductID string `form:"product_id"`
	Page      string `form:"page"`
}

// AjaxHandler dispatches dashboard actions posted to a single endpoint
type AjaxHandler struct {
	BaseHandler
	duplicator Duplicator
	lister     Lister
}

// NewAjaxHandler creates a new ajax handler
func NewAjaxHandler(duplicator Duplicator, lister Lister) *AjaxHandler {
	return &AjaxHandler{
		duplicator: duplicator,
		lister:     lister,
	}
}

// Dispatch godoc
// @Summary      Dashboard action
// @Description  Runs duplicate_admin_product (product_id) or fetch_products_lists (page). Every action needs a nonce from the dashboard bootstrap.
// @Tags         dashboard
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        action      formData string true  "Action name" Enums(duplicate_admin_product, fetch_products_lists)
// @Param        nonce       formData string true  "Action nonce"
// @Param        product_id  formData int    false "Product to duplicate"
// @Param        page        formData int    false "Listing page, defaults to 1"
// @Success      200 {object} APIResponse[DuplicateData]
// @Success      200 {object} APIResponse[ListData]
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /ajax [post]
func (h *AjaxHandler) Dispatch(c *gin.Context) {
	var req AjaxRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	action := strings.TrimSpace(req.Action)
	c.Set(middleware.AjaxActionKey, action)

	labels := map[string]string{telemetry.ProfilingLabelAction: action}
	telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
		c.Request = c.Request.WithContext(ctx)

		switch action {
		case access.ActionDuplicate:
			h.duplicate(c, req)
		case access.ActionFetchList:
			h.fetchList(c, req)
		default:
			h.Error(c, dto.ErrCodeUnknownAction, "Unknown action")
		}
	})
}

func (h *AjaxHandler) duplicate(c *gin.Context, req AjaxRequest) {
	// an unparsable id becomes 0, which the service reports as NOT_FOUND
	// once the nonce and role gates have passed
	productID, _ := strconv.ParseInt(strings.TrimSpace(req.ProductID), 10, 64)

	result, err := h.duplicator.Duplicate(c.Request.Context(), requestContext(c, req.Nonce), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *AjaxHandler) fetchList(c *gin.Context, req AjaxRequest) {
	fragment, err := h.lister.Fetch(c.Request.Context(), requestContext(c, req.Nonce), req.Page)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fragment)
}
