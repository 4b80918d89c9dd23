package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
)

// Handler handles HTTP requests for the catalog
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List returns the filtered listing
// GET /api/v1/bikes
func (h *Handler) List(c *gin.Context) {
	criteria, err := CriteriaFromQuery(c.Request.URL.Query())
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError(err.Error(), err))
		return
	}

	result := h.service.List(c.Request.Context(), criteria)
	common.SuccessResponseWithMeta(c, result.Vehicles, &common.Meta{
		Total: result.Total,
		Query: result.Criteria,
	})
}

// Categories returns the category tabs
// GET /api/v1/bikes/categories
func (h *Handler) Categories(c *gin.Context) {
	common.SuccessResponse(c, h.service.Categories())
}

// Features returns the feature checklist
// GET /api/v1/bikes/features
func (h *Handler) Features(c *gin.Context) {
	common.SuccessResponse(c, h.service.Features())
}

// Get returns a bike detail page
// GET /api/v1/bikes/:id
func (h *Handler) Get(c *gin.Context) {
	color, ok := common.QueryInt(c, "color", 0)
	if !ok {
		return
	}
	image, ok := common.QueryInt(c, "image", 0)
	if !ok {
		return
	}
	expanded := false
	if raw := c.Query("expanded"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid expanded")
			return
		}
		expanded = value
	}

	state := DetailState{SelectedColor: color, SelectedImage: image, DescriptionExpanded: expanded}
	view, err := h.service.GetDetail(c.Request.Context(), c.Param("id"), state)
	if common.HandleServiceError(c, err, "failed to get bike") {
		return
	}

	common.SuccessResponse(c, view)
}

// RegisterRoutes registers catalog routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	bikes := r.Group("/api/v1/bikes")
	{
		bikes.GET("", h.List)
		bikes.GET("/categories", h.Categories)
		bikes.GET("/features", h.Features)
		bikes.GET("/:id", h.Get)
	}
}
