package booking

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
)

// FieldsBody is the JSON body of PATCH /:id/fields
type FieldsBody struct {
	Values map[string]any `json:"values" binding:"required"`
}

// Handler handles HTTP requests for the booking wizards
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sessionCall func(c *gin.Context, kind Kind, id string) (*View, error)

// Options returns the steps and reference lists of a wizard
// GET /api/v1/{kind}/options
func (h *Handler) Options(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, err := h.service.Options(kind)
		if common.HandleServiceError(c, err, "failed to load options") {
			return
		}
		common.SuccessResponse(c, opts)
	}
}

// Create starts a session
// POST /api/v1/{kind}
func (h *Handler) Create(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.service.Create(c.Request.Context(), kind)
		if common.HandleServiceError(c, err, "failed to start booking") {
			return
		}
		common.CreatedResponse(c, view)
	}
}

// Get returns a session
// GET /api/v1/{kind}/:id
func (h *Handler) Get(kind Kind) gin.HandlerFunc {
	return h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
		return h.service.Get(c.Request.Context(), kind, id)
	})
}

// SetFields stores values on the session
// PATCH /api/v1/{kind}/:id/fields
func (h *Handler) SetFields(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body FieldsBody
		if !common.BindJSON(c, &body) {
			return
		}
		h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
			return h.service.SetFields(c.Request.Context(), kind, id, body.Values)
		})(c)
	}
}

// Advance validates the current step
// POST /api/v1/{kind}/:id/advance
func (h *Handler) Advance(kind Kind) gin.HandlerFunc {
	return h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
		return h.service.Advance(c.Request.Context(), kind, id)
	})
}

// Retreat goes back one step
// POST /api/v1/{kind}/:id/retreat
func (h *Handler) Retreat(kind Kind) gin.HandlerFunc {
	return h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
		return h.service.Retreat(c.Request.Context(), kind, id)
	})
}

// Submit hands the booking to the submitter
// POST /api/v1/{kind}/:id/submit
func (h *Handler) Submit(kind Kind) gin.HandlerFunc {
	return h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
		return h.service.Submit(c.Request.Context(), kind, id)
	})
}

// Reset starts the session over
// POST /api/v1/{kind}/:id/reset
func (h *Handler) Reset(kind Kind) gin.HandlerFunc {
	return h.session(kind, func(c *gin.Context, kind Kind, id string) (*View, error) {
		return h.service.Reset(c.Request.Context(), kind, id)
	})
}

// session runs call and writes the view. Errors that come with a view, such
// as failed validation, carry the view in the error body.
func (h *Handler) session(kind Kind, call sessionCall) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := call(c, kind, c.Param("id"))
		if err != nil {
			if appErr, ok := common.AsAppError(err); ok && view != nil {
				if appErr.Code >= 500 {
					_ = c.Error(err)
				}
				common.AppErrorResponseWithData(c, appErr, view)
				return
			}
			common.HandleServiceError(c, err, "booking request failed")
			return
		}
		common.SuccessResponse(c, view)
	}
}

// RegisterRoutes mounts both wizards. limit guards the routes that change a
// session and may be nil.
func (h *Handler) RegisterRoutes(r gin.IRouter, limit gin.HandlerFunc) {
	for _, kind := range []Kind{KindTestRide, KindService} {
		g := r.Group("/api/v1/" + string(kind))
		mutating := g
		if limit != nil {
			mutating = g.Group("", limit)
		}

		g.GET("/options", h.Options(kind))
		g.GET("/:id", h.Get(kind))

		mutating.POST("", h.Create(kind))
		mutating.PATCH("/:id/fields", h.SetFields(kind))
		mutating.POST("/:id/advance", h.Advance(kind))
		mutating.POST("/:id/retreat", h.Retreat(kind))
		mutating.POST("/:id/submit", h.Submit(kind))
		mutating.POST("/:id/reset", h.Reset(kind))
	}
}
