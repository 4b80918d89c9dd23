package finance

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/validation"
)

// QuoteBody is the JSON body of POST /api/v1/finance/quote
type QuoteBody struct {
	Price       float64  `json:"price" validate:"gte=0"`
	Principal   float64  `json:"principal" validate:"gte=0"`
	DownPayment float64  `json:"down_payment" validate:"gte=0"`
	Months      int      `json:"months" validate:"gte=0,lte=84"`
	AnnualRate  *float64 `json:"annual_rate" validate:"omitempty,gte=0,lte=30"`
}

// Handler handles finance HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a new finance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// BikeQuote prices a loan for one bike
// GET /api/v1/bikes/:id/finance?down_payment=&months=&rate=
func (h *Handler) BikeQuote(c *gin.Context) {
	defaults := h.service.Defaults()

	downPayment, ok := common.QueryFloat(c, "down_payment", 0)
	if !ok {
		return
	}
	months, ok := common.QueryInt(c, "months", defaults.Months)
	if !ok {
		return
	}
	rate, ok := common.QueryFloat(c, "rate", defaults.AnnualRate)
	if !ok {
		return
	}

	quote, err := h.service.QuoteForBike(c.Request.Context(), c.Param("id"), downPayment, months, rate)
	if common.HandleServiceError(c, err, "failed to compute quote") {
		return
	}

	common.SuccessResponse(c, quote)
}

// Quote prices a loan for an arbitrary amount
// POST /api/v1/finance/quote
func (h *Handler) Quote(c *gin.Context) {
	var body QuoteBody
	if !common.BindJSON(c, &body) {
		return
	}

	if err := validation.ValidateStruct(body); err != nil {
		var ve *validation.ValidationError
		if errors.As(err, &ve) {
			common.AppErrorResponse(c, common.NewValidationError("invalid quote request", ve.Errors))
			return
		}
		common.AppErrorResponse(c, common.NewBadRequestError("invalid quote request", err))
		return
	}

	rate := h.service.Defaults().AnnualRate
	if body.AnnualRate != nil {
		rate = *body.AnnualRate
	}

	quote, err := h.service.Quote(c.Request.Context(), QuoteRequest{
		Price:       body.Price,
		Principal:   body.Principal,
		DownPayment: body.DownPayment,
		Months:      body.Months,
		AnnualRate:  rate,
	})
	if common.HandleServiceError(c, err, "failed to compute quote") {
		return
	}

	common.SuccessResponse(c, quote)
}

// RegisterRoutes registers finance routes
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/v1/bikes/:id/finance", h.BikeQuote)
	r.POST("/api/v1/finance/quote", h.Quote)
}
