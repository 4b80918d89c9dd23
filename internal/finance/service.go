package finance

import (
	"context"
	"errors"
	"time"

	"github.com/richxcame/moto-showroom/internal/catalog"
	"github.com/richxcame/moto-showroom/pkg/cache"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/config"
	"github.com/richxcame/moto-showroom/pkg/logger"
	"github.com/richxcame/moto-showroom/pkg/tracing"
	"go.uber.org/zap"
)

const tracerName = "finance"

// PriceLookup resolves a catalog vehicle by id
type PriceLookup interface {
	Get(id string) (catalog.Vehicle, bool)
}

// Defaults are applied when a request leaves tenure or rate out
type Defaults struct {
	Months     int     `json:"months"`
	AnnualRate float64 `json:"annual_rate"`
}

// BikeQuote is a quote for a catalog vehicle
type BikeQuote struct {
	Bike           catalog.Summary `json:"bike"`
	FormattedPrice string          `json:"formatted_price"`
	Quote          *Quote          `json:"quote"`
}

// Service produces loan estimates
type Service struct {
	prices   PriceLookup
	cache    *cache.Manager
	cacheTTL time.Duration
	defaults Defaults
}

// NewService creates a finance service. cacheManager may be nil.
func NewService(prices PriceLookup, cacheManager *cache.Manager, cfg config.FinanceConfig) *Service {
	months := cfg.DefaultTenureMonth
	if months <= 0 {
		months = 36
	}
	return &Service{
		prices:   prices,
		cache:    cacheManager,
		cacheTTL: cfg.QuoteCacheTTL(),
		defaults: Defaults{Months: months, AnnualRate: cfg.DefaultAnnualRate},
	}
}

// Defaults returns the tenure and rate used when a request omits them
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// QuoteForBike prices a loan for a catalog vehicle
func (s *Service) QuoteForBike(ctx context.Context, bikeID string, downPayment float64, months int, annualRate float64) (*BikeQuote, error) {
	v, ok := s.prices.Get(bikeID)
	if !ok {
		return nil, common.NewNotFoundError("bike not found", nil)
	}

	quote, err := s.Quote(ctx, QuoteRequest{
		Price:       float64(v.Price),
		DownPayment: downPayment,
		Months:      months,
		AnnualRate:  annualRate,
	})
	if err != nil {
		return nil, err
	}

	return &BikeQuote{
		Bike:           v.Summary(),
		FormattedPrice: FormatINR(float64(v.Price)),
		Quote:          quote,
	}, nil
}

// Quote prices a loan. Results are cached by principal, rate and tenure.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.Months == 0 {
		req.Months = s.defaults.Months
	}

	// validate the raw request before anything is cached under its principal
	if _, err := Calculate(req); err != nil {
		return nil, translate(err)
	}
	principal := req.Principal
	if principal == 0 {
		principal = req.Price - req.DownPayment
	}

	var quote Quote
	err := tracing.TraceBusinessLogic(ctx, tracerName, "finance.quote",
		tracing.QuoteAttributes(principal, req.Months, req.AnnualRate),
		func(ctx context.Context) error {
			compute := func() (interface{}, error) {
				return Calculate(QuoteRequest{Principal: principal, Months: req.Months, AnnualRate: req.AnnualRate})
			}

			if s.cache == nil || s.cacheTTL <= 0 {
				q, err := compute()
				if err != nil {
					return err
				}
				quote = *q.(*Quote)
				return nil
			}

			key := cache.Keys.FinanceQuote(principal, req.AnnualRate, req.Months)
			hit, err := s.cache.GetOrSet(ctx, key, s.cacheTTL, &quote, compute)
			if err != nil {
				return err
			}
			logger.DebugContext(ctx, "finance quote", zap.String("key", key), zap.Bool("cache_hit", hit))
			return nil
		})
	if err != nil {
		return nil, translate(err)
	}

	quote.Price = round2(req.Price)
	quote.DownPayment = round2(req.DownPayment)
	return &quote, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrInvalidPrincipal),
		errors.Is(err, ErrInvalidTenure),
		errors.Is(err, ErrInvalidRate),
		errors.Is(err, ErrDownPaymentTooHigh):
		return common.NewBadRequestError(err.Error(), err)
	}
	if _, ok := common.AsAppError(err); ok {
		return err
	}
	return common.NewInternalError("failed to compute quote", err)
}
