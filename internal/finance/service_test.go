package finance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/richxcame/moto-showroom/internal/catalog"
	"github.com/richxcame/moto-showroom/pkg/cache"
	"github.com/richxcame/moto-showroom/pkg/common"
	"github.com/richxcame/moto-showroom/pkg/config"
	redisclient "github.com/richxcame/moto-showroom/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func financeConfig() config.FinanceConfig {
	return config.FinanceConfig{DefaultAnnualRate: 9.5, DefaultTenureMonth: 36, QuoteCacheMinutes: 15}
}

func TestService_QuoteForBike(t *testing.T) {
	svc := NewService(catalog.DefaultStore(), nil, financeConfig())

	bq, err := svc.QuoteForBike(context.Background(), "cbr1000rr", 200000, 36, 9.5)

	require.NoError(t, err)
	assert.Equal(t, "cbr1000rr", bq.Bike.ID)
	assert.Equal(t, "₹18,00,000", bq.FormattedPrice)
	assert.Equal(t, 1800000.0, bq.Quote.Price)
	assert.Equal(t, 200000.0, bq.Quote.DownPayment)
	assert.Equal(t, 1600000.0, bq.Quote.Principal)
	assert.Equal(t, 36, bq.Quote.Months)
	assert.Greater(t, bq.Quote.TotalInterest, 0.0)
}

func TestService_QuoteForBikeUnknown(t *testing.T) {
	svc := NewService(catalog.DefaultStore(), nil, financeConfig())

	_, err := svc.QuoteForBike(context.Background(), "vespa", 0, 36, 9.5)

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestService_QuoteDefaultsTenure(t *testing.T) {
	svc := NewService(catalog.DefaultStore(), nil, financeConfig())

	q, err := svc.Quote(context.Background(), QuoteRequest{Principal: 100000, AnnualRate: 0})

	require.NoError(t, err)
	assert.Equal(t, 36, q.Months)
	assert.Equal(t, Defaults{Months: 36, AnnualRate: 9.5}, svc.Defaults())
}

func TestService_QuoteInvalidInputIsBadRequest(t *testing.T) {
	svc := NewService(catalog.DefaultStore(), nil, financeConfig())

	_, err := svc.Quote(context.Background(), QuoteRequest{Price: 1000, DownPayment: 1000, Months: 12})

	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
	assert.ErrorIs(t, err, ErrDownPaymentTooHigh)
}

func TestService_QuoteCacheMissStoresResult(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewService(catalog.DefaultStore(), cache.NewManager(redisclient.Wrap(db)), financeConfig())

	key := cache.Keys.FinanceQuote(200000, 0, 24)
	expected, err := Calculate(QuoteRequest{Principal: 200000, Months: 24})
	require.NoError(t, err)
	raw, err := json.Marshal(expected)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, string(raw), 15*time.Minute).SetVal("OK")

	q, err := svc.Quote(context.Background(), QuoteRequest{Price: 250000, DownPayment: 50000, Months: 24})

	require.NoError(t, err)
	assert.Equal(t, 8333.33, q.MonthlyPayment)
	assert.Equal(t, 250000.0, q.Price)
	assert.Equal(t, 50000.0, q.DownPayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_QuoteCacheHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewService(catalog.DefaultStore(), cache.NewManager(redisclient.Wrap(db)), financeConfig())

	key := cache.Keys.FinanceQuote(100000, 12, 12)
	cached := Quote{Principal: 100000, Months: 12, AnnualRate: 12, MonthlyPayment: 1}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)
	mock.ExpectGet(key).SetVal(string(raw))

	q, err := svc.Quote(context.Background(), QuoteRequest{Principal: 100000, Months: 12, AnnualRate: 12})

	require.NoError(t, err)
	assert.Equal(t, 1.0, q.MonthlyPayment, "cached value is served")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_QuoteCacheErrorFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewService(catalog.DefaultStore(), cache.NewManager(redisclient.Wrap(db)), financeConfig())

	key := cache.Keys.FinanceQuote(100000, 12, 12)
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))

	q, err := svc.Quote(context.Background(), QuoteRequest{Principal: 100000, Months: 12, AnnualRate: 12})

	require.NoError(t, err)
	assert.InDelta(t, 8884.88, q.MonthlyPayment, 0.01)
}
