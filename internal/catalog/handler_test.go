package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type listResponse struct {
	Success bool      `json:"success"`
	Data    []Vehicle `json:"data"`
	Meta    struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type detailResponse struct {
	Success bool       `json:"success"`
	Data    DetailView `json:"data"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(policy LookupPolicy) *gin.Engine {
	r := gin.New()
	NewHandler(NewService(DefaultStore(), policy)).RegisterRoutes(r)
	return r
}

func perform(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_List(t *testing.T) {
	r := setupRouter(LookupStrict)

	w := perform(r, "/api/v1/bikes?category=sport&sort=price-low")

	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.Total)
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "cbr500r", resp.Data[0].ID)
	assert.Equal(t, "cbr1000rr", resp.Data[2].ID)
}

func TestHandler_ListSearchSeed(t *testing.T) {
	r := setupRouter(LookupStrict)

	w := perform(r, "/api/v1/bikes?search=fireblade")

	require.Equal(t, http.StatusOK, w.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "cbr1000rr", resp.Data[0].ID)
}

func TestHandler_ListBadCriteria(t *testing.T) {
	r := setupRouter(LookupStrict)

	for _, target := range []string{
		"/api/v1/bikes?sort=random",
		"/api/v1/bikes?category=trucks",
		"/api/v1/bikes?price_min=10&price_max=5",
	} {
		w := perform(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestHandler_CategoriesAndFeatures(t *testing.T) {
	r := setupRouter(LookupStrict)

	w := perform(r, "/api/v1/bikes/categories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"All Motorcycles"`)

	w = perform(r, "/api/v1/bikes/features")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Quick Shifter"`)
}

func TestHandler_GetDetail(t *testing.T) {
	r := setupRouter(LookupStrict)

	w := perform(r, "/api/v1/bikes/cbr1000rr?color=2&expanded=true")

	require.Equal(t, http.StatusOK, w.Code)
	var resp detailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cbr1000rr", resp.Data.ID)
	require.NotNil(t, resp.Data.SelectedColor)
	assert.Equal(t, "Pearl Blue", resp.Data.SelectedColor.Name)
	assert.Equal(t, resp.Data.Description, resp.Data.VisibleText)
}

func TestHandler_GetDetailPolicies(t *testing.T) {
	w := perform(setupRouter(LookupStrict), "/api/v1/bikes/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(setupRouter(LookupFallback), "/api/v1/bikes/unknown")
	require.Equal(t, http.StatusOK, w.Code)
	var resp detailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Fallback)
	assert.Equal(t, SampleVehicleID, resp.Data.ID)
}

func TestHandler_GetDetailBadQuery(t *testing.T) {
	r := setupRouter(LookupStrict)

	assert.Equal(t, http.StatusBadRequest, perform(r, "/api/v1/bikes/cbr1000rr?color=red").Code)
	assert.Equal(t, http.StatusBadRequest, perform(r, "/api/v1/bikes/cbr1000rr?expanded=maybe").Code)
}
