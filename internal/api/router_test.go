package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-tracker/internal/kv"
	"github.com/sells-group/lead-tracker/internal/leads"
	"github.com/sells-group/lead-tracker/internal/market"
	"github.com/sells-group/lead-tracker/internal/model"
	"github.com/sells-group/lead-tracker/internal/store"
	"github.com/sells-group/lead-tracker/internal/validate"
)

type fakeSource struct {
	companies []model.CompanyData
	err       error
}

func (f *fakeSource) FetchCompanies(context.Context) ([]model.CompanyData, error) {
	return f.companies, f.err
}

type fakeMarket struct {
	price    []market.PricePoint
	scatter  []market.ScatterPoint
	priceErr error
}

func (f *fakeMarket) PriceSeries(context.Context) ([]market.PricePoint, error) {
	return f.price, f.priceErr
}

func (f *fakeMarket) Scatter(context.Context) ([]market.ScatterPoint, error) {
	return f.scatter, nil
}

func (f *fakeMarket) Dashboard(ctx context.Context) market.Dashboard {
	d := market.Dashboard{Scatter: f.scatter}
	if f.priceErr != nil {
		d.PriceError = f.priceErr.Error()
	} else {
		d.Price = f.price
	}
	return d
}

func lakin() model.CompanyData {
	return model.CompanyData{
		Company:       "Lakin-Rosenbaum",
		Country:       "French Polynesia",
		State:         "Kentucky",
		City:          "Louisville",
		Zipcode:       "63665-7148",
		Employees:     6,
		Revenue:       5709368,
		Website:       "https://larson.com",
		SalesRep:      "Nina",
		LastContacted: "1998-11-18",
		Purchased:     true,
		Notes:         "Original entry",
	}
}

const lakinForm = `{
	"company": "Lakin-Rosenbaum",
	"country": "French Polynesia",
	"state": "Kentucky",
	"city": "Louisville",
	"zipcode": "63665-7148",
	"employees": "6",
	"revenue": 5709368,
	"website": "https://larson.com",
	"sales_rep": "Nina",
	"last_contacted": "1998-11-18",
	"purchased": true,
	"notes": "Submitted"
}`

type testEnv struct {
	handler http.Handler
	svc     *leads.Service
	source  *fakeSource
	market  *fakeMarket
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	src := &fakeSource{}
	mkt := &fakeMarket{}
	svc := leads.New(store.New(kv.NewMemory()), src)
	return &testEnv{
		handler: NewRouter(svc, mkt, WithAllowedOrigins([]string{"http://localhost:3000"})),
		svc:     svc,
		source:  src,
		market:  mkt,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])
}

func TestRequestID(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/health", "")
	_, err := uuid.Parse(rr.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	assert.Equal(t, "client-supplied", rr.Header().Get(RequestIDHeader))
}

func TestListCompanies(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Store().SetCompanies(context.Background(), []model.CompanyData{lakin()})

	rr := env.do(t, http.MethodGet, "/api/companies", "")
	require.Equal(t, http.StatusOK, rr.Code)

	state := decode[store.State](t, rr)
	assert.Equal(t, []model.CompanyData{lakin()}, state.Companies)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
}

func TestListCompanies_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/companies", "")
	assert.Contains(t, rr.Body.String(), `"companies":[]`)
}

func TestSubmitCompany_AddThenUpdate(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/companies", lakinForm)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decode[leads.SubmitResult](t, rr)
	assert.False(t, res.WasUpdated)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, 6, res.Company.Employees)

	rr = env.do(t, http.MethodPost, "/api/companies", lakinForm)
	require.Equal(t, http.StatusOK, rr.Code)
	res = decode[leads.SubmitResult](t, rr)
	assert.True(t, res.WasUpdated)
	assert.Equal(t, 0, res.Index)

	assert.Equal(t, 1, env.svc.Store().Len())
}

func TestSubmitCompany_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	body := `{"company":"","zipcode":"1234","employees":"-5","revenue":"abc","website":"not a url"}`

	rr := env.do(t, http.MethodPost, "/api/companies", body)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	resp := decode[struct {
		Errors validate.Errors `json:"errors"`
	}](t, rr)
	assert.Equal(t, validate.MsgCompanyRequired, resp.Errors.Field("company"))
	assert.Equal(t, validate.MsgZipcodeFormat, resp.Errors.Field("zipcode"))
	assert.Equal(t, validate.MsgEmployeesPositive, resp.Errors.Field("employees"))
	assert.Equal(t, validate.MsgRevenueNumber, resp.Errors.Field("revenue"))
	assert.Equal(t, validate.MsgWebsiteURL, resp.Errors.Field("website"))
	assert.Equal(t, 0, env.svc.Store().Len())
}

func TestSubmitCompany_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/companies", `{"company":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", decode[errorResponse](t, rr).Error)
}

func TestResetCompanies(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Store().SetCompanies(context.Background(), []model.CompanyData{lakin()})
	fresh := lakin()
	fresh.Company = "Fresh Co"
	fresh.Zipcode = "10001"
	fresh.City = "New York"
	env.source.companies = []model.CompanyData{fresh}

	rr := env.do(t, http.MethodPost, "/api/companies/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)
	state := decode[store.State](t, rr)
	assert.Equal(t, []model.CompanyData{fresh}, state.Companies)
}

func TestResetCompanies_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Store().SetCompanies(context.Background(), []model.CompanyData{lakin()})
	env.source.err = errors.New("failed to fetch data: 503 Service Unavailable")

	rr := env.do(t, http.MethodPost, "/api/companies/reset", "")
	require.Equal(t, http.StatusBadGateway, rr.Code)
	state := decode[store.State](t, rr)
	assert.Equal(t, []model.CompanyData{lakin()}, state.Companies)
	assert.Equal(t, "failed to fetch data: 503 Service Unavailable", state.Error)
}

func TestMarketPrice(t *testing.T) {
	env := newTestEnv(t)
	env.market.price = []market.PricePoint{{Timestamp: 1, ClosePrice: 64000.5}}

	rr := env.do(t, http.MethodGet, "/api/market/price", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"timestamp":1,"closePrice":64000.5}]}`, rr.Body.String())
}

func TestMarketPrice_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.market.priceErr = errors.New("failed to fetch Bitcoin data: 418 I'm a teapot")

	rr := env.do(t, http.MethodGet, "/api/market/price", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "failed to fetch Bitcoin data: 418 I'm a teapot", decode[errorResponse](t, rr).Error)
}

func TestMarketScatter_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/market/scatter", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[]}`, rr.Body.String())
}

func TestMarketDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.market.scatter = []market.ScatterPoint{{Volume: 10, PriceVolatility: 2.5}}
	env.market.priceErr = errors.New("down")

	rr := env.do(t, http.MethodGet, "/api/market", "")
	require.Equal(t, http.StatusOK, rr.Code)
	d := decode[market.Dashboard](t, rr)
	assert.Equal(t, "down", d.PriceError)
	assert.Len(t, d.Scatter, 1)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/companies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
