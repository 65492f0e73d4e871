package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tourism-platform/internal/repository"
	"tourism-platform/internal/services"
	"tourism-platform/pkg/logging"
	"tourism-platform/pkg/metrics"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

type testServer struct {
	handler http.Handler
	metrics *metrics.Collector
}

func newTestServer(t *testing.T, accountsHealth error) *testServer {
	t.Helper()

	dir := filepath.Join("..", "..", "testdata")
	data, err := repository.LoadDataset(context.Background(), repository.DatasetPaths{
		States: filepath.Join(dir, "states.csv"),
		Cities: filepath.Join(dir, "cities.csv"),
		Risk:   filepath.Join(dir, "risk.csv"),
	}, logging.NewNop(), nil)
	require.NoError(t, err)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Query().Get("q"), "Panaji") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"name":"Panaji","main":{"temp":30.04,"feels_like":34.2,"humidity":70},"weather":[{"description":"haze"}],"wind":{"speed":2.1}}`))
	}))
	t.Cleanup(provider.Close)

	reg := prometheus.NewRegistry()
	m := metrics.NewCollectorWithRegistry("test", reg)
	logger := logging.NewNop()

	weather := services.NewWeatherService(services.WeatherOptions{
		APIKey:      "k",
		BaseURL:     provider.URL,
		CountryCode: "IN",
		Timeout:     2 * time.Second,
		Attempts:    1,
	}, nil, logger, m)
	accounts := services.NewAccountService(repository.NewMemoryAccountRepository(), bcrypt.MinCost, logger, m)

	handler := NewRouter(RouterConfig{
		Tourism: NewTourismHandler(
			services.NewCatalogService(data, logger, m),
			services.NewDiscoveryService(data, logger, m),
			services.NewCompareService(data, logger, m),
			services.NewTrendService(data, logger, m),
			services.NewClusterService(data, logger, m),
			logger, m,
		),
		Account:        NewAccountHandler(accounts, logger, m),
		Weather:        NewWeatherHandler(weather, logger, m),
		System:         NewSystemHandler(data, fakeHealth{err: accountsHealth}, logger, m),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:         logger,
		Metrics:        m,
	})
	return &testServer{handler: handler, metrics: m}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestStateRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/states", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, decode[[]string](t, rec), 7)

	rec = srv.do(t, http.MethodGet, "/states/goa/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Panaji", decode[map[string]interface{}](t, rec)["capital"])

	rec = srv.do(t, http.MethodGet, "/states/Himachal%20Pradesh/tourism_trends", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4000, decode[map[string]int](t, rec)["2025"])
}

func TestStateNotFoundCarriesSuggestions(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/states/Keralla", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "State not found", body["error"])
	assert.Equal(t, "not_found", body["kind"])
	assert.Equal(t, float64(404), body["code"])
	assert.Equal(t, []interface{}{"Kerala"}, body["suggestions"])
}

func TestSoftEndpointsNeverFail(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/states/Sikkim/risk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	risk := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(0), risk["risk_index"])
	assert.Equal(t, map[string]interface{}{}, risk["risks"])
	assert.Equal(t, "Not specified", risk["insurance_available"])

	rec = srv.do(t, http.MethodGet, "/states/Atlantis/cities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/states/Atlantis/cities/Nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchPlaces(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/search_places?category=Heritage&max_risk=0.2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	places := decode[[]map[string]interface{}](t, rec)
	require.Len(t, places, 2)
	assert.Equal(t, "Old Goa", places[0]["city_name"])

	rec = srv.do(t, http.MethodGet, "/search_places?category=Desert", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"No places found matching criteria."}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/search_places?min_rating=high", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommend(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/recommend", `{"interests":["Beach"],"max_risk":5,"min_rating":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[services.RecommendResult](t, rec)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, "Calangute", body.Recommendations[0]["city_name"])

	rec = srv.do(t, http.MethodPost, "/recommend", `{"interests":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON input", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodGet, "/recommend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]interface{}](t, rec), "example")
}

func TestCompareRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/compare/states?state1=Goa", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide state1 and state2 query params.", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodPost, "/compare/states", `{"state1":"Goa","state2":"Rajasthan"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cmp := decode[map[string]map[string]interface{}](t, rec)
	assert.Equal(t, "Jaipur", cmp["top_city"]["Rajasthan"])

	rec = srv.do(t, http.MethodGet, "/compare/cities?state1=Goa&city1=Panaji&state2=Rajasthan&city2=Jaipur", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cmp = decode[map[string]map[string]interface{}](t, rec)
	assert.Equal(t, 4.8, cmp["tourist_rating"]["Jaipur, Rajasthan"])

	rec = srv.do(t, http.MethodGet, "/compare/cities?state1=Goa&city1=Panaji", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/predict_trend/Goa", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]interface{}](t, rec)["category_predictions"], "Beach")

	rec = srv.do(t, http.MethodGet, "/predict_trend/Uttar%20Pradesh/Heritage", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient data for prediction", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodGet, "/cluster_states", "")
	require.Equal(t, http.StatusOK, rec.Code)
	clusters := decode[map[string]interface{}](t, rec)
	assert.Equal(t, float64(4), clusters["total_clusters"])
	assert.Len(t, clusters["cluster_summary"], 6)

	rec = srv.do(t, http.MethodGet, "/interests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decode[map[string]interface{}](t, rec)["status"])
}

func TestAccountFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/register", `{"username":"asha","email":"asha@example.com","password":"pw","interests":["Beach"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User registered successfully."}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/register", `{"username":"ravi","email":"asha@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/register", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/login", `{"username":"asha","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodPost, "/login", `{"username":"asha","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Login successful","username":"asha"}`, rec.Body.String())

	rec = srv.do(t, http.MethodPut, "/user/asha/interests", `{"interests":["Heritage"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/user/asha/interests", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"asha","interests":["Heritage"]}`, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/user/asha/interests", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "'interests' key required in JSON body", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodPost, "/user/asha/interests", "")
	assert.Equal(t, "Missing JSON body with interests", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodGet, "/user/ravi/interests", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestWeatherRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/weather/state/goa", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"state": "Goa",
		"representative_city": "Panaji",
		"temperature": 30,
		"feels_like": 34.2,
		"humidity": 70,
		"condition": "Haze",
		"wind_speed": 2.1
	}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/weather/city/Atlantis", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Weather data not found", body["error"])
	assert.Contains(t, body, "details")
}

func TestSystemRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"message":"Welcome to Tourism Risk Dashboard API"}`, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, map[string]interface{}{"states": 7.0, "cities": 14.0, "risk": 3.0}, health["datasets"])

	rec = srv.do(t, http.MethodGet, "/api/docs/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]interface{}](t, rec)["paths"], "/recommend")

	rec = srv.do(t, http.MethodGet, "/api/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	srv.do(t, http.MethodGet, "/states", "")
	rec = srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_api_requests_total{endpoint="/states",method="GET",status="200"}`)
}

func TestHealthDegradedWhenAccountsDown(t *testing.T) {
	srv := newTestServer(t, errors.New("connection refused"))

	rec := srv.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", decode[map[string]interface{}](t, rec)["status"])
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[map[string]interface{}](t, rec)["error"])

	rec = srv.do(t, http.MethodDelete, "/states", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decode[map[string]interface{}](t, rec)["error"])
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodGet, "/states", "")
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/states", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestRecoverMiddleware(t *testing.T) {
	h := Recover(logging.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "Internal server error", body["error"])
	assert.Contains(t, body["message"], "boom")
}
