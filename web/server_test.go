package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analytics-dashboard/apperrors"
	"analytics-dashboard/models"
	"analytics-dashboard/predictor"
	"analytics-dashboard/services"
	"analytics-dashboard/storage"
	"analytics-dashboard/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	data  models.Dataset
	err   error
	calls int
}

func (s *stubSource) FetchAll(context.Context) (models.Dataset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubSource) Close() error { return nil }

type stubLoader struct {
	model predictor.Model
	err   error
}

func (l stubLoader) Load() (predictor.Model, error) { return l.model, l.err }

type constModel float64

func (m constModel) Predict(rows [][]any) ([]float64, error) {
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = float64(m)
	}
	return out, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func scenario() models.Dataset {
	return models.Dataset{
		{BetDay: day("2024-03-01"), APIName: "pg", OrderType: "A", Name: "u1", OrderNumber: 2, OrderAmount: 110, ValidOrderAmount: 100, NetAmount: 90},
		{BetDay: day("2024-03-01"), APIName: "ag", OrderType: "A", Name: "u2", OrderNumber: 1, OrderAmount: 55, ValidOrderAmount: 50, NetAmount: 45},
		{BetDay: day("2024-03-02"), APIName: "pg", OrderType: "B", Name: "u1", OrderNumber: 3, OrderAmount: 35, ValidOrderAmount: 30, NetAmount: 25},
	}
}

type harness struct {
	router   *gin.Engine
	source   *stubSource
	sessions *storage.MemorySessionStore
}

func newHarness(t *testing.T, src *stubSource, loader ModelLoader) *harness {
	t.Helper()
	return newHarnessTTL(t, src, loader, time.Hour)
}

func newHarnessTTL(t *testing.T, src *stubSource, loader ModelLoader, ttl time.Duration) *harness {
	t.Helper()
	logger := utils.NewLoggerWithOptions("error", "production", &strings.Builder{})
	sessions := storage.NewMemorySessionStore(ttl)
	srv := NewServer(Options{
		Source:     src,
		Sessions:   sessions,
		Models:     loader,
		Filters:    services.NewFilterEngine(logger),
		Metrics:    services.NewMetricsService(logger),
		Tables:     services.NewTableService(logger),
		Export:     storage.NewCSVWriter(),
		Logger:     logger,
		SessionTTL: ttl,
		Now:        func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	return &harness{router: srv.Router(), source: src, sessions: sessions}
}

func defaultHarness(t *testing.T) *harness {
	return newHarness(t, &stubSource{data: scenario()}, stubLoader{model: constModel(12345.678)})
}

// client keeps the session cookie between requests.
type client struct {
	h      *harness
	cookie *http.Cookie
}

func (c *client) do(t *testing.T, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.router.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return rec
}

func (c *client) get(t *testing.T, target string) *httptest.ResponseRecorder {
	return c.do(t, http.MethodGet, target, "", "")
}

func (c *client) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(t, http.MethodPost, target, "application/x-www-form-urlencoded", form.Encode())
}

func (c *client) summary(t *testing.T) models.Summary {
	t.Helper()
	rec := c.get(t, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s models.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestHealthz(t *testing.T) {
	c := &client{h: defaultHarness(t)}
	rec := c.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRootRedirectsHome(t *testing.T) {
	c := &client{h: defaultHarness(t)}
	rec := c.get(t, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestHomeRendersFullSelection(t *testing.T) {
	h := defaultHarness(t)
	c := &client{h: h}

	rec := c.get(t, "/home")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<div class="value">2</div>`)
	assert.Contains(t, body, `<div class="value">6</div>`)
	assert.Contains(t, body, `<div class="value">180</div>`)
	assert.Contains(t, body, `<div class="value">160</div>`)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Now Shanghai Time: 2024-03-01 08:00:00")
	assert.Contains(t, body, `<option value="A" selected>`)
	assert.NotNil(t, c.cookie)
}

func TestEveryRenderRefetches(t *testing.T) {
	h := defaultHarness(t)
	c := &client{h: h}

	c.get(t, "/home")
	c.get(t, "/table")
	c.get(t, "/api/summary")
	assert.Equal(t, 3, h.source.calls)
}

func TestFiltersNarrowTheSummary(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.postForm(t, "/filters", url.Values{
		"order_type": {"A"},
		"api_name":   {"pg", "ag"},
		"return":     {"/home"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get("Location"))

	s := c.summary(t)
	assert.Equal(t, 2, s.Metrics.ActiveUsers)
	assert.Equal(t, int64(3), s.Metrics.OrderNumberTotal)
	assert.Equal(t, 150.0, s.Metrics.ValidOrderAmountTotal)
	assert.Equal(t, 135.0, s.Metrics.NetAmountTotal)
	assert.Equal(t, []models.Breakdown{{Category: "A", Value: 3}}, s.OrderNumberByType)
}

func TestSingleOrderTypeStillCharts(t *testing.T) {
	c := &client{h: defaultHarness(t)}
	c.postForm(t, "/filters", url.Values{"order_type": {"A"}, "api_name": {"pg", "ag"}})

	rec := c.get(t, "/home")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "No data for the current selection")
}

func TestEmptyFilterSelectionIsNotAnError(t *testing.T) {
	c := &client{h: defaultHarness(t)}
	c.postForm(t, "/filters", url.Values{"api_name": {"pg"}})

	s := c.summary(t)
	assert.Equal(t, models.Metrics{}, s.Metrics)
	assert.Empty(t, s.OrderNumberByType)
	assert.Empty(t, s.ValidAmountByType)

	rec := c.get(t, "/home")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data for the current selection")
}

func TestResetFiltersRestoresDefault(t *testing.T) {
	c := &client{h: defaultHarness(t)}
	c.postForm(t, "/filters", url.Values{"order_type": {"B"}, "api_name": {"pg"}})
	assert.Equal(t, 1, c.summary(t).Rows)

	rec := c.postForm(t, "/filters/reset", url.Values{"return": {"/table"}})
	assert.Equal(t, "/table", rec.Header().Get("Location"))
	assert.Equal(t, 3, c.summary(t).Rows)
}

func TestSessionsAreIsolated(t *testing.T) {
	h := defaultHarness(t)
	alice := &client{h: h}
	bob := &client{h: h}

	alice.postForm(t, "/filters", url.Values{"order_type": {"B"}, "api_name": {"pg"}})
	bob.get(t, "/home")

	assert.Equal(t, 1, alice.summary(t).Rows)
	assert.Equal(t, 3, bob.summary(t).Rows)
	assert.NotEqual(t, alice.cookie.Value, bob.cookie.Value)
	assert.Equal(t, 2, h.sessions.Size())
}

func TestCookielessAPICallsStoreNoSession(t *testing.T) {
	h := defaultHarness(t)
	for i := 0; i < 50; i++ {
		c := &client{h: h}
		c.summary(t)
		assert.Nil(t, c.cookie)
	}
	assert.Zero(t, h.sessions.Size())
}

func TestBrowsingKeepsSessionAlive(t *testing.T) {
	h := newHarnessTTL(t, &stubSource{data: scenario()}, stubLoader{model: constModel(1)}, 300*time.Millisecond)
	c := &client{h: h}
	c.postForm(t, "/filters", url.Values{"order_type": {"B"}, "api_name": {"pg"}})

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, http.StatusOK, c.get(t, "/home").Code)
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, 1, c.summary(t).Rows)
}

func TestGatewayFailuresRenderErrorPage(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"connectivity", apperrors.NewConnectivityError("fetch testing_data", errors.New("401 Unauthorized"))},
		{"schema", apperrors.NewSchemaError("rows missing columns: name")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &stubSource{err: tt.err}, stubLoader{model: constModel(1)})
			c := &client{h: h}

			rec := c.get(t, "/home")
			assert.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.err.Error())

			rec = c.get(t, "/api/summary")
			assert.Equal(t, http.StatusBadGateway, rec.Code)
			assert.Contains(t, rec.Body.String(), string(apperrors.KindOf(tt.err)))
		})
	}
}

func TestTableDefaultsToAllColumns(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.get(t, "/table")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, col := range models.Columns {
		assert.Contains(t, body, "<th>"+col+"</th>")
	}
	assert.Contains(t, body, "Statistics")
	assert.Contains(t, body, "/table.csv?columns=bet_day&amp;")
}

func TestTableColumnSelection(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.get(t, "/table?columns_set=1&columns=name")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<th>name</th>")
	assert.NotContains(t, body, "<th>bet_day</th>")
	assert.NotContains(t, body, "Statistics")
}

func TestTableCSVExport(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.get(t, "/table.csv?columns_set=1&columns=name&columns=order_type")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "name,order_type\nu1,A\nu2,A\nu1,B\n", rec.Body.String())
}

func TestBetdataPlaceholder(t *testing.T) {
	h := defaultHarness(t)
	c := &client{h: h}

	rec := c.get(t, "/betdata")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available yet")
	assert.Zero(t, h.source.calls)
}

func TestPredictFormDefaults(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.get(t, "/predict")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, predictHint)
	assert.Contains(t, body, `name="miles" value="86132"`)
	assert.Contains(t, body, `<option value="Prius" selected>`)
	assert.Contains(t, body, `<option value="NB" selected>`)
}

func TestPredictSubmitShowsAndRemembersResult(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	form := url.Values{
		"miles":       {"1000"},
		"year":        {"2010"},
		"make":        {"honda"},
		"model":       {"Civic"},
		"engine_size": {"2.0"},
		"province":    {"ON"},
	}
	rec := c.postForm(t, "/predict", form)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "The estimated car price is 12345.68$")

	rec = c.get(t, "/predict")
	body := rec.Body.String()
	assert.Contains(t, body, "The estimated car price is 12345.68$")
	assert.Contains(t, body, `name="miles" value="1000"`)
	assert.Contains(t, body, `<option value="honda" selected>`)
}

func TestPredictRejectsBadInput(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.postForm(t, "/predict", url.Values{
		"miles": {"1"}, "year": {"2010"}, "make": {"bmw"},
		"model": {"Civic"}, "engine_size": {"2.0"}, "province": {"ON"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown make")

	rec = c.postForm(t, "/predict", url.Values{
		"miles": {"1"}, "year": {"2010"}, "make": {"honda"},
		"model": {"Civic"}, "engine_size": {"0.5"}, "province": {"ON"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelLoadFailureOnlyDisablesPrediction(t *testing.T) {
	loadErr := apperrors.NewModelLoadError("open model/model.json", errors.New("no such file"))
	c := &client{h: newHarness(t, &stubSource{data: scenario()}, stubLoader{err: loadErr})}

	rec := c.get(t, "/predict")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prediction is unavailable")

	rec = c.do(t, http.MethodPost, "/api/predict", "application/json",
		`{"miles":1000,"year":2010,"make":"honda","model":"Civic","engine_size":2.0,"province":"ON"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"MODEL_LOAD"`)

	assert.Equal(t, http.StatusOK, c.get(t, "/home").Code)
	assert.Equal(t, http.StatusOK, c.get(t, "/table").Code)
}

func TestAPIPredict(t *testing.T) {
	c := &client{h: defaultHarness(t)}

	rec := c.do(t, http.MethodPost, "/api/predict", "application/json",
		`{"miles":1000,"year":2010,"make":"honda","model":"Civic","engine_size":2.0,"province":"ON"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Prediction float64 `json:"prediction"`
		Message    string  `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 12345.68, out.Prediction)
	assert.Equal(t, "The estimated car price is 12345.68$", out.Message)

	rec = c.do(t, http.MethodPost, "/api/predict", "application/json", `{"make":"honda"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"VALIDATION"`)
}

func TestReturnPath(t *testing.T) {
	assert.Equal(t, "/table?columns=name", returnPath("/table?columns=name"))
	assert.Equal(t, "/home", returnPath(""))
	assert.Equal(t, "/home", returnPath("//evil.example"))
	assert.Equal(t, "/home", returnPath("https://evil.example"))
}
