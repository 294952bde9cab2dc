// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/dialfa/insight/internal/cache"
	"github.com/dialfa/insight/internal/config"
	"github.com/dialfa/insight/internal/models"
)

// fakeData implements DataSource with canned values. Set err to force every
// query to fail; calls counts fetch invocations so tests can observe cache
// hits.
type fakeData struct {
	err   error
	calls int64
}

func (f *fakeData) count() (interface{}, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeData) ExecutiveSummary(_ context.Context) (*models.ExecutiveSummary, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.ExecutiveSummary{UniqueCustomers: 42}, nil
}

func (f *fakeData) CreditRisk(_ context.Context) ([]models.CreditRiskCustomer, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.CreditRiskCustomer{}, nil
}

func (f *fakeData) CashFlowHistory(_ context.Context, _ int) ([]models.CashFlowMonth, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.CashFlowMonth{}, nil
}

func (f *fakeData) TopCustomers(_ context.Context, _ int) ([]models.TopCustomer, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.TopCustomer{}, nil
}

func (f *fakeData) AgingAnalysis(_ context.Context) ([]models.AgingBucket, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.AgingBucket{}, nil
}

func (f *fakeData) PaymentTrends(_ context.Context) ([]models.PaymentTrendMonth, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.PaymentTrendMonth{}, nil
}

func (f *fakeData) FinancialKPIs(_ context.Context) (*models.FinancialKPIs, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.FinancialKPIs{}, nil
}

func (f *fakeData) CollectedMonthly(_ context.Context) (*models.MonthlyCollections, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.MonthlyCollections{TotalPayments: 5000, CashPayments: 2000, ElectronicPayments: 3000}, nil
}

func (f *fakeData) InventorySummary(_ context.Context) (*models.InventorySummary, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.InventorySummary{}, nil
}

func (f *fakeData) TopStockValue(_ context.Context, _ int) ([]models.StockValueProduct, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.StockValueProduct{}, nil
}

func (f *fakeData) SlowMoving(_ context.Context) ([]models.SlowMovingProduct, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.SlowMovingProduct{}, nil
}

func (f *fakeData) CategoryAnalysis(_ context.Context) ([]models.CategoryShare, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.CategoryShare{}, nil
}

func (f *fakeData) ABCAnalysis(_ context.Context) ([]models.ABCProduct, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.ABCProduct{}, nil
}

func (f *fakeData) StockAlerts(_ context.Context) ([]models.StockAlert, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.StockAlert{}, nil
}

func (f *fakeData) ReorderRecommendations(_ context.Context) ([]models.ReorderRecommendation, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.ReorderRecommendation{}, nil
}

func (f *fakeData) InventoryKPIs(_ context.Context) (*models.InventoryKPIs, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.InventoryKPIs{}, nil
}

func (f *fakeData) StockValueEvolution(_ context.Context, _ int) ([]models.StockValueSnapshot, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.StockValueSnapshot{{Date: "2026-08-01", StockValue: 100000}}, nil
}

func (f *fakeData) SupplierPerformance(_ context.Context) ([]models.SupplierPerformance, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.SupplierPerformance{{SupplierName: "Acme Imports", TotalOrders: 3}}, nil
}

func (f *fakeData) SalesSummary(_ context.Context) (*models.SalesSummary, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.SalesSummary{}, nil
}

func (f *fakeData) MonthlyTrends(_ context.Context, _ int) ([]models.MonthlyTrend, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.MonthlyTrend{}, nil
}

func (f *fakeData) PerformanceByPeriod(_ context.Context, _ string) ([]models.PeriodPerformance, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.PeriodPerformance{}, nil
}

func (f *fakeData) CustomerSegmentation(_ context.Context) ([]models.CustomerSegment, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.CustomerSegment{}, nil
}

func (f *fakeData) ProductPerformance(_ context.Context, _ int) ([]models.ProductSales, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.ProductSales{}, nil
}

func (f *fakeData) SalesTopCustomers(_ context.Context, _ int) ([]models.TopCustomer, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.TopCustomer{}, nil
}

func (f *fakeData) SalesKPIs(_ context.Context) (*models.SalesKPIs, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.SalesKPIs{}, nil
}

func (f *fakeData) BillingToday(_ context.Context) (float64, error) {
	if _, err := f.count(); err != nil {
		return 0, err
	}
	return 1234.56, nil
}

func (f *fakeData) BillingMonthly(_ context.Context) (float64, error) {
	if _, err := f.count(); err != nil {
		return 0, err
	}
	return 98765.43, nil
}

func (f *fakeData) DashboardOverview(_ context.Context) (*models.DashboardOverview, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.DashboardOverview{}, nil
}

func (f *fakeData) DashboardKPIs(_ context.Context) (*models.DashboardKPIs, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.DashboardKPIs{}, nil
}

func (f *fakeData) DashboardCharts(_ context.Context) (*models.DashboardCharts, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return &models.DashboardCharts{}, nil
}

func (f *fakeData) DashboardAlerts(_ context.Context) ([]models.Alert, error) {
	if _, err := f.count(); err != nil {
		return nil, err
	}
	return []models.Alert{}, nil
}

func (f *fakeData) Health(_ context.Context) (map[string]string, bool) {
	return map[string]string{"spisa": "ok", "xerp": "ok"}, true
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.Timeout = 30 * time.Second
	cfg.Cache.Backend = "memory"
	cfg.Cache.DefaultTTL = 5 * time.Minute
	cfg.Security.AuthMode = "none"
	cfg.Security.RateLimitReqs = 1000
	cfg.Security.RateLimitWindow = time.Minute
	return cfg
}

// newTestServer builds a full router over a memory cache with auth disabled.
func newTestServer(t *testing.T, data *fakeData) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	handler := NewHandler(data, cache.NewRunner(store, cache.NewPolicy(cfg.Cache.DefaultTTL)),
		cache.NewAdmin(store), nil, nil, cfg, "test")
	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return envelope
}

func TestEnvelopeShape(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/financial/executive-summary")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	envelope := decodeEnvelope(t, resp)
	if envelope.Status != "success" {
		t.Errorf("status = %q, want success", envelope.Status)
	}
	if envelope.Data == nil {
		t.Error("data is nil")
	}
	if envelope.Error != nil {
		t.Errorf("unexpected error payload: %+v", envelope.Error)
	}
	if envelope.Metadata.Timestamp.IsZero() {
		t.Error("metadata timestamp is zero")
	}
	if envelope.Metadata.Cached {
		t.Error("first request reported cached")
	}
}

func TestSecondRequestServedFromCache(t *testing.T) {
	data := &fakeData{}
	srv := newTestServer(t, data)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/sales/summary")
		if err != nil {
			t.Fatalf("GET %d: %v", i, err)
		}
		envelope := decodeEnvelope(t, resp)
		wantCached := i == 1
		if envelope.Metadata.Cached != wantCached {
			t.Errorf("request %d: cached = %v, want %v", i, envelope.Metadata.Cached, wantCached)
		}
	}

	if calls := atomic.LoadInt64(&data.calls); calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
}

func TestDistinctParamsAreDistinctEntries(t *testing.T) {
	data := &fakeData{}
	srv := newTestServer(t, data)

	for _, url := range []string{
		"/api/financial/top-customers?limit=5",
		"/api/financial/top-customers?limit=10",
	} {
		resp, err := http.Get(srv.URL + url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		_ = resp.Body.Close()
	}

	if calls := atomic.LoadInt64(&data.calls); calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestQueryErrorIsNotCached(t *testing.T) {
	data := &fakeData{err: errors.New("connection refused")}
	srv := newTestServer(t, data)

	for i := 0; i < 2; i++ {
		resp, err := http.Get(srv.URL + "/api/inventory/summary")
		if err != nil {
			t.Fatalf("GET %d: %v", i, err)
		}
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("request %d: status = %d, want 500", i, resp.StatusCode)
		}
		envelope := decodeEnvelope(t, resp)
		if envelope.Error == nil || envelope.Error.Code != "DATABASE_ERROR" {
			t.Errorf("request %d: error = %+v, want DATABASE_ERROR", i, envelope.Error)
		}
	}

	// Both requests must have reached the database.
	if calls := atomic.LoadInt64(&data.calls); calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestValidationErrors(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	tests := []struct {
		name string
		url  string
	}{
		{"limit too large", "/api/financial/top-customers?limit=500"},
		{"limit zero", "/api/inventory/top-stock-value?limit=0"},
		{"months too large", "/api/financial/cash-flow?months=120"},
		{"evolution months zero", "/api/inventory/stock-value-evolution?months=0"},
		{"bad period", "/api/sales/performance-by-period?period=decade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.url)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			envelope := decodeEnvelope(t, resp)
			if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", envelope.Error)
			}
		})
	}
}

func TestPerformanceByPeriodDefaultsToMonth(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/sales/performance-by-period")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestPeriodicReportEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	tests := []struct {
		name string
		url  string
	}{
		{"billing monthly", "/api/sales/billing-monthly"},
		{"collected monthly", "/api/financial/collected-monthly"},
		{"stock value evolution", "/api/inventory/stock-value-evolution"},
		{"supplier performance", "/api/inventory/supplier-performance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.url)
			if err != nil {
				t.Fatalf("GET: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			envelope := decodeEnvelope(t, resp)
			if envelope.Status != "success" || envelope.Data == nil {
				t.Errorf("envelope = %+v, want success with data", envelope)
			}
		})
	}
}

func TestBillingMonthlyPayload(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/sales/billing-monthly")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", envelope.Data)
	}
	if billed, _ := data["billed_monthly"].(float64); billed != 98765.43 {
		t.Errorf("billed_monthly = %v, want 98765.43", data["billed_monthly"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshaling data: %v", err)
	}
	var health models.HealthStatus
	if err := json.Unmarshal(raw, &health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Version != "test" {
		t.Errorf("version = %q, want test", health.Version)
	}
	if health.Databases["spisa"] != "ok" || health.Databases["xerp"] != "ok" {
		t.Errorf("databases = %v", health.Databases)
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/payroll/summary")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", envelope.Error)
	}
}

func TestCacheAdminClear(t *testing.T) {
	data := &fakeData{}
	srv := newTestServer(t, data)

	// Prime the cache, clear it, then verify the next request refetches.
	if _, err := http.Get(srv.URL + "/api/sales/summary"); err != nil {
		t.Fatalf("prime: %v", err)
	}

	resp, err := http.Post(srv.URL+"/api/admin/cache/clear", "application/json", nil)
	if err != nil {
		t.Fatalf("POST clear: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/sales/summary")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Metadata.Cached {
		t.Error("request after clear served from cache")
	}
	if calls := atomic.LoadInt64(&data.calls); calls != 2 {
		t.Errorf("fetch calls = %d, want 2", calls)
	}
}

func TestCacheAdminClearModuleScoped(t *testing.T) {
	data := &fakeData{}
	srv := newTestServer(t, data)

	// Prime two modules, clear one, only the cleared module refetches.
	for _, url := range []string{"/api/sales/summary", "/api/inventory/summary"} {
		if _, err := http.Get(srv.URL + url); err != nil {
			t.Fatalf("prime %s: %v", url, err)
		}
	}

	resp, err := http.Post(srv.URL+"/api/admin/cache/clear/sales", "application/json", nil)
	if err != nil {
		t.Fatalf("POST clear module: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/inventory/summary")
	if err != nil {
		t.Fatalf("inventory refetch: %v", err)
	}
	if envelope := decodeEnvelope(t, resp); !envelope.Metadata.Cached {
		t.Error("inventory entry was invalidated by a sales clear")
	}

	resp, err = http.Get(srv.URL + "/api/sales/summary")
	if err != nil {
		t.Fatalf("sales refetch: %v", err)
	}
	if envelope := decodeEnvelope(t, resp); envelope.Metadata.Cached {
		t.Error("sales entry survived the module clear")
	}
}

func TestCacheAdminClearInvalidModule(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Post(srv.URL+"/api/admin/cache/clear/payroll", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	envelope := decodeEnvelope(t, resp)
	if envelope.Error == nil || envelope.Error.Code != "INVALID_MODULE" {
		t.Fatalf("error = %+v, want INVALID_MODULE", envelope.Error)
	}
	if !strings.Contains(envelope.Error.Message, "dashboard") {
		t.Errorf("message %q does not list the valid modules", envelope.Error.Message)
	}
}

func TestCacheAdminStats(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	// One miss then one hit.
	for i := 0; i < 2; i++ {
		if _, err := http.Get(srv.URL + "/api/sales/summary"); err != nil {
			t.Fatalf("prime %d: %v", i, err)
		}
	}

	resp, err := http.Get(srv.URL + "/api/admin/cache/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	stats, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", envelope.Data)
	}
	if stats["backend"] != "memory" {
		t.Errorf("backend = %v, want memory", stats["backend"])
	}
	if timeout, _ := stats["default_timeout"].(float64); timeout != 300 {
		t.Errorf("default_timeout = %v, want 300 seconds", stats["default_timeout"])
	}
	if hits, _ := stats["hits"].(float64); hits < 1 {
		t.Errorf("hits = %v, want >= 1", stats["hits"])
	}
	if misses, _ := stats["misses"].(float64); misses < 1 {
		t.Errorf("misses = %v, want >= 1", stats["misses"])
	}
}

func TestCacheAdminSelfTest(t *testing.T) {
	srv := newTestServer(t, &fakeData{})

	resp, err := http.Get(srv.URL + "/api/admin/cache/test")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp)
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshaling data: %v", err)
	}
	var result cache.SelfTestResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding self-test: %v", err)
	}
	if !result.Healthy || !result.WriteOK || !result.ReadOK || !result.DeleteOK {
		t.Errorf("self-test = %+v, want all OK", result)
	}
}
