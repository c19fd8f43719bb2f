package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendor-service/internal/auth"
	"vendor-service/internal/service"
	"vendor-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  *gin.Engine
	store   *testutil.MemoryStore
	vendorKeys *testutil.MemoryIdempotency
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := testutil.NewMemoryStore()
	vendorKeys := testutil.NewMemoryIdempotency()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := service.NewAuthService(st, tokens)
	require.NoError(t, authService.EnsureUser(context.Background(), "admin", "admin-pass"))

	handler := NewHandler(Services{
		Vendors:     service.NewVendorService(st, vendorKeys, nil),
		Orders:      service.NewPurchaseOrderService(st, st, testutil.NewMemoryIdempotency(), nil),
		Performance: service.NewPerformanceService(st, st, nil),
		History:     service.NewHistoricalPerformanceService(st),
		Auth:        authService,
	}, tokens, st)

	router := gin.New()
	handler.SetupRoutes(router)

	ts := &testServer{router: router, store: st, vendorKeys: vendorKeys}

	w := ts.do(t, http.MethodPost, "/api/v1/token", map[string]string{"username": "admin", "password": "admin-pass"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	ts.token = resp.Token

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

var vendorBody = map[string]string{
	"name":            "Acme Supplies",
	"contact_details": "ops@acme.test",
	"address":         "1 Main St",
	"vendor_code":     "V1",
}

func (ts *testServer) createVendor(t *testing.T) int64 {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/vendors", vendorBody, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var v struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &v)
	return v.ID
}

func purchaseOrderBody(vendorID int64, number string) map[string]interface{} {
	return map[string]interface{}{
		"po_number":     number,
		"vendor":        vendorID,
		"order_date":    "2024-03-01T09:00:00Z",
		"delivery_date": "2024-03-06T09:00:00Z",
		"items":         []map[string]interface{}{{"sku": "A-1", "qty": 10}},
		"quantity":      10,
		"issue_date":    "2024-03-01T09:00:00Z",
	}
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/ready", nil, nil).Code)

	ts.store.PingErr = testutil.ErrUnavailable
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/ready", nil, nil).Code)
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", nil, map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = ts.do(t, http.MethodGet, "/health", nil, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/token", map[string]string{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.token = ""
	w = ts.do(t, http.MethodGet, "/api/v1/vendors", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/vendors", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVendorEndpoints(t *testing.T) {
	ts := newTestServer(t)

	id := ts.createVendor(t)

	w := ts.do(t, http.MethodPost, "/api/v1/vendors", vendorBody, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate vendor_code")

	w = ts.do(t, http.MethodPost, "/api/v1/vendors", map[string]string{"name": "Only a name"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/v1/vendors/%d", id)

	w = ts.do(t, http.MethodPut, path, map[string]string{"address": "2 Side St"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]interface{}
	decode(t, w, &updated)
	assert.Equal(t, "2 Side St", updated["address"])
	assert.Equal(t, "Acme Supplies", updated["name"])

	var list []map[string]interface{}
	decode(t, ts.do(t, http.MethodGet, "/api/v1/vendors", nil, nil), &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/vendors/abc", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/vendors/999", nil, nil).Code)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, path, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, nil, nil).Code)
}

func TestCreateVendor_IdempotencyKeyHeader(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"Idempotency-Key": "retry-1"}

	first := ts.do(t, http.MethodPost, "/api/v1/vendors", vendorBody, headers)
	require.Equal(t, http.StatusCreated, first.Code)
	second := ts.do(t, http.MethodPost, "/api/v1/vendors", vendorBody, headers)
	require.Equal(t, http.StatusCreated, second.Code)

	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCreateVendor_IdempotencyKeyInProgress(t *testing.T) {
	ts := newTestServer(t)

	// another request holds the key and has not finished yet
	_, _, err := ts.vendorKeys.ReserveIdempotencyKey(context.Background(), "vendor", "retry-2")
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/api/v1/vendors", vendorBody, map[string]string{"Idempotency-Key": "retry-2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	list := ts.do(t, http.MethodGet, "/api/v1/vendors", nil, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var vendors []map[string]interface{}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &vendors))
	assert.Empty(t, vendors)
}

func TestPurchaseOrderLifecycle(t *testing.T) {
	ts := newTestServer(t)
	vendorID := ts.createVendor(t)

	w := ts.do(t, http.MethodPost, "/api/v1/purchase_orders", purchaseOrderBody(vendorID, "PO1"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var po map[string]interface{}
	decode(t, w, &po)
	assert.Equal(t, "pending", po["status"])
	assert.Nil(t, po["acknowledgment"])
	path := fmt.Sprintf("/api/v1/purchase_orders/%d", int64(po["id"].(float64)))

	w = ts.do(t, http.MethodPost, "/api/v1/purchase_orders", purchaseOrderBody(999, "PO2"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/purchase_orders/999/acknowledge", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPost, path+"/acknowledge", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"acknowledged"}`, w.Body.String())

	decode(t, ts.do(t, http.MethodGet, path, nil, nil), &po)
	assert.NotNil(t, po["acknowledgment"])

	var list []map[string]interface{}
	decode(t, ts.do(t, http.MethodGet, "/api/v1/purchase_orders?acknowledged=true", nil, nil), &list)
	assert.Len(t, list, 1)
	decode(t, ts.do(t, http.MethodGet, "/api/v1/purchase_orders?acknowledged=false", nil, nil), &list)
	assert.Len(t, list, 0)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/v1/purchase_orders?status=shipped", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/v1/purchase_orders?vendor=x", nil, nil).Code)

	w = ts.do(t, http.MethodPut, path, map[string]interface{}{"status": "completed", "quality_rating": 4}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPut, path, map[string]interface{}{"status": "pending"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var metrics map[string]float64
	w = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/vendors/%d/performance", vendorID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &metrics)
	assert.Equal(t, 4.0, metrics["quality_rating_avg"])
	assert.Equal(t, 1.0, metrics["fulfillment_rate"])
	assert.Contains(t, metrics, "on_time_delivery_rate")
	assert.Contains(t, metrics, "average_response_time")

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/v1/vendors/999/performance", nil, nil).Code)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, path, nil, nil).Code)
}

func TestHistoricalPerformanceEndpoints(t *testing.T) {
	ts := newTestServer(t)
	vendorID := ts.createVendor(t)

	body := map[string]interface{}{
		"vendor":                vendorID,
		"date":                  "2024-03-01T00:00:00Z",
		"on_time_delivery_rate": 0.9,
		"quality_rating_avg":    4.1,
		"average_response_time": 30,
		"fulfillment_rate":      0.75,
	}

	w := ts.do(t, http.MethodPost, "/api/v1/historical_performances", body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list []map[string]interface{}
	decode(t, ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/historical_performances?vendor=%d", vendorID), nil, nil), &list)
	assert.Len(t, list, 1)
	decode(t, ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/historical_performances?vendor=%d", vendorID+100), nil, nil), &list)
	assert.Len(t, list, 0)

	delete(body, "fulfillment_rate")
	w = ts.do(t, http.MethodPost, "/api/v1/historical_performances", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
