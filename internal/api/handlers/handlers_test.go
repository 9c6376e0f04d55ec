package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandauto/garage/internal/api/middleware"
	"github.com/grandauto/garage/internal/pkg/logger"
	"github.com/grandauto/garage/internal/repository"
	"github.com/grandauto/garage/internal/storage"
)

func init() {
	_ = logger.Init("error", "json")
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(filepath.Join(t.TempDir(), "garage-test.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := NewServer(repository.New(store))

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	api := router.Group("/api")

	api.GET("/health", server.Health)

	api.POST("/customers", server.CreateCustomer)
	api.GET("/customers", server.ListCustomers)
	api.GET("/customers/search/:query", server.SearchCustomers)
	api.GET("/customers/stats/summary", server.CustomerStats)
	api.GET("/customers/:id", server.GetCustomer)
	api.PUT("/customers/:id", server.UpdateCustomer)
	api.DELETE("/customers/:id", server.DeleteCustomer)

	api.POST("/vehicles", server.CreateVehicle)
	api.GET("/vehicles", server.ListVehicles)
	api.GET("/vehicles/customer/:customer_id", server.ListVehiclesByCustomer)
	api.GET("/vehicles/search/:query", server.SearchVehicles)
	api.GET("/vehicles/stats/summary", server.VehicleStats)
	api.GET("/vehicles/:id", server.GetVehicle)
	api.PUT("/vehicles/:id", server.UpdateVehicle)
	api.DELETE("/vehicles/:id", server.DeleteVehicle)

	api.POST("/services", server.CreateService)
	api.GET("/services", server.ListServices)
	api.GET("/services/vehicle/:vehicle_id", server.ListServicesByVehicle)
	api.GET("/services/customer/:customer_id", server.ListServicesByCustomer)
	api.GET("/services/stats/summary", server.ServiceStats)
	api.GET("/services/:id", server.GetService)
	api.PUT("/services/:id", server.UpdateService)
	api.DELETE("/services/:id", server.DeleteService)

	return router
}

func request(t *testing.T, router *gin.Engine, method, path string, payload any) (int, map[string]any) {
	t.Helper()

	var reqBody bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec.Code, body
}

func createCustomer(t *testing.T, router *gin.Engine, name, phone string) string {
	t.Helper()
	code, body := request(t, router, http.MethodPost, "/api/customers", gin.H{
		"name":  name,
		"phone": phone,
	})
	require.Equal(t, http.StatusCreated, code)
	return entityID(t, body, "customer")
}

func createVehicle(t *testing.T, router *gin.Engine, customerID, plate string) string {
	t.Helper()
	code, body := request(t, router, http.MethodPost, "/api/vehicles", gin.H{
		"customer_id":   json.Number(customerID),
		"make":          "Toyota",
		"model":         "Corolla",
		"year":          2019,
		"license_plate": plate,
	})
	require.Equal(t, http.StatusCreated, code)
	return entityID(t, body, "vehicle")
}

func createService(t *testing.T, router *gin.Engine, vehicleID string, cost any) string {
	t.Helper()
	code, body := request(t, router, http.MethodPost, "/api/services", gin.H{
		"vehicle_id":   json.Number(vehicleID),
		"service_date": "2026-07-15",
		"description":  "Brake inspection",
		"cost":         cost,
	})
	require.Equal(t, http.StatusCreated, code)
	return entityID(t, body, "service")
}

func entityID(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	entity, ok := body[key].(map[string]any)
	require.True(t, ok, "missing %q in %v", key, body)
	id, ok := entity["id"].(float64)
	require.True(t, ok, "missing id in %v", entity)
	raw, err := json.Marshal(int64(id))
	require.NoError(t, err)
	return string(raw)
}

func TestCustomerLifecycleEnvelopes(t *testing.T) {
	router := newTestRouter(t)
	id := createCustomer(t, router, "Bob Smith", "555-0202")

	code, body := request(t, router, http.MethodGet, "/api/customers", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customers retrieved successfully", body["message"])
	assert.Equal(t, float64(1), body["count"])

	code, body = request(t, router, http.MethodGet, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer retrieved successfully", body["message"])

	code, body = request(t, router, http.MethodPut, "/api/customers/"+id, gin.H{
		"name":  "Bob Smith Jr",
		"phone": "555-0203",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer updated successfully", body["message"])
	customer := body["customer"].(map[string]any)
	assert.Equal(t, "Bob Smith Jr", customer["name"])

	code, body = request(t, router, http.MethodDelete, "/api/customers/"+id, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer deleted successfully", body["message"])
	deleted := body["deletedCustomer"].(map[string]any)
	assert.Equal(t, "Bob Smith Jr", deleted["name"])
}

func TestCustomerSearchEnvelope(t *testing.T) {
	router := newTestRouter(t)
	createCustomer(t, router, "Carol Winters", "555-0300")
	createCustomer(t, router, "Dan Brooks", "555-0301")

	code, body := request(t, router, http.MethodGet, "/api/customers/search/winters", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer search completed successfully", body["message"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "winters", body["searchQuery"])
}

func TestCustomerStatsEnvelope(t *testing.T) {
	router := newTestRouter(t)
	withVehicle := createCustomer(t, router, "Eve Motors", "555-0400")
	createCustomer(t, router, "No Vehicle", "555-0401")
	createVehicle(t, router, withVehicle, "STAT-001")

	code, body := request(t, router, http.MethodGet, "/api/customers/stats/summary", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer statistics retrieved successfully", body["message"])
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalCustomers"])
	assert.Equal(t, float64(1), stats["customersWithVehicles"])
	assert.Equal(t, float64(1), stats["customersWithoutVehicles"])
}

func TestVehiclesByCustomerEcho(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router, "Fleet Owner", "555-0500")
	createVehicle(t, router, customerID, "FLEET-01")
	createVehicle(t, router, customerID, "FLEET-02")

	code, body := request(t, router, http.MethodGet, "/api/vehicles/customer/"+customerID, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer vehicles retrieved successfully", body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, customerID, jsonNumberString(body["customer_id"]))
}

func TestServiceHistoryEchoes(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router, "History Buff", "555-0600")
	vehicleID := createVehicle(t, router, customerID, "HIST-01")
	createService(t, router, vehicleID, 120.00)
	createService(t, router, vehicleID, "45.25")

	code, body := request(t, router, http.MethodGet, "/api/services/vehicle/"+vehicleID, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Vehicle service history retrieved successfully", body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, vehicleID, jsonNumberString(body["vehicle_id"]))

	code, body = request(t, router, http.MethodGet, "/api/services/customer/"+customerID, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Customer service history retrieved successfully", body["message"])
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, customerID, jsonNumberString(body["customer_id"]))
}

func TestServiceNotFoundMessage(t *testing.T) {
	router := newTestRouter(t)

	code, body := request(t, router, http.MethodGet, "/api/services/424242", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Service record not found", body["error"])

	code, body = request(t, router, http.MethodGet, "/api/services/garbage", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Service record not found", body["error"])
}

func TestServiceCostValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router, "Penny Pincher", "555-0700")
	vehicleID := createVehicle(t, router, customerID, "COST-01")

	code, body := request(t, router, http.MethodPost, "/api/services", gin.H{
		"vehicle_id":   json.Number(vehicleID),
		"service_date": "2026-07-20",
		"description":  "Free checkup",
		"cost":         "abc",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cost must be a valid positive number", body["error"])

	// Zero is a legitimate cost.
	code, body = request(t, router, http.MethodPost, "/api/services", gin.H{
		"vehicle_id":   json.Number(vehicleID),
		"service_date": "2026-07-20",
		"description":  "Warranty work",
		"cost":         "0",
	})
	assert.Equal(t, http.StatusCreated, code)
	service := body["service"].(map[string]any)
	assert.Equal(t, float64(0), service["cost"])
}

func TestHealthEnvelope(t *testing.T) {
	router := newTestRouter(t)

	code, body := request(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Grand Auto Garage API is running", body["message"])

	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

func jsonNumberString(v any) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
