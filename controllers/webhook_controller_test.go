package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupWebhookTest wires the handler against a throwaway in-memory store.
// Each test gets its own database, named after the test so shared-cache
// connections within one test see the same data.
func setupWebhookTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderStatus{}, &models.WebhookLog{}))
	config.DB = db

	router := gin.New()
	router.POST("/api/webhook", ProcessWebhook)
	return router
}

func seedOrderWithStatus(t *testing.T, customOrderID, status string) *models.Order {
	t.Helper()

	order := &models.Order{
		SchoolID:  "SCH001",
		TrusteeID: "TR001",
		StudentInfo: models.StudentInfo{
			Name:  "Asha Verma",
			ID:    "STU042",
			Email: "asha@example.com",
		},
		GatewayName:   models.GatewayPhonePe,
		CustomOrderID: customOrderID,
		OrderAmount:   2000,
	}
	require.NoError(t, config.DB.Create(order).Error)
	require.NoError(t, config.DB.Create(&models.OrderStatus{
		CollectID:         order.ID,
		OrderAmount:       2000,
		TransactionAmount: 2000,
		Status:            status,
		ErrorMessage:      models.ErrorMessageNone,
		PaymentTime:       time.Now(),
	}).Error)
	return order
}

func postWebhook(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loadOrderStatus(t *testing.T, collectID uint) models.OrderStatus {
	t.Helper()
	var status models.OrderStatus
	require.NoError(t, config.DB.Where("collect_id = ?", collectID).First(&status).Error)
	return status
}

func loadWebhookLogs(t *testing.T) []models.WebhookLog {
	t.Helper()
	var logs []models.WebhookLog
	require.NoError(t, config.DB.Order("id").Find(&logs).Error)
	return logs
}

func successWebhookPayload(orderID string) map[string]interface{} {
	return map[string]interface{}{
		"order_info": map[string]interface{}{
			"order_id":           orderID,
			"order_amount":       float64(2000),
			"transaction_amount": float64(2200),
			"payment_mode":       "upi",
			"payemnt_details":    "success@ybl",
			"bank_reference":     "YESBNK222",
			"Payment_message":    "payment success",
			"status":             "SUCCESS",
			"payment_time":       "2024-01-15T10:30:00Z",
		},
	}
}

func TestProcessWebhookAppliesUpdateAndLogsProcessed(t *testing.T) {
	router := setupWebhookTest(t)
	order := seedOrderWithStatus(t, "ORDER_1_aaaaaaaa", models.PaymentStatusPending)

	w := postWebhook(t, router, successWebhookPayload(order.CustomOrderID))
	assert.Equal(t, http.StatusOK, w.Code)

	status := loadOrderStatus(t, order.ID)
	assert.Equal(t, models.PaymentStatusSuccess, status.Status)
	assert.Equal(t, float64(2200), status.TransactionAmount)
	assert.Equal(t, "YESBNK222", status.BankReference)

	logs := loadWebhookLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, order.CustomOrderID, logs[0].OrderID)
	assert.Equal(t, models.WebhookStatusProcessed, logs[0].Status)
	assert.Empty(t, logs[0].ErrorMessage)
	require.NotNil(t, logs[0].ProcessedAt)
	assert.JSONEq(t, string(logs[0].Payload), mustMarshal(t, successWebhookPayload(order.CustomOrderID)))
}

func TestProcessWebhookDowngradeIsProcessedNoOp(t *testing.T) {
	router := setupWebhookTest(t)
	order := seedOrderWithStatus(t, "ORDER_2_bbbbbbbb", models.PaymentStatusSuccess)

	w := postWebhook(t, router, map[string]interface{}{
		"order_info": map[string]interface{}{
			"order_id": order.CustomOrderID,
			"status":   "failed",
		},
	})

	// A stale downgrade is acknowledged, not an error.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	status := loadOrderStatus(t, order.ID)
	assert.Equal(t, models.PaymentStatusSuccess, status.Status)

	logs := loadWebhookLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, models.WebhookStatusProcessed, logs[0].Status)
}

func TestProcessWebhookRedeliveryIdempotent(t *testing.T) {
	router := setupWebhookTest(t)
	order := seedOrderWithStatus(t, "ORDER_3_cccccccc", models.PaymentStatusPending)
	payload := successWebhookPayload(order.CustomOrderID)

	first := postWebhook(t, router, payload)
	second := postWebhook(t, router, payload)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	status := loadOrderStatus(t, order.ID)
	assert.Equal(t, models.PaymentStatusSuccess, status.Status)
	assert.Equal(t, float64(2200), status.TransactionAmount)

	logs := loadWebhookLogs(t)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, models.WebhookStatusProcessed, entry.Status)
		assert.NotNil(t, entry.ProcessedAt)
	}
}

func TestProcessWebhookUnknownOrder(t *testing.T) {
	router := setupWebhookTest(t)

	w := postWebhook(t, router, map[string]interface{}{
		"order_info": map[string]interface{}{
			"order_id": "ORDER_9_missing0",
			"status":   "success",
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	logs := loadWebhookLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, "ORDER_9_missing0", logs[0].OrderID)
	assert.Equal(t, models.WebhookStatusFailed, logs[0].Status)
	assert.Equal(t, "Order not found", logs[0].ErrorMessage)
}

func TestProcessWebhookStoreErrorIsServerError(t *testing.T) {
	router := setupWebhookTest(t)

	// Break the order lookup without touching the webhook log table: the
	// failure must surface as a 500 with the real error, never as a 404.
	require.NoError(t, config.DB.Migrator().DropTable(&models.Order{}))

	w := postWebhook(t, router, map[string]interface{}{
		"order_id": "ORDER_4_dddddddd",
		"status":   "success",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := loadWebhookLogs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, models.WebhookStatusFailed, logs[0].Status)
	assert.NotEmpty(t, logs[0].ErrorMessage)
	assert.NotEqual(t, "Order not found", logs[0].ErrorMessage)
}

func TestProcessWebhookUnknownStatusStaysPending(t *testing.T) {
	router := setupWebhookTest(t)
	order := seedOrderWithStatus(t, "ORDER_5_eeeeeeee", models.PaymentStatusPending)

	w := postWebhook(t, router, map[string]interface{}{
		"order_info": map[string]interface{}{
			"order_id": order.CustomOrderID,
			"status":   "REFUNDED",
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Out-of-enum provider statuses never reach the status record.
	status := loadOrderStatus(t, order.ID)
	assert.Equal(t, models.PaymentStatusPending, status.Status)
}

func TestProcessWebhookRejectsMalformedBody(t *testing.T) {
	router := setupWebhookTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, loadWebhookLogs(t))
}

func mustMarshal(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
