package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/gateway"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/Manavkumar-21/SchoolPay/reconcile"
	"gorm.io/gorm"
)

// newGatewayClient builds a collect-API client from the loaded configuration,
// or nil when the gateway integration is unconfigured.
func newGatewayClient() *gateway.Client {
	cfg := config.AppConfig
	if cfg == nil || !cfg.GatewayConfigured() {
		return nil
	}
	return gateway.NewClient(cfg.GatewayBaseURL, cfg.PGKey, cfg.APIKey, cfg.PGSecretKey, cfg.GatewayTimeout)
}

// fallbackPaymentURL is the locally hosted payment page used whenever the
// gateway is unreachable or unconfigured. Order creation never fails on a
// gateway error; only the payment channel degrades.
func fallbackPaymentURL(customOrderID string) string {
	base := "http://localhost:8080"
	if config.AppConfig != nil && config.AppConfig.PaymentPageBase != "" {
		base = config.AppConfig.PaymentPageBase
	}
	return strings.TrimRight(base, "/") + "/pay/" + customOrderID
}

// findOrderByCustomID looks an order up by its externally visible identifier
func findOrderByCustomID(customOrderID string) (*models.Order, error) {
	var order models.Order
	if err := config.DB.Where("custom_order_id = ?", customOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// findOrderByCollectRequestID looks an order up by its gateway-side handle
func findOrderByCollectRequestID(collectRequestID string) (*models.Order, error) {
	var order models.Order
	if err := config.DB.Where("collect_request_id = ?", collectRequestID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// mergeOrderStatus loads the current status record, applies the rank rule and
// persists when the update is accepted. The caller must hold the per-order
// lock for the whole call. Returns the resulting record and whether the
// update was applied.
func mergeOrderStatus(collectID uint, update reconcile.StatusUpdate) (*models.OrderStatus, bool, error) {
	db := config.DB

	var status models.OrderStatus
	err := db.Where("collect_id = ?", collectID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := reconcile.NewStatus(collectID, update)
		if err := db.Create(created).Error; err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !reconcile.Decide(status.Status, update.Status) {
		return &status, false, nil
	}

	reconcile.Apply(&status, update)
	if err := db.Save(&status).Error; err != nil {
		return nil, false, err
	}
	return &status, true, nil
}

// collectStatusPayload turns a gateway poll result into the canonical payload
// shape so it goes through the same normalization as every other channel.
func collectStatusPayload(cs *gateway.CollectStatus) map[string]interface{} {
	payload := map[string]interface{}{
		"status":          cs.Status,
		"payment_mode":    cs.PaymentMethod,
		"bank_reference":  cs.TransactionID,
		"payment_message": cs.Message,
	}
	if cs.Amount > 0 {
		payload["transaction_amount"] = cs.Amount
	}
	return payload
}

// isDuplicateKeyError detects a unique constraint violation on insert
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

// statusResponse is the field set returned by every status-bearing endpoint
func statusResponse(order *models.Order, status *models.OrderStatus) map[string]interface{} {
	return map[string]interface{}{
		"order_id":           order.CustomOrderID,
		"status":             status.Status,
		"order_amount":       strconv.FormatFloat(status.OrderAmount, 'f', 2, 64),
		"transaction_amount": strconv.FormatFloat(status.TransactionAmount, 'f', 2, 64),
		"payment_mode":       status.PaymentMode,
		"payment_details":    status.PaymentDetails,
		"bank_reference":     status.BankReference,
		"payment_message":    status.PaymentMessage,
		"error_message":      status.ErrorMessage,
		"payment_time":       status.PaymentTime,
	}
}
