package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/Manavkumar-21/SchoolPay/reconcile"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// POST /api/webhook
//
// Gateway status pushes arrive here. The payload is logged verbatim before
// any validation so the audit trail covers bad payloads too, then normalized
// and merged under the per-order lock. A downgrade rejected by the rank rule
// is a successful, logged no-op, not an error.
func ProcessWebhook(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError("Webhook rejected - Invalid JSON: %v", err)
		utils.BadRequest(c, "Invalid webhook payload", err.Error())
		return
	}

	orderID := reconcile.OrderIDFromPayload(payload)
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		utils.LogError("Webhook payload marshal failed: %v", err)
		utils.InternalServerError(c, "Webhook processing failed", err.Error())
		return
	}

	webhookLog := models.WebhookLog{
		OrderID: orderID,
		Payload: datatypes.JSON(rawPayload),
		Status:  models.WebhookStatusReceived,
	}
	if err := config.DB.Create(&webhookLog).Error; err != nil {
		// The audit append must land before any processing happens.
		utils.LogError("Failed to append webhook log for %s: %v", orderID, err)
		utils.InternalServerError(c, "Webhook processing failed", err.Error())
		return
	}

	order, err := findOrderByCustomID(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		finishWebhookLog(&webhookLog, models.WebhookStatusFailed, "Order not found")
		utils.LogError("Webhook processing failed - Order not found: %s", orderID)
		utils.NotFound(c, "Order not found")
		return
	}
	if err != nil {
		finishWebhookLog(&webhookLog, models.WebhookStatusFailed, err.Error())
		utils.LogError("Webhook order lookup failed for %s: %v", orderID, err)
		utils.InternalServerError(c, "Webhook processing failed", err.Error())
		return
	}

	update := reconcile.Normalize(payload)

	unlock := reconcile.OrderLocks.Lock(order.CustomOrderID)
	status, applied, mergeErr := mergeOrderStatus(order.ID, update)
	unlock()

	if mergeErr != nil {
		finishWebhookLog(&webhookLog, models.WebhookStatusFailed, mergeErr.Error())
		utils.LogError("Webhook processing failed for %s: %v", orderID, mergeErr)
		utils.InternalServerError(c, "Webhook processing failed", mergeErr.Error())
		return
	}

	// Ignored downgrades still count as processed: the webhook was valid.
	finishWebhookLog(&webhookLog, models.WebhookStatusProcessed, "")

	if applied {
		utils.LogInfo("Webhook updated order %s to %s", orderID, status.Status)
	} else {
		utils.LogInfo("Webhook for order %s ignored as stale, status stays %s", orderID, status.Status)
	}

	utils.Success(c, utils.MsgWebhookProcessed, gin.H{
		"order_id": orderID,
		"status":   status.Status,
	})
}

// finishWebhookLog records the single received -> processed/failed transition
func finishWebhookLog(webhookLog *models.WebhookLog, status, errorMessage string) {
	now := time.Now()
	webhookLog.Status = status
	webhookLog.ErrorMessage = errorMessage
	webhookLog.ProcessedAt = &now
	if err := config.DB.Save(webhookLog).Error; err != nil {
		utils.LogError("Failed to update webhook log %d: %v", webhookLog.ID, err)
	}
}
