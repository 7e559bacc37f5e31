package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Manavkumar-21/SchoolPay/reconcile"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/payment/callback
//
// Synchronous variant of webhook ingestion used when the gateway redirects
// the payer back after checkout. Resolves the order by the gateway-side
// collect-request id, applies the same rank rule, then either redirects to
// the order's stored callback URL or answers with a JSON acknowledgment.
// This channel does not write to the webhook log.
func PaymentCallback(c *gin.Context) {
	collectRequestID := c.Query("collect_request_id")
	if collectRequestID == "" {
		utils.BadRequest(c, "collect_request_id is required", nil)
		return
	}

	order, err := findOrderByCollectRequestID(collectRequestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Callback for unknown collect request: %s", collectRequestID)
		utils.NotFound(c, "Order not found")
		return
	}
	if err != nil {
		utils.LogError("Callback order lookup failed for %s: %v", collectRequestID, err)
		utils.InternalServerError(c, "Callback processing failed", err.Error())
		return
	}

	payload := map[string]interface{}{
		"status":         c.Query("status"),
		"amount":         c.Query("amount"),
		"payment_method": c.Query("payment_method"),
		"transaction_id": c.Query("transaction_id"),
	}
	update := reconcile.Normalize(payload)

	unlock := reconcile.OrderLocks.Lock(order.CustomOrderID)
	status, applied, mergeErr := mergeOrderStatus(order.ID, update)
	unlock()

	if mergeErr != nil {
		utils.LogError("Callback processing failed for %s: %v", order.CustomOrderID, mergeErr)
		utils.InternalServerError(c, "Callback processing failed", mergeErr.Error())
		return
	}

	if applied {
		utils.LogInfo("Callback updated order %s to %s", order.CustomOrderID, status.Status)
	}

	if order.CallbackURL != "" {
		redirectTo, err := url.Parse(order.CallbackURL)
		if err != nil {
			utils.LogError("Stored callback URL unparsable for %s: %v", order.CustomOrderID, err)
			utils.Success(c, utils.MsgCallbackProcessed, gin.H{
				"order_id": order.CustomOrderID,
				"status":   status.Status,
			})
			return
		}
		query := redirectTo.Query()
		query.Set("order_id", order.CustomOrderID)
		query.Set("status", status.Status)
		redirectTo.RawQuery = query.Encode()

		c.Redirect(http.StatusFound, redirectTo.String())
		return
	}

	utils.Success(c, utils.MsgCallbackProcessed, gin.H{
		"order_id": order.CustomOrderID,
		"status":   status.Status,
	})
}
