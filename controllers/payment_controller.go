package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/Manavkumar-21/SchoolPay/reconcile"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePaymentRequest represents the payment creation request body
type CreatePaymentRequest struct {
	SchoolID    string             `json:"school_id" binding:"required"`
	TrusteeID   string             `json:"trustee_id" binding:"required"`
	StudentInfo models.StudentInfo `json:"student_info" binding:"required"`
	GatewayName string             `json:"gateway_name" binding:"required"`
	OrderAmount float64            `json:"order_amount" binding:"required,gt=0"`
	CallbackURL string             `json:"callback_url"`
}

// POST /api/payment/create-payment
func CreatePayment(c *gin.Context) {
	utils.LogInfo("CreatePayment called")

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment creation request: %v", err)
		utils.BadRequest(c, "Invalid payment creation request", err.Error())
		return
	}

	if !models.IsSupportedGateway(req.GatewayName) {
		utils.LogError("Unsupported gateway requested: %s", req.GatewayName)
		utils.BadRequest(c, utils.ErrInvalidGateway, gin.H{"gateway_name": req.GatewayName})
		return
	}

	db := config.DB

	// The generated identifier is collision resistant, but a duplicate insert
	// is still retried with a fresh id rather than silently ignored.
	var order models.Order
	var createErr error
	for attempt := 0; attempt < utils.OrderIDRetryAttempts; attempt++ {
		order = models.Order{
			SchoolID:      req.SchoolID,
			TrusteeID:     req.TrusteeID,
			StudentInfo:   req.StudentInfo,
			GatewayName:   req.GatewayName,
			CustomOrderID: utils.GenerateOrderID(),
			OrderAmount:   req.OrderAmount,
			CallbackURL:   req.CallbackURL,
		}
		createErr = db.Create(&order).Error
		if createErr == nil {
			break
		}
		if !isDuplicateKeyError(createErr) {
			utils.LogError("Failed to create order: %v", createErr)
			utils.InternalServerError(c, "Payment creation failed", createErr.Error())
			return
		}
		utils.LogError("Order id collision on %s, regenerating", order.CustomOrderID)
	}
	if createErr != nil {
		utils.LogError("Order id collisions exhausted retries: %v", createErr)
		utils.Conflict(c, utils.ErrDuplicateEntry, createErr.Error())
		return
	}
	utils.LogInfo("Created order %s for school %s", order.CustomOrderID, order.SchoolID)

	status := models.OrderStatus{
		CollectID:         order.ID,
		OrderAmount:       req.OrderAmount,
		TransactionAmount: req.OrderAmount,
		PaymentMode:       models.PaymentModePending,
		PaymentDetails:    "Payment initiated",
		BankReference:     "N/A",
		PaymentMessage:    "Payment initiated",
		Status:            models.PaymentStatusPending,
		ErrorMessage:      models.ErrorMessageNone,
		PaymentTime:       time.Now(),
	}
	if err := db.Create(&status).Error; err != nil {
		utils.LogError("Failed to create order status for %s: %v", order.CustomOrderID, err)
		utils.InternalServerError(c, "Payment creation failed", err.Error())
		return
	}

	paymentURL := fallbackPaymentURL(order.CustomOrderID)
	collectRequestID := ""

	if client := newGatewayClient(); client != nil {
		cfg := config.AppConfig
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.GatewayTimeout)
		defer cancel()

		id, url, err := client.CreateCollectRequest(ctx, cfg.SchoolID, req.OrderAmount, req.CallbackURL)
		if err != nil {
			// Order creation still succeeds, only the payment channel degrades.
			utils.LogError("Gateway collect request failed for %s, using fallback URL: %v", order.CustomOrderID, err)
		} else {
			collectRequestID = id
			paymentURL = url
			utils.LogInfo("Gateway collect request %s created for order %s", id, order.CustomOrderID)
		}
	}

	updates := map[string]interface{}{"payment_url": paymentURL}
	if collectRequestID != "" {
		updates["collect_request_id"] = collectRequestID
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		utils.LogError("Failed to record payment URL for %s: %v", order.CustomOrderID, err)
		utils.InternalServerError(c, "Payment creation failed", err.Error())
		return
	}

	data := gin.H{
		"order_id":    order.CustomOrderID,
		"payment_url": paymentURL,
	}
	if collectRequestID != "" {
		data["collect_request_id"] = collectRequestID
	}
	utils.Created(c, utils.MsgPaymentInitiated, data)
}

// GET /api/payment/status/:customOrderId
func GetPaymentStatus(c *gin.Context) {
	customOrderID := c.Param("customOrderId")
	utils.LogInfo("GetPaymentStatus called for %s", customOrderID)

	order, err := findOrderByCustomID(customOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.LogError("Order not found: %s", customOrderID)
		utils.NotFound(c, "Order not found")
		return
	}
	if err != nil {
		utils.LogError("Order lookup failed for %s: %v", customOrderID, err)
		utils.InternalServerError(c, "Failed to get payment status", err.Error())
		return
	}

	// Poll the gateway before taking the order lock so slow outbound calls
	// never block concurrent webhook processing for the same order.
	var update *reconcile.StatusUpdate
	if order.CollectRequestID != "" {
		if client := newGatewayClient(); client != nil {
			cfg := config.AppConfig
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.GatewayTimeout)
			defer cancel()

			collectStatus, err := client.GetCollectStatus(ctx, cfg.SchoolID, order.CollectRequestID)
			if err != nil {
				// Silent fallback to the last persisted local status.
				utils.LogError("Gateway status poll failed for %s: %v", customOrderID, err)
			} else {
				normalized := reconcile.Normalize(collectStatusPayload(collectStatus))
				update = &normalized
			}
		}
	}

	unlock := reconcile.OrderLocks.Lock(order.CustomOrderID)
	defer unlock()

	var status *models.OrderStatus
	if update != nil {
		merged, applied, err := mergeOrderStatus(order.ID, *update)
		if err != nil {
			utils.LogError("Failed to merge gateway status for %s: %v", customOrderID, err)
			utils.InternalServerError(c, "Failed to get payment status", err.Error())
			return
		}
		if applied {
			utils.LogInfo("Gateway poll updated order %s to %s", customOrderID, merged.Status)
		}
		status = merged
	} else {
		var current models.OrderStatus
		err := config.DB.Where("collect_id = ?", order.ID).First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Status record not written yet: implicit pending.
			current = models.OrderStatus{
				CollectID:    order.ID,
				Status:       models.PaymentStatusPending,
				ErrorMessage: models.ErrorMessageNone,
			}
		} else if err != nil {
			utils.LogError("Failed to load order status for %s: %v", customOrderID, err)
			utils.InternalServerError(c, "Failed to get payment status", err.Error())
			return
		}
		status = &current
	}

	utils.Success(c, utils.MsgStatusRetrieved, statusResponse(order, status))
}
