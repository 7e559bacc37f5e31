package reconcile

import (
	"github.com/Manavkumar-21/SchoolPay/models"
)

// Apply merges an accepted update into the status record field by field.
// Absent or empty update fields keep the prior value; status and payment
// time always update.
func Apply(status *models.OrderStatus, update StatusUpdate) {
	if update.OrderAmount != nil {
		status.OrderAmount = *update.OrderAmount
	}
	if update.TransactionAmount != nil {
		status.TransactionAmount = *update.TransactionAmount
	}
	if update.PaymentMode != "" {
		status.PaymentMode = update.PaymentMode
	}
	if update.PaymentDetails != "" {
		status.PaymentDetails = update.PaymentDetails
	}
	if update.BankReference != "" {
		status.BankReference = update.BankReference
	}
	if update.PaymentMessage != "" {
		status.PaymentMessage = update.PaymentMessage
	}
	if update.ErrorMessage != "" {
		status.ErrorMessage = update.ErrorMessage
	}

	status.Status = update.Status
	status.PaymentTime = update.PaymentTime
}

// NewStatus seeds a status record for an order whose settlement record does
// not exist yet, created on first status-bearing event.
func NewStatus(collectID uint, update StatusUpdate) *models.OrderStatus {
	status := &models.OrderStatus{
		CollectID:    collectID,
		Status:       models.PaymentStatusPending,
		ErrorMessage: models.ErrorMessageNone,
	}
	Apply(status, update)
	return status
}
