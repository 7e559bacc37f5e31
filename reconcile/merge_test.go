package reconcile

import (
	"testing"
	"time"

	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/stretchr/testify/assert"
)

func TestApplyKeepsPriorValuesForAbsentFields(t *testing.T) {
	paymentTime := time.Now()
	status := models.OrderStatus{
		CollectID:         1,
		OrderAmount:       2000,
		TransactionAmount: 2000,
		PaymentMode:       "upi",
		PaymentDetails:    "success@ybl",
		BankReference:     "REF1",
		PaymentMessage:    "payment success",
		Status:            models.PaymentStatusPending,
		ErrorMessage:      models.ErrorMessageNone,
	}

	Apply(&status, StatusUpdate{
		Status:       models.PaymentStatusSuccess,
		ErrorMessage: models.ErrorMessageNone,
		PaymentTime:  paymentTime,
	})

	// Absent fields keep their prior values.
	assert.Equal(t, float64(2000), status.OrderAmount)
	assert.Equal(t, float64(2000), status.TransactionAmount)
	assert.Equal(t, "upi", status.PaymentMode)
	assert.Equal(t, "success@ybl", status.PaymentDetails)
	assert.Equal(t, "REF1", status.BankReference)
	assert.Equal(t, "payment success", status.PaymentMessage)

	// Status and timestamp always update.
	assert.Equal(t, models.PaymentStatusSuccess, status.Status)
	assert.True(t, status.PaymentTime.Equal(paymentTime))
}

func TestApplyOverwritesPresentFields(t *testing.T) {
	amount := 2200.0
	status := models.OrderStatus{
		CollectID:         1,
		TransactionAmount: 2000,
		PaymentMode:       "pending",
		Status:            models.PaymentStatusPending,
	}

	Apply(&status, StatusUpdate{
		TransactionAmount: &amount,
		PaymentMode:       "card",
		BankReference:     "HDFC123",
		Status:            models.PaymentStatusSuccess,
		ErrorMessage:      models.ErrorMessageNone,
		PaymentTime:       time.Now(),
	})

	assert.Equal(t, 2200.0, status.TransactionAmount)
	assert.Equal(t, "card", status.PaymentMode)
	assert.Equal(t, "HDFC123", status.BankReference)
	assert.Equal(t, models.PaymentStatusSuccess, status.Status)
}

// Re-applying the identical update must not change the record: same values
// in, same values out.
func TestApplyIdempotent(t *testing.T) {
	amount := 2000.0
	update := StatusUpdate{
		TransactionAmount: &amount,
		PaymentMode:       "upi",
		BankReference:     "REF1",
		Status:            models.PaymentStatusSuccess,
		ErrorMessage:      models.ErrorMessageNone,
		PaymentTime:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	status := models.OrderStatus{CollectID: 1, Status: models.PaymentStatusPending}
	Apply(&status, update)
	first := status
	Apply(&status, update)

	assert.Equal(t, first, status)
}

func TestNewStatusSeedsDefaults(t *testing.T) {
	status := NewStatus(7, StatusUpdate{
		Status:       models.PaymentStatusFailed,
		ErrorMessage: "card declined",
		PaymentTime:  time.Now(),
	})

	assert.Equal(t, uint(7), status.CollectID)
	assert.Equal(t, models.PaymentStatusFailed, status.Status)
	assert.Equal(t, "card declined", status.ErrorMessage)
}
