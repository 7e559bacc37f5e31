package models

import (
	"time"
)

// Payment status constants, ordered pending < failed/cancelled < success
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Payment mode constants
const (
	PaymentModeUPI        = "upi"
	PaymentModeCard       = "card"
	PaymentModeNetbanking = "netbanking"
	PaymentModeWallet     = "wallet"
	PaymentModePending    = "pending"
)

// ErrorMessageNone is the sentinel for "no error reported"
const ErrorMessageNone = "NA"

// OrderStatus is the mutable settlement record for exactly one Order. It is
// created lazily and updated in place; it is never deleted.
type OrderStatus struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CollectID         uint      `gorm:"uniqueIndex;not null" json:"collect_id"`
	OrderAmount       float64   `json:"order_amount"`
	TransactionAmount float64   `json:"transaction_amount"`
	PaymentMode       string    `json:"payment_mode"`
	PaymentDetails    string    `json:"payment_details"`
	BankReference     string    `json:"bank_reference"`
	PaymentMessage    string    `json:"payment_message"`
	Status            string    `gorm:"index;default:pending" json:"status"`
	ErrorMessage      string    `gorm:"default:NA" json:"error_message"`
	PaymentTime       time.Time `json:"payment_time"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
