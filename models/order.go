package models

import (
	"time"
)

// Supported payment gateways
const (
	GatewayPhonePe  = "PhonePe"
	GatewayRazorpay = "Razorpay"
	GatewayPayU     = "PayU"
	GatewayPaytm    = "Paytm"
	GatewayStripe   = "Stripe"
)

// SupportedGateways lists the accepted values for Order.GatewayName
var SupportedGateways = []string{
	GatewayPhonePe,
	GatewayRazorpay,
	GatewayPayU,
	GatewayPaytm,
	GatewayStripe,
}

// IsSupportedGateway checks a gateway name against the accepted set
func IsSupportedGateway(name string) bool {
	for _, g := range SupportedGateways {
		if g == name {
			return true
		}
	}
	return false
}

// StudentInfo holds the student the payment is collected for
type StudentInfo struct {
	Name  string `json:"name" binding:"required"`
	ID    string `json:"id" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Order represents one payment collection request. Orders are created once
// at payment initiation and never mutated afterwards, except for recording
// the gateway collect-request handle the first time a gateway call succeeds.
type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	SchoolID         string      `gorm:"index;not null" json:"school_id"`
	TrusteeID        string      `gorm:"not null" json:"trustee_id"`
	StudentInfo      StudentInfo `gorm:"embedded;embeddedPrefix:student_" json:"student_info"`
	GatewayName      string      `gorm:"not null" json:"gateway_name"`
	CustomOrderID    string      `gorm:"uniqueIndex;not null" json:"custom_order_id"`
	CollectRequestID string      `gorm:"index" json:"collect_request_id,omitempty"`
	OrderAmount      float64     `gorm:"not null" json:"order_amount"`
	PaymentURL       string      `json:"payment_url,omitempty"`
	CallbackURL      string      `json:"callback_url,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
