package reconcile

import (
	"strconv"
	"strings"
	"time"

	"github.com/Manavkumar-21/SchoolPay/models"
)

// StatusUpdate is a normalized status-bearing event from any of the three
// update channels (webhook push, gateway poll, redirect callback).
type StatusUpdate struct {
	OrderAmount       *float64
	TransactionAmount *float64
	PaymentMode       string
	PaymentDetails    string
	BankReference     string
	PaymentMessage    string
	Status            string
	ErrorMessage      string
	PaymentTime       time.Time
}

// Accepted source keys per target field, first match wins. Providers have
// shipped every one of these variants, including the misspelled
// "payemnt_details".
var (
	orderIDKeys           = []string{"order_id", "custom_order_id"}
	orderAmountKeys       = []string{"order_amount"}
	transactionAmountKeys = []string{"transaction_amount", "amount"}
	paymentModeKeys       = []string{"payment_mode", "payment_method"}
	paymentDetailsKeys    = []string{"payment_details", "payemnt_details"}
	bankReferenceKeys     = []string{"bank_reference", "transaction_id", "reference"}
	paymentMessageKeys    = []string{"payment_message", "Payment_message"}
	errorMessageKeys      = []string{"error_message"}
	paymentTimeKeys       = []string{"payment_time"}
)

// payloadFields returns the object carrying the status fields: webhooks wrap
// them under order_info, other channels send them flat.
func payloadFields(payload map[string]interface{}) map[string]interface{} {
	if nested, ok := payload["order_info"].(map[string]interface{}); ok {
		return nested
	}
	return payload
}

// OrderIDFromPayload extracts the order identifier as received, before any
// validation, so it can be written to the audit log even for bad payloads.
func OrderIDFromPayload(payload map[string]interface{}) string {
	return firstStringValue(payloadFields(payload), orderIDKeys)
}

// Normalize maps a loosely keyed payload into a StatusUpdate. A missing or
// unrecognized status defaults to pending, missing error message to the "NA"
// sentinel and missing payment time to now. Non-numeric amounts are treated
// as absent so the merge keeps the prior value.
func Normalize(payload map[string]interface{}) StatusUpdate {
	fields := payloadFields(payload)

	// Statuses outside the ordered set are treated as pending so a provider
	// quirk can never write an out-of-enum value into the status record.
	status := strings.ToLower(firstStringValue(fields, []string{"status"}))
	if !KnownStatus(status) {
		status = models.PaymentStatusPending
	}

	errorMessage := firstStringValue(fields, errorMessageKeys)
	if errorMessage == "" {
		errorMessage = models.ErrorMessageNone
	}

	return StatusUpdate{
		OrderAmount:       firstNumberValue(fields, orderAmountKeys),
		TransactionAmount: firstNumberValue(fields, transactionAmountKeys),
		PaymentMode:       firstStringValue(fields, paymentModeKeys),
		PaymentDetails:    firstStringValue(fields, paymentDetailsKeys),
		BankReference:     firstStringValue(fields, bankReferenceKeys),
		PaymentMessage:    firstStringValue(fields, paymentMessageKeys),
		Status:            status,
		ErrorMessage:      errorMessage,
		PaymentTime:       paymentTimeValue(fields),
	}
}

func firstStringValue(fields map[string]interface{}, keys []string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstNumberValue(fields map[string]interface{}, keys []string) *float64 {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case float64:
			value := v
			return &value
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return &parsed
			}
		}
	}
	return nil
}

func paymentTimeValue(fields map[string]interface{}) time.Time {
	raw := firstStringValue(fields, paymentTimeKeys)
	if raw != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed
			}
		}
	}
	return time.Now()
}
