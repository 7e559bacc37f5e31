package reconcile

import (
	"testing"

	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		incoming string
		want     bool
	}{
		{"pending to success", models.PaymentStatusPending, models.PaymentStatusSuccess, true},
		{"pending to failed", models.PaymentStatusPending, models.PaymentStatusFailed, true},
		{"pending to cancelled", models.PaymentStatusPending, models.PaymentStatusCancelled, true},
		{"pending to pending", models.PaymentStatusPending, models.PaymentStatusPending, true},
		{"failed to success", models.PaymentStatusFailed, models.PaymentStatusSuccess, true},
		{"failed to cancelled", models.PaymentStatusFailed, models.PaymentStatusCancelled, true},
		{"cancelled to failed", models.PaymentStatusCancelled, models.PaymentStatusFailed, true},
		{"failed to pending", models.PaymentStatusFailed, models.PaymentStatusPending, false},
		{"cancelled to pending", models.PaymentStatusCancelled, models.PaymentStatusPending, false},
		{"success to failed", models.PaymentStatusSuccess, models.PaymentStatusFailed, false},
		{"success to cancelled", models.PaymentStatusSuccess, models.PaymentStatusCancelled, false},
		{"success to pending", models.PaymentStatusSuccess, models.PaymentStatusPending, false},
		{"success to success", models.PaymentStatusSuccess, models.PaymentStatusSuccess, true},
		{"unknown incoming ranks lowest", models.PaymentStatusFailed, "garbled", false},
		{"unknown current accepts anything", "garbled", models.PaymentStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.current, tt.incoming))
		})
	}
}

// Out-of-order arrival: a late failed update must not displace an earlier
// success, regardless of sequence.
func TestDecideOutOfOrderArrival(t *testing.T) {
	current := models.PaymentStatusPending
	for _, incoming := range []string{
		models.PaymentStatusFailed,
		models.PaymentStatusSuccess,
		models.PaymentStatusFailed,
	} {
		if Decide(current, incoming) {
			current = incoming
		}
	}
	assert.Equal(t, models.PaymentStatusSuccess, current)
}

func TestRankOrdering(t *testing.T) {
	assert.Less(t, Rank(models.PaymentStatusPending), Rank(models.PaymentStatusFailed))
	assert.Equal(t, Rank(models.PaymentStatusFailed), Rank(models.PaymentStatusCancelled))
	assert.Less(t, Rank(models.PaymentStatusCancelled), Rank(models.PaymentStatusSuccess))
}

func TestKnownStatus(t *testing.T) {
	for _, status := range []string{
		models.PaymentStatusPending,
		models.PaymentStatusSuccess,
		models.PaymentStatusFailed,
		models.PaymentStatusCancelled,
	} {
		assert.True(t, KnownStatus(status), status)
	}
	assert.False(t, KnownStatus("refunded"))
	assert.False(t, KnownStatus("SUCCESS"))
	assert.False(t, KnownStatus(""))
}
