package reconcile

import (
	"github.com/Manavkumar-21/SchoolPay/models"
)

// statusRank is the ordinal rank used to decide whether an incoming update
// is applied: pending < failed/cancelled < success. failed and cancelled
// share a rank and may overwrite each other.
var statusRank = map[string]int{
	models.PaymentStatusPending:   0,
	models.PaymentStatusFailed:    1,
	models.PaymentStatusCancelled: 1,
	models.PaymentStatusSuccess:   2,
}

// Rank returns the ordinal rank of a status. Unknown statuses rank lowest.
func Rank(status string) int {
	return statusRank[status]
}

// KnownStatus reports whether status is one of the ordered payment states.
// Anything else must never be persisted.
func KnownStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// Decide reports whether an incoming status may replace the current one.
// success is terminal: once reached, only another success (an idempotent
// re-delivery) is accepted. Equal ranks are accepted so that re-delivered
// updates merge as clean no-ops.
func Decide(current, incoming string) bool {
	if current == models.PaymentStatusSuccess && incoming != models.PaymentStatusSuccess {
		return false
	}
	return Rank(incoming) >= Rank(current)
}
