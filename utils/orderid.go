package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderIDPrefix prefixes every externally visible order identifier
const OrderIDPrefix = "ORDER"

// GenerateOrderID builds a collision-resistant externally visible order
// identifier: time-based prefix plus a random suffix, e.g.
// ORDER_1700000000000_a1b2c3d4.
func GenerateOrderID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", OrderIDPrefix, time.Now().UnixMilli(), suffix)
}
