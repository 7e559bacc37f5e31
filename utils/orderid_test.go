package utils

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	id := GenerateOrderID()

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, OrderIDPrefix, parts[0])

	_, err := strconv.ParseInt(parts[1], 10, 64)
	assert.NoError(t, err, "middle segment should be a millisecond timestamp")

	assert.Len(t, parts[2], 8)
}

func TestGenerateOrderIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateOrderID()
		assert.False(t, seen[id], "duplicate order id generated: %s", id)
		seen[id] = true
	}
}
