package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token, err := SignClaims(Claims{
		"school_id":    "SCH001",
		"amount":       "2000",
		"callback_url": "https://school.example.com/done",
	}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "SCH001", claims["school_id"])
	assert.Equal(t, "2000", claims["amount"])
	assert.Equal(t, "https://school.example.com/done", claims["callback_url"])
}

func TestVerifyExpiredToken(t *testing.T) {
	token, err := SignClaims(Claims{"school_id": "SCH001"}, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := SignClaims(Claims{"school_id": "SCH001"}, "secret", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	_, err := VerifyToken("not.a.token", "secret")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = VerifyToken("", "secret")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestMatchClaims(t *testing.T) {
	token, err := SignClaims(Claims{
		"school_id": "SCH001",
		"amount":    2000,
	}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)

	// Numbers survive the JSON float64 round trip.
	assert.NoError(t, MatchClaims(claims, Claims{"school_id": "SCH001", "amount": 2000}))

	// A valid token replayed in a different request context is rejected.
	assert.ErrorIs(t, MatchClaims(claims, Claims{"school_id": "SCH002"}), ErrClaimMismatch)
	assert.ErrorIs(t, MatchClaims(claims, Claims{"amount": 9999}), ErrClaimMismatch)
	assert.ErrorIs(t, MatchClaims(claims, Claims{"missing_field": "x"}), ErrClaimMismatch)
}
