package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GatewayError kinds
const (
	ErrKindNetwork     = "network"
	ErrKindTimeout     = "timeout"
	ErrKindBadResponse = "bad_response"
)

// GatewayError wraps any failure talking to the external collection API.
// Callers never surface it to the end user; every call site has a defined
// local fallback.
type GatewayError struct {
	Kind string
	Op   string
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, e.Kind)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError checks if an error is a GatewayError
func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}

// CollectStatus is the normalized result of a collect-request status poll
type CollectStatus struct {
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
	Message       string  `json:"message"`
}

// Client wraps outbound calls to the external payment collection API. All
// requests carry a signed assertion built from the API signing key; signed
// assertions in responses are verified with the PG secret and their values
// win over loosely typed top-level fields.
type Client struct {
	baseURL    string
	pgKey      string
	apiKey     string
	pgSecret   string
	httpClient *http.Client
}

// NewClient creates a gateway client with a bounded request timeout
func NewClient(baseURL, pgKey, apiKey, pgSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pgKey:      pgKey,
		apiKey:     apiKey,
		pgSecret:   pgSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateCollectRequest registers a collect request with the gateway and
// returns the gateway-side id and the payment redirect URL.
func (c *Client) CreateCollectRequest(ctx context.Context, schoolID string, amount float64, callbackURL string) (string, string, error) {
	const op = "create-collect-request"

	sign, err := SignClaims(Claims{
		"school_id":    schoolID,
		"amount":       strconv.FormatFloat(amount, 'f', -1, 64),
		"callback_url": callbackURL,
	}, c.apiKey, time.Hour)
	if err != nil {
		return "", "", &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
	}

	reqBody, _ := json.Marshal(map[string]interface{}{
		"pg_key":       c.pgKey,
		"school_id":    schoolID,
		"amount":       strconv.FormatFloat(amount, 'f', -1, 64),
		"callback_url": callbackURL,
		"sign":         sign,
	})

	raw, err := c.do(ctx, op, http.MethodPost, c.baseURL+"/create-collect-request", reqBody)
	if err != nil {
		return "", "", err
	}

	collectID := stringField(raw, "collect_request_id")
	paymentURL := firstString(raw, "collect_request_url", "Collect_request_url", "payment_url")

	// The gateway may re-wrap the canonical values in its own signed token.
	// When present and verifiable it is authoritative. Every request field
	// the token echoes back must match, or the token could belong to a
	// different collect request.
	if tokenString := stringField(raw, "sign"); tokenString != "" && c.pgSecret != "" {
		claims, err := VerifyToken(tokenString, c.pgSecret)
		if err != nil {
			return "", "", &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
		}
		expected := Claims{"school_id": schoolID}
		if _, ok := claims["amount"]; ok {
			expected["amount"] = strconv.FormatFloat(amount, 'f', -1, 64)
		}
		if _, ok := claims["callback_url"]; ok {
			expected["callback_url"] = callbackURL
		}
		if err := MatchClaims(claims, expected); err != nil {
			return "", "", &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
		}
		if v, ok := claims["collect_request_id"].(string); ok && v != "" {
			collectID = v
		}
		if v, ok := claims["collect_request_url"].(string); ok && v != "" {
			paymentURL = v
		}
	}

	if collectID == "" || paymentURL == "" {
		return "", "", &GatewayError{
			Kind: ErrKindBadResponse,
			Op:   op,
			Err:  errors.New("response missing collect_request_id or collect_request_url"),
		}
	}
	return collectID, paymentURL, nil
}

// GetCollectStatus polls the gateway for the settlement state of a collect request
func (c *Client) GetCollectStatus(ctx context.Context, schoolID, collectRequestID string) (*CollectStatus, error) {
	const op = "collect-request-status"

	sign, err := SignClaims(Claims{
		"school_id":          schoolID,
		"collect_request_id": collectRequestID,
	}, c.apiKey, time.Hour)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
	}

	query := url.Values{}
	query.Set("school_id", schoolID)
	query.Set("sign", sign)
	endpoint := c.baseURL + "/collect-request/" + url.PathEscape(collectRequestID) + "?" + query.Encode()

	raw, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	if tokenString := stringField(raw, "sign"); tokenString != "" && c.pgSecret != "" {
		claims, err := VerifyToken(tokenString, c.pgSecret)
		if err != nil {
			return nil, &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
		}
		expected := Claims{"collect_request_id": collectRequestID}
		if _, ok := claims["school_id"]; ok {
			expected["school_id"] = schoolID
		}
		if err := MatchClaims(claims, expected); err != nil {
			return nil, &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
		}
		for key, value := range claims {
			raw[key] = value
		}
	}

	status := strings.ToLower(firstString(raw, "status"))
	if status == "" {
		return nil, &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: errors.New("response missing status")}
	}

	return &CollectStatus{
		Status:        status,
		Amount:        numberField(raw, "amount", "transaction_amount"),
		PaymentMethod: firstString(raw, "payment_method", "payment_mode"),
		TransactionID: firstString(raw, "transaction_id", "bank_reference"),
		Message:       firstString(raw, "message", "payment_message"),
	}, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, body []byte) (map[string]interface{}, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &GatewayError{Kind: ErrKindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Kind: classifyTransportError(err), Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{
			Kind: ErrKindBadResponse,
			Op:   op,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &GatewayError{Kind: ErrKindBadResponse, Op: op, Err: err}
	}
	return raw, nil
}

func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ErrKindTimeout
	}
	return ErrKindNetwork
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v := stringField(raw, key); v != "" {
			return v
		}
	}
	return ""
}

func numberField(raw map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}
