package utils

// Application constants
const (
	// Application name
	AppName = "SchoolPay"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// Gateway assertion expiration (1 hour)
	GatewayTokenExpiration = "1h"

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8

	// Attempts to regenerate an order id on a duplicate collision
	OrderIDRetryAttempts = 3
)

// Error messages
const (
	// Authentication errors
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserInactive       = "Your account has been deactivated"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"
	ErrForbidden          = "Access forbidden"

	// Validation errors
	ErrInvalidPagination = "Invalid pagination parameters"
	ErrInvalidGateway    = "Unsupported payment gateway"
	ErrInvalidAmount     = "Order amount must be greater than 0"

	// Database errors
	ErrRecordNotFound = "Record not found"
	ErrDuplicateEntry = "Duplicate entry"

	// Server errors
	ErrInternalServer = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgRegisterSuccess = "Registration successful"

	MsgPaymentInitiated   = "Payment initiated successfully"
	MsgStatusRetrieved    = "Payment status retrieved successfully"
	MsgWebhookProcessed   = "Webhook processed successfully"
	MsgCallbackProcessed  = "Callback processed successfully"
	MsgTransactionsListed = "Transactions retrieved successfully"
)
