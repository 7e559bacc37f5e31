package controllers

import (
	"strconv"
	"time"

	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionRow is the read-only order/status projection returned by the
// transaction listing endpoints. It carries no reconciliation logic.
type TransactionRow struct {
	CollectID         uint       `json:"collect_id"`
	SchoolID          string     `json:"school_id"`
	Gateway           string     `json:"gateway"`
	CustomOrderID     string     `json:"custom_order_id"`
	OrderAmount       float64    `json:"order_amount"`
	TransactionAmount float64    `json:"transaction_amount"`
	Status            string     `json:"status"`
	PaymentTime       *time.Time `json:"payment_time"`
	PaymentMode       string     `json:"payment_mode"`
	BankReference     string     `json:"bank_reference"`
	PaymentMessage    string     `json:"payment_message"`
	PaymentDetails    string     `json:"payment_details"`
	StudentName       string     `json:"student_name"`
	StudentEmail      string     `json:"student_email"`
	CreatedAt         time.Time  `json:"created_at"`
}

const transactionColumns = `orders.id AS collect_id,
	orders.school_id,
	orders.gateway_name AS gateway,
	orders.custom_order_id,
	orders.student_name,
	orders.student_email,
	orders.created_at,
	COALESCE(order_statuses.order_amount, 0) AS order_amount,
	COALESCE(order_statuses.transaction_amount, 0) AS transaction_amount,
	COALESCE(order_statuses.status, 'pending') AS status,
	order_statuses.payment_time,
	COALESCE(order_statuses.payment_mode, '') AS payment_mode,
	COALESCE(order_statuses.bank_reference, '') AS bank_reference,
	COALESCE(order_statuses.payment_message, '') AS payment_message,
	COALESCE(order_statuses.payment_details, '') AS payment_details`

// Whitelisted sort columns for the listing endpoints
var transactionSortColumns = map[string]string{
	"payment_time":       "order_statuses.payment_time",
	"created_at":         "orders.created_at",
	"order_amount":       "order_statuses.order_amount",
	"transaction_amount": "order_statuses.transaction_amount",
	"status":             "order_statuses.status",
	"custom_order_id":    "orders.custom_order_id",
}

func transactionQuery(schoolID string) *gorm.DB {
	query := config.DB.Table("orders").
		Joins("LEFT JOIN order_statuses ON order_statuses.collect_id = orders.id")
	if schoolID != "" {
		query = query.Where("orders.school_id = ?", schoolID)
	}
	return query
}

func listTransactions(c *gin.Context, schoolID string) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPaginationLimit)))
	if page < 1 || limit < 1 || limit > utils.MaxPaginationLimit {
		utils.BadRequest(c, utils.ErrInvalidPagination, nil)
		return
	}

	sortColumn, ok := transactionSortColumns[c.DefaultQuery("sortBy", "payment_time")]
	if !ok {
		utils.BadRequest(c, "Unknown sort field", nil)
		return
	}
	direction := "DESC"
	if c.DefaultQuery("sortOrder", "desc") == "asc" {
		direction = "ASC"
	}

	var total int64
	if err := transactionQuery(schoolID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	var rows []TransactionRow
	err := transactionQuery(schoolID).
		Select(transactionColumns).
		Order(sortColumn + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		utils.LogError("Failed to fetch transactions: %v", err)
		utils.InternalServerError(c, "Failed to fetch transactions", err.Error())
		return
	}

	utils.SuccessWithPagination(c, utils.MsgTransactionsListed, rows, total, page, limit)
}

// GET /api/transactions
func GetTransactions(c *gin.Context) {
	listTransactions(c, "")
}

// GET /api/transactions/school/:schoolId
func GetSchoolTransactions(c *gin.Context) {
	listTransactions(c, c.Param("schoolId"))
}

// GET /api/transactions/status/:customOrderId
func GetTransactionStatus(c *gin.Context) {
	customOrderID := c.Param("customOrderId")

	var row TransactionRow
	err := transactionQuery("").
		Select(transactionColumns).
		Where("orders.custom_order_id = ?", customOrderID).
		Scan(&row).Error
	if err != nil {
		utils.LogError("Failed to fetch transaction %s: %v", customOrderID, err)
		utils.InternalServerError(c, "Failed to get transaction status", err.Error())
		return
	}
	if row.CustomOrderID == "" {
		utils.NotFound(c, "Transaction not found")
		return
	}

	utils.Success(c, "Transaction status retrieved successfully", row)
}
