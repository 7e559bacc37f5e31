package routes

import (
	"net/http"
	"time"

	"github.com/Manavkumar-21/SchoolPay/controllers"
	"github.com/Manavkumar-21/SchoolPay/middleware"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	// Global middleware, registered before any route so every handler gets it
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "OK",
				"message":   "School Payment API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.RegisterUser)
			auth.POST("/login", controllers.LoginUser)
			auth.GET("/profile", middleware.AuthMiddleware(), controllers.GetProfile)
		}

		payment := api.Group("/payment")
		{
			// The gateway redirects the payer here, no bearer token involved.
			payment.GET("/callback", controllers.PaymentCallback)

			protected := payment.Group("")
			protected.Use(middleware.AuthMiddleware())
			{
				protected.POST("/create-payment", controllers.CreatePayment)
				protected.GET("/status/:customOrderId", controllers.GetPaymentStatus)
			}
		}

		// Gateway pushes are authenticated by order resolution, not bearer auth.
		api.POST("/webhook", controllers.ProcessWebhook)

		transactions := api.Group("/transactions")
		transactions.Use(middleware.AuthMiddleware())
		{
			// The cross-school listing is admin only
			transactions.GET("", middleware.RequireRole(models.RoleAdmin), controllers.GetTransactions)
			transactions.GET("/school/:schoolId", controllers.GetSchoolTransactions)
			transactions.GET("/status/:customOrderId", controllers.GetTransactionStatus)
		}
	}

	return router
}
