package controllers

import (
	"github.com/Manavkumar-21/SchoolPay/config"
	"github.com/Manavkumar-21/SchoolPay/models"
	"github.com/Manavkumar-21/SchoolPay/utils"
	"github.com/gin-gonic/gin"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	SchoolID string `json:"school_id"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser handles user registration
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid registration request", err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleSchoolAdmin
	}
	if role != models.RoleAdmin && role != models.RoleSchoolAdmin && role != models.RoleTrustee {
		utils.LogError("Registration failed - Unknown role: %s", role)
		utils.BadRequest(c, "Unknown role", nil)
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration failed - Duplicate user: %s", req.Email)
		utils.Conflict(c, "User with this email or username already exists", nil)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.LogError("Registration failed - Password hashing error: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
		SchoolID: req.SchoolID,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Registration failed - DB error: %v", err)
		utils.InternalServerError(c, "Registration failed", err.Error())
		return
	}

	utils.LogInfo("User registered: %s (%s)", user.Username, user.Role)
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{"user_id": user.ID})
}

// LoginUser handles user login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials, err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login failed - User not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login failed - Invalid password for user: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if !user.IsActive {
		utils.LogError("Login failed - Inactive account: %s", req.Email)
		utils.Forbidden(c, utils.ErrUserInactive)
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Login failed - Token generation error: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	utils.LogInfo("User %d logged in", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"access_token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"school_id": user.SchoolID,
		},
	})
}

// GetProfile returns the authenticated principal
func GetProfile(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	utils.Success(c, "Profile retrieved successfully", gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"school_id": user.SchoolID,
	})
}
