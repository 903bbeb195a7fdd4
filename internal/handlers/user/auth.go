package user

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/middleware"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/utils"
)

// Register creates a user account with the Customer role and returns a JWT.
func Register(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration data", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int
	err := database.DB.QueryRow(`SELECT 1 FROM users WHERE email = ?`, email).Scan(&existing)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	res, err := database.DB.Exec(`
		INSERT INTO users (full_name, email, phone, address, password_hash)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(req.FullName), email, nullable(req.Phone), nullable(req.Address), hash)
	if err != nil {
		log.Printf("❌ User registration failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	userID, _ := res.LastInsertId()

	if _, err := database.DB.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		SELECT ?, role_id FROM roles WHERE name = 'Customer'`, userID); err != nil {
		log.Printf("❌ Role assignment failed for user %d: %v", userID, err)
	}

	user := models.User{ID: int(userID), FullName: strings.TrimSpace(req.FullName), Email: email, IsActive: true}
	token, err := utils.GenerateJWT(user, "Customer")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	log.Printf("✅ User registered: %s (id=%d)", email, userID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns a JWT carrying the user's role.
func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	var hash string
	var isActive int
	err := database.DB.QueryRow(`
		SELECT user_id, full_name, email, phone, address, avatar_url, password_hash, is_active
		FROM users WHERE email = ?`, email).
		Scan(&user.ID, &user.FullName, &user.Email, &user.Phone, &user.Address, &user.AvatarURL, &hash, &isActive)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.RecordFailedLogin(email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, hash)
	if err != nil || !ok {
		middleware.RecordFailedLogin(email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if isActive == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is locked"})
		return
	}
	user.IsActive = true

	role := userRole(user.ID)
	token, err := utils.GenerateJWT(user, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	middleware.ResetLoginAttempts(email)
	log.Printf("✅ Login: %s (role=%s)", email, role)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user, "role": role})
}

// userRole returns "Admin" when the user carries the Admin role,
// "Customer" otherwise.
func userRole(userID int) string {
	var found int
	err := database.DB.QueryRow(`
		SELECT 1 FROM user_roles ur
		JOIN roles r ON r.role_id = ur.role_id
		WHERE ur.user_id = ? AND r.name = 'Admin'`, userID).Scan(&found)
	if err == nil {
		return "Admin"
	}
	return "Customer"
}

func nullable(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
