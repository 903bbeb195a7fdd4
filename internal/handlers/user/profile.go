package user

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/utils"
)

func GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var user models.User
	var isActive, forceReset int
	err := database.DB.QueryRow(`
		SELECT user_id, full_name, email, phone, address, avatar_url, is_active, force_password_reset, created_at
		FROM users WHERE user_id = ?`, userID).
		Scan(&user.ID, &user.FullName, &user.Email, &user.Phone, &user.Address,
			&user.AvatarURL, &isActive, &forceReset, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	user.IsActive = isActive != 0
	user.ForcePasswordReset = forceReset != 0

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req struct {
		FullName  string `json:"full_name" binding:"required"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile data"})
		return
	}

	_, err := database.DB.Exec(`
		UPDATE users SET full_name = ?, phone = ?, address = ?, avatar_url = ?
		WHERE user_id = ?`,
		req.FullName, nullable(req.Phone), nullable(req.Address), nullable(req.AvatarURL), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password data"})
		return
	}

	var hash string
	err := database.DB.QueryRow(`SELECT password_hash FROM users WHERE user_id = ?`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	ok, err := utils.VerifyPassword(req.CurrentPassword, hash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if _, err := database.DB.Exec(`
		UPDATE users SET password_hash = ?, force_password_reset = 0 WHERE user_id = ?`,
		newHash, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}
