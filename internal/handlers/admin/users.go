package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
	"fastfood_backend/internal/utils"
)

func ListUsers(c *gin.Context) {
	rows, err := database.DB.Query(`
		SELECT u.user_id, u.full_name, u.email, u.phone, u.address, u.avatar_url,
		       u.is_active, u.force_password_reset, u.created_at
		FROM users u ORDER BY u.user_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var isActive, forceReset int
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Address, &u.AvatarURL,
			&isActive, &forceReset, &u.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		u.IsActive = isActive != 0
		u.ForcePasswordReset = forceReset != 0
		u.Roles = userRoles(u.ID)
		users = append(users, u)
	}

	c.JSON(http.StatusOK, users)
}

func ListRoles(c *gin.Context) {
	rows, err := database.DB.Query(`SELECT role_id, name FROM roles ORDER BY role_id`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	type role struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	roles := []role{}
	for rows.Next() {
		var r role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		roles = append(roles, r)
	}

	c.JSON(http.StatusOK, roles)
}

// CreateUser provisions an account with a temporary password that must be
// changed on first login.
func CreateUser(c *gin.Context) {
	var req struct {
		FullName string `json:"full_name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	res, err := database.DB.Exec(`
		INSERT INTO users (full_name, email, phone, password_hash, force_password_reset)
		VALUES (?, ?, ?, ?, 1)`,
		strings.TrimSpace(req.FullName), email, nullable(req.Phone), hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	userID, _ := res.LastInsertId()

	role := req.Role
	if role == "" {
		role = "Customer"
	}
	if err := assignRole(userID, role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	utils.LogAction(c, utils.ActionUserCreate, utils.EntityUser, userID, nil, gin.H{"email": email, "role": role})
	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

// UpdateUser edits profile fields and the active flag.
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data"})
		return
	}

	updates := []string{}
	values := []interface{}{}
	if req.FullName != nil {
		updates = append(updates, "full_name = ?")
		values = append(values, strings.TrimSpace(*req.FullName))
	}
	if req.Phone != nil {
		updates = append(updates, "phone = ?")
		values = append(values, nullable(*req.Phone))
	}
	if req.Address != nil {
		updates = append(updates, "address = ?")
		values = append(values, nullable(*req.Address))
	}
	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updates provided"})
		return
	}
	values = append(values, id)

	res, err := database.DB.Exec(`UPDATE users SET `+strings.Join(updates, ", ")+` WHERE user_id = ?`, values...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	utils.LogAction(c, utils.ActionUserUpdate, utils.EntityUser, id, nil, req)
	c.Status(http.StatusNoContent)
}

// DeleteUser deactivates rather than deletes when the user has orders, so
// the order history keeps its actor references.
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var hasOrders int
	err = database.DB.QueryRow(`SELECT 1 FROM orders WHERE user_id = ? LIMIT 1`, id).Scan(&hasOrders)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if hasOrders == 1 {
		res, err := database.DB.Exec(`UPDATE users SET is_active = 0 WHERE user_id = ?`, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate user"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		utils.LogAction(c, utils.ActionUserDelete, utils.EntityUser, id, nil, gin.H{"deactivated": true})
		c.JSON(http.StatusOK, gin.H{"message": "User has orders — account deactivated instead of deleted"})
		return
	}

	res, err := database.DB.Exec(`DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	utils.LogAction(c, utils.ActionUserDelete, utils.EntityUser, id, nil, nil)
	c.Status(http.StatusNoContent)
}

// SetUserRole replaces the user's roles with the single requested one.
func SetUserRole(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required"})
		return
	}

	var exists int
	err = database.DB.QueryRow(`SELECT 1 FROM users WHERE user_id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if _, err := database.DB.Exec(`DELETE FROM user_roles WHERE user_id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	if err := assignRole(id, req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	utils.LogAction(c, utils.ActionUserRoleChange, utils.EntityUser, id, nil, gin.H{"role": req.Role})
	c.Status(http.StatusNoContent)
}

func assignRole(userID int64, role string) error {
	res, err := database.DB.Exec(`
		INSERT INTO user_roles (user_id, role_id)
		SELECT ?, role_id FROM roles WHERE name = ?`, userID, role)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("unknown role: " + role)
	}
	return nil
}

func userRoles(userID int) []string {
	rows, err := database.DB.Query(`
		SELECT r.name FROM user_roles ur
		JOIN roles r ON r.role_id = ur.role_id
		WHERE ur.user_id = ?`, userID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			roles = append(roles, name)
		}
	}
	return roles
}
