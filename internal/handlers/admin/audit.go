package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/database"
	"fastfood_backend/internal/models"
)

// ListAuditLogs returns the most recent audit entries, newest first.
func ListAuditLogs(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if n < 1 {
			n = 1
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	rows, err := database.DB.Query(`
		SELECT a.audit_log_id, a.actor_user_id, u.full_name, u.email,
		       a.action, a.entity_name, a.entity_id,
		       a.old_values_json, a.new_values_json, a.ip_address, a.created_at
		FROM audit_log a
		LEFT JOIN users u ON u.user_id = a.actor_user_id
		ORDER BY a.audit_log_id DESC
		LIMIT ?`, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.ActorName, &e.ActorEmail,
			&e.Action, &e.EntityName, &e.EntityID,
			&e.OldValuesJSON, &e.NewValuesJSON, &e.IPAddress, &e.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		logs = append(logs, e)
	}

	c.JSON(http.StatusOK, logs)
}
